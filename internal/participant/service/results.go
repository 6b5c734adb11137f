package service

import (
	"fmt"
	"strings"

	"peppolcheck/internal/participant/doctype"
	"peppolcheck/internal/participant/identifier"
	"peppolcheck/internal/participant/models"
)

// Result messages.
const (
	MessageSchemeMismatch = "Participant exists under a different scheme"
	MessageOtherIDForm    = "Participant exists under the given scheme with a different identifier form"
	MessageDirectoryAlt   = "No participant exists with the given schema, but found with alternative schemes"
	MessageNotFound       = "No participant exists with the given schema and endpoint ID"
)

func matched(req models.LookupRequest, p *models.Participant, matchType models.MatchType) *models.Result {
	company := p.CompanyName
	if strings.TrimSpace(company) == "" {
		company = models.UnknownCompany
	}
	docTypes := doctype.Derive(p)

	result := &models.Result{
		ParticipantID:      p.EndpointID,
		SchemeID:           p.SchemeID,
		DocumentType:       req.DocumentType,
		CompanyName:        company,
		MatchType:          matchType,
		FoundIn:            models.FoundInDatabase,
		AllDocumentTypes:   docTypes,
		AlternativeSchemes: []models.Alternative{},
		ActualFullPID:      p.FullPID,
	}

	if req.DocumentType == "" {
		result.Message = "No document type specified - " + company
		return result
	}
	supported := doctype.Supports(docTypes, req.DocumentType)
	result.SupportsDocumentType = &supported
	if supported {
		result.Message = fmt.Sprintf("%s supported - %s", req.DocumentType, company)
	} else {
		result.Message = fmt.Sprintf("%s not supported - %s", req.DocumentType, company)
	}
	return result
}

func storeAlternatives(req models.LookupRequest, rows []models.Participant) *models.Result {
	message := MessageSchemeMismatch
	alts := make([]models.Alternative, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.SchemeID == req.SchemeID {
			message = MessageOtherIDForm
		}
		alt := models.Alternative{
			Scheme:        row.SchemeID,
			ParticipantID: row.EndpointID,
			FullID:        identifier.DirectoryID(row.SchemeID, row.EndpointID),
			CompanyName:   row.CompanyName,
			DocumentTypes: doctype.Derive(row),
		}
		if !strings.EqualFold(row.EndpointID, req.ParticipantID) {
			alt.IsNormalized = true
			alt.OriginalID = row.EndpointID
		}
		alts = append(alts, alt)
	}

	result := alternatives(req, alts, message)
	result.FoundIn = models.FoundInDatabase
	return result
}

func directoryAlternatives(req models.LookupRequest, entries []models.DirectoryEntry) *models.Result {
	alts := make([]models.Alternative, 0, len(entries))
	for _, e := range entries {
		alts = append(alts, models.Alternative{
			Scheme:        e.Scheme,
			ParticipantID: e.ParticipantID,
			FullID:        e.FullID,
			DocumentTypes: []string{},
			IsNormalized:  e.IsNormalized,
			OriginalID:    e.OriginalID,
		})
	}

	result := alternatives(req, alts, MessageDirectoryAlt)
	result.FoundIn = models.FoundInDirectory
	return result
}

// alternatives reports a scheme mismatch. Support is false when a document
// type was asked for, since the requested scheme does not hold the participant,
// and unknown otherwise.
func alternatives(req models.LookupRequest, alts []models.Alternative, message string) *models.Result {
	result := &models.Result{
		ParticipantID:      req.ParticipantID,
		SchemeID:           req.SchemeID,
		DocumentType:       req.DocumentType,
		MatchType:          models.MatchAlternativeSchemes,
		Message:            message,
		AllDocumentTypes:   []string{},
		AlternativeSchemes: alts,
	}
	if req.DocumentType != "" {
		result.SupportsDocumentType = new(bool)
	}
	return result
}

func notFound(req models.LookupRequest) *models.Result {
	return &models.Result{
		ParticipantID:        req.ParticipantID,
		SchemeID:             req.SchemeID,
		DocumentType:         req.DocumentType,
		SupportsDocumentType: new(bool),
		MatchType:            models.MatchNotFound,
		FoundIn:              models.FoundInNowhere,
		Message:              MessageNotFound,
		AllDocumentTypes:     []string{},
		AlternativeSchemes:   []models.Alternative{},
	}
}
