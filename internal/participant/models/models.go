// Package models holds the participant lookup domain types shared by stores,
// the resolution engine, and the HTTP layer.
package models

import (
	"encoding/json"
	"math"
	"time"
)

// MatchType classifies how a lookup was satisfied.
type MatchType string

const (
	MatchDirect             MatchType = "direct"
	MatchEndpoint           MatchType = "endpoint_match"
	MatchNormalized         MatchType = "normalized_match"
	MatchAlternativeSchemes MatchType = "alternative_schemes"
	MatchNotFound           MatchType = "not_found"
)

// FoundIn names the data source that produced a result.
type FoundIn string

const (
	FoundInDatabase  FoundIn = "database"
	FoundInDirectory FoundIn = "peppol_directory"
	FoundInNowhere   FoundIn = ""
)

// UnknownCompany is reported when a matched record carries no company name.
const UnknownCompany = "Unknown"

// Participant is one registered network endpoint as stored in the participants table.
type Participant struct {
	FullPID            string          `json:"full_pid"`
	SchemeID           string          `json:"scheme_id"`
	EndpointID         string          `json:"endpoint_id"`
	CompanyName        string          `json:"company_name,omitempty"`
	CountryCode        string          `json:"country_code,omitempty"`
	RegistrationDate   *time.Time      `json:"registration_date,omitempty"`
	SupportsInvoice    bool            `json:"supports_invoice"`
	SupportsCreditNote bool            `json:"supports_creditnote"`
	RawDocumentTypes   string          `json:"raw_document_types,omitempty"`
	DocumentTypes      json.RawMessage `json:"document_types,omitempty"`
}

// DirectoryEntry is a lightweight alternate identity from the directory snapshot.
type DirectoryEntry struct {
	Scheme        string `json:"scheme"`
	ParticipantID string `json:"participantId"`
	FullID        string `json:"fullId"`
	IsNormalized  bool   `json:"isNormalized"`
	OriginalID    string `json:"originalId,omitempty"`
}

// Alternative is one candidate reported under MatchAlternativeSchemes.
type Alternative struct {
	Scheme        string   `json:"scheme"`
	ParticipantID string   `json:"participantId"`
	FullID        string   `json:"fullId"`
	CompanyName   string   `json:"companyName,omitempty"`
	DocumentTypes []string `json:"documentTypes"`
	IsNormalized  bool     `json:"isNormalized,omitempty"`
	OriginalID    string   `json:"originalId,omitempty"`
}

// Result is the outcome of a completed resolution. A not_found result is a
// successful resolution, not an error.
type Result struct {
	ParticipantID        string        `json:"participantID"`
	SchemeID             string        `json:"schemeID"`
	DocumentType         string        `json:"documentType"`
	CompanyName          string        `json:"companyName"`
	SupportsDocumentType *bool         `json:"supportsDocumentType"`
	MatchType            MatchType     `json:"matchType"`
	FoundIn              FoundIn       `json:"foundIn"`
	Message              string        `json:"message"`
	AllDocumentTypes     []string      `json:"allDocumentTypes"`
	AlternativeSchemes   []Alternative `json:"alternativeSchemes"`
	ActualFullPID        string        `json:"actualFullPid"`
}

// LookupRequest is the input triple for a resolution. DocumentType is optional.
type LookupRequest struct {
	SchemeID      string
	ParticipantID string
	DocumentType  string
}

// FullPID returns the scheme-qualified key for the request.
func (r LookupRequest) FullPID() string {
	return r.SchemeID + ":" + r.ParticipantID
}

// Filter narrows participant listings. Zero values mean "no constraint".
type Filter struct {
	CountryCode        string     `json:"countryCode,omitempty"`
	SchemeID           string     `json:"schemeId,omitempty"`
	CompanyName        string     `json:"companyName,omitempty"`
	DocumentType       string     `json:"documentType,omitempty"`
	SupportsInvoice    *bool      `json:"supportsInvoice,omitempty"`
	SupportsCreditNote *bool      `json:"supportsCreditnote,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
}

// Page selects a 1-based page of Limit rows.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Overflows reports whether Offset does not fit in an int.
func (p Page) Overflows() bool {
	return p.Limit > 0 && p.Number-1 > math.MaxInt/p.Limit
}

// ParticipantSummary is a listing row with derived document types.
type ParticipantSummary struct {
	FullPID            string     `json:"full_pid"`
	SchemeID           string     `json:"scheme_id"`
	EndpointID         string     `json:"endpoint_id"`
	CompanyName        string     `json:"company_name"`
	CountryCode        string     `json:"country_code"`
	RegistrationDate   *time.Time `json:"registration_date,omitempty"`
	SupportsInvoice    bool       `json:"supports_invoice"`
	SupportsCreditNote bool       `json:"supports_creditnote"`
	DocumentTypes      []string   `json:"document_types"`
}

// Listing is one page of participants plus paging totals.
type Listing struct {
	Count       int                  `json:"count"`
	TotalCount  int                  `json:"totalCount"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	Filters     Filter               `json:"filters"`
	Data        []ParticipantSummary `json:"data"`
}
