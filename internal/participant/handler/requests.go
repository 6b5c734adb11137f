package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/participant/service"
	dErrors "peppolcheck/pkg/domain-errors"
)

// CheckRequest is the body of POST /api/check-participant.
type CheckRequest struct {
	SchemeID      string `json:"schemeID"`
	ParticipantID string `json:"participantID"`
	DocumentType  string `json:"documentType,omitempty"`
}

func (r *CheckRequest) Sanitize() {
	r.SchemeID = strings.TrimSpace(r.SchemeID)
	r.ParticipantID = strings.TrimSpace(r.ParticipantID)
	r.DocumentType = strings.TrimSpace(r.DocumentType)
}

func (r *CheckRequest) Validate() error {
	if r.SchemeID == "" || r.ParticipantID == "" {
		return dErrors.New(dErrors.CodeBadRequest, service.MissingFieldsMessage)
	}
	return nil
}

func (r *CheckRequest) LookupRequest() models.LookupRequest {
	return models.LookupRequest{
		SchemeID:      r.SchemeID,
		ParticipantID: r.ParticipantID,
		DocumentType:  r.DocumentType,
	}
}

// first returns the first non-empty query value among keys.
func first(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// parsePage reads page and limit from headers, falling back to the query string.
func parsePage(r *http.Request) (models.Page, error) {
	page, err := pageParam(r, "page", service.DefaultPage)
	if err != nil {
		return models.Page{}, err
	}
	limit, err := pageParam(r, "limit", service.DefaultLimit)
	if err != nil {
		return models.Page{}, err
	}
	if page < 1 || limit < 1 {
		return models.Page{}, dErrors.New(dErrors.CodeBadRequest, "Invalid page or limit parameters")
	}
	p := models.Page{Number: page, Limit: min(limit, service.MaxLimit)}
	if p.Overflows() {
		return models.Page{}, dErrors.New(dErrors.CodeBadRequest, "Invalid page or limit parameters")
	}
	return p, nil
}

func pageParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.Header.Get(name))
	if raw == "" {
		raw = first(r, name)
	}
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "Invalid page or limit parameters")
	}
	return n, nil
}

func parseFilter(r *http.Request) (models.Filter, error) {
	f := models.Filter{
		CountryCode:        first(r, "country", "countryCode"),
		SchemeID:           first(r, "scheme", "schemeId"),
		CompanyName:        first(r, "company", "companyName", "search"),
		DocumentType:       first(r, "documentType", "docType"),
		SupportsInvoice:    boolParam(first(r, "supportsInvoice")),
		SupportsCreditNote: boolParam(first(r, "supportsCreditnote")),
	}

	var err error
	if f.StartDate, err = dateParam(first(r, "startDate", "fromDate"), "startDate"); err != nil {
		return models.Filter{}, err
	}
	if f.EndDate, err = dateParam(first(r, "endDate", "toDate"), "endDate"); err != nil {
		return models.Filter{}, err
	}
	return f, nil
}

func boolParam(raw string) *bool {
	if raw == "" {
		return nil
	}
	v := raw == "true"
	return &v
}

func dateParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeValidation, name+" must be a date (YYYY-MM-DD)")
}
