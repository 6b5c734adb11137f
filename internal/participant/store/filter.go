package store

import (
	"fmt"
	"strings"

	"peppolcheck/internal/participant/models"
)

// whereClause renders filter as a SQL WHERE clause with positional arguments
// starting at $1. An empty filter renders "".
func whereClause(f models.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CountryCode != "" {
		add("UPPER(TRIM(country_code)) = $%d", strings.ToUpper(strings.TrimSpace(f.CountryCode)))
	}
	if f.SchemeID != "" {
		add("scheme_id = $%d", f.SchemeID)
	}
	if f.CompanyName != "" {
		add("company_name ILIKE $%d", "%"+escapeLike(f.CompanyName)+"%")
	}
	if f.SupportsInvoice != nil {
		add("supports_invoice = $%d", *f.SupportsInvoice)
	}
	if f.SupportsCreditNote != nil {
		add("supports_creditnote = $%d", *f.SupportsCreditNote)
	}
	if f.DocumentType != "" {
		args = append(args, "%"+escapeLike(f.DocumentType)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(document_types::text ILIKE $%d OR raw_document_types ILIKE $%d)", n, n))
	}
	if f.StartDate != nil {
		add("registration_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("registration_date <= $%d", *f.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// matches applies filter semantics in memory, mirroring whereClause.
func matches(p *models.Participant, f models.Filter) bool {
	if f.CountryCode != "" && !strings.EqualFold(strings.TrimSpace(p.CountryCode), strings.TrimSpace(f.CountryCode)) {
		return false
	}
	if f.SchemeID != "" && p.SchemeID != f.SchemeID {
		return false
	}
	if f.CompanyName != "" && !containsFold(p.CompanyName, f.CompanyName) {
		return false
	}
	if f.SupportsInvoice != nil && p.SupportsInvoice != *f.SupportsInvoice {
		return false
	}
	if f.SupportsCreditNote != nil && p.SupportsCreditNote != *f.SupportsCreditNote {
		return false
	}
	if f.DocumentType != "" &&
		!containsFold(string(p.DocumentTypes), f.DocumentType) &&
		!containsFold(p.RawDocumentTypes, f.DocumentType) {
		return false
	}
	if f.StartDate != nil && (p.RegistrationDate == nil || p.RegistrationDate.Before(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && (p.RegistrationDate == nil || p.RegistrationDate.After(*f.EndDate)) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
