package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peppolcheck/internal/participant/models"
	dErrors "peppolcheck/pkg/domain-errors"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    models.Page
		wantErr bool
	}{
		{name: "defaults", target: "/", want: models.Page{Number: 1, Limit: 100}},
		{name: "query", target: "/?page=3&limit=20", want: models.Page{Number: 3, Limit: 20}},
		{name: "header wins", target: "/?page=3", headers: map[string]string{"page": "7"}, want: models.Page{Number: 7, Limit: 100}},
		{name: "capped", target: "/?limit=1001", want: models.Page{Number: 1, Limit: 1000}},
		{name: "zero page", target: "/?page=0", wantErr: true},
		{name: "not a number", target: "/?limit=ten", wantErr: true},
		{name: "offset overflows", target: "/?page=10000000000000000&limit=1000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, err := parsePage(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("first alias wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?countryCode=NL&country=BE&schemeId=0106&companyName=Foo&search=Bar&docType=Invoice", nil)

		f, err := parseFilter(req)

		require.NoError(t, err)
		assert.Equal(t, "BE", f.CountryCode)
		assert.Equal(t, "0106", f.SchemeID)
		assert.Equal(t, "Foo", f.CompanyName)
		assert.Equal(t, "Invoice", f.DocumentType)
	})

	t.Run("booleans", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?supportsInvoice=true&supportsCreditnote=yes", nil)

		f, err := parseFilter(req)

		require.NoError(t, err)
		require.NotNil(t, f.SupportsInvoice)
		require.NotNil(t, f.SupportsCreditNote)
		assert.True(t, *f.SupportsInvoice)
		assert.False(t, *f.SupportsCreditNote)
	})

	t.Run("dates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?toDate=2024-02-01T10:00:00Z&startDate=2024-01-01", nil)

		f, err := parseFilter(req)

		require.NoError(t, err)
		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		assert.Equal(t, "2024-01-01", f.StartDate.Format("2006-01-02"))
		assert.Equal(t, 10, f.EndDate.Hour())
	})

	t.Run("bad date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?startDate=01/02/2024", nil)

		_, err := parseFilter(req)

		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
