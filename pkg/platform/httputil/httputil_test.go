package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "peppolcheck/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Missing required fields: schemeID and participantID"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "Missing required fields: schemeID and participantID" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("infrastructure codes map to retryable statuses", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("dial tcp"), dErrors.CodeUnavailable, "participant store unavailable"))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		w = httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeTimeout, "participant store timed out"))
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("plain error falls back to 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type checkLikeRequest struct {
	Scheme string `json:"scheme"`
	ID     string `json:"id"`
}

func (r *checkLikeRequest) Sanitize() {
	r.Scheme = string(bytes.TrimSpace([]byte(r.Scheme)))
	r.ID = string(bytes.TrimSpace([]byte(r.ID)))
}

func (r *checkLikeRequest) Validate() error {
	if r.Scheme == "" || r.ID == "" {
		return errors.New("scheme and id are required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("sanitizes before validating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"scheme":" 0208 ","id":" 1009049626 "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[checkLikeRequest](w, req, logger, ctx, "req-1")

		require.True(t, ok)
		assert.Equal(t, "0208", result.Scheme)
		assert.Equal(t, "1009049626", result.ID)
	})

	t.Run("validation failure writes 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"scheme":"  "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[checkLikeRequest](w, req, logger, ctx, "req-2")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})

	t.Run("invalid JSON writes bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{invalid`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[checkLikeRequest](w, req, logger, ctx, "req-3")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad_request")
	})
}

func TestSetPaginationHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SetPaginationHeaders(w, 3, 250)
	assert.Equal(t, "3", w.Header().Get("X-Total-Pages"))
	assert.Equal(t, "250", w.Header().Get("X-Total-Count"))
}
