package directory

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peppolcheck/pkg/platform/sentinel"
)

const csvSnapshot = "Participant ID\niso6523-actorid-upis::9925:BE0418159080\n"

func TestFileSourceLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvSnapshot), 0o600))

	loader := NewLoader(SourceFor(path, nil), CSVParser{})
	records, err := loader.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Record{{Scheme: "9925", ParticipantID: "BE0418159080"}}, records)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Open(context.Background())
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/export/participants" {
			_, _ = io.WriteString(w, csvSnapshot)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	t.Run("downloads export", func(t *testing.T) {
		src := SourceFor(srv.URL+"/export/participants", srv.Client())
		require.IsType(t, &HTTPSource{}, src)

		records, err := NewLoader(src, CSVParser{}).Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("non 200 is unavailable", func(t *testing.T) {
		_, err := SourceFor(srv.URL+"/broken", srv.Client()).Open(context.Background())
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := SourceFor(srv.URL+"/export/participants", srv.Client()).Open(ctx)
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})
}
