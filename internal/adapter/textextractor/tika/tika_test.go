package tika

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-fake", string(body))

		_, _ = w.Write([]byte("  Ada Lovelace\n\n  Software   Engineer \x00"))
	}))
	defer srv.Close()

	path := writeTempFile(t, "resume.pdf", "%PDF-fake")
	got, err := New(srv.URL).ExtractPath(context.Background(), "resume.pdf", path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace Software Engineer", got)
}

func TestExtractPath_TikaError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "cannot parse", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	path := writeTempFile(t, "broken.pdf", "junk")
	_, err := New(srv.URL).ExtractPath(context.Background(), "broken.pdf", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tika status 422")
}

func TestExtractPath_DisallowedPath(t *testing.T) {
	t.Parallel()

	_, err := New("http://localhost:9998").ExtractPath(context.Background(), "x", "/etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disallowed path")
}

func TestExtractPath_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.pdf")
	_, err := New("http://localhost:9998").ExtractPath(context.Background(), "missing.pdf", path)
	assert.Error(t, err)
}

func TestContentTypeFromExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/pdf", contentTypeFromExt(".pdf"))
	assert.Equal(t, "text/plain", contentTypeFromExt(".TXT"))
	assert.Empty(t, contentTypeFromExt(""))
}
