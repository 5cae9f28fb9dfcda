package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	h, err := Handler()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestHandler_Index(t *testing.T) {
	w := serve(t, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="reviewForm"`)
	assert.Contains(t, w.Body.String(), `name="redmineUrl"`)
}

func TestHandler_Assets(t *testing.T) {
	w := serve(t, "/static/form.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/generate-pdf")

	w = serve(t, "/static/form.css")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Missing(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(t, "/static/missing.js").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, "/elsewhere").Code)
}
