package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane","extra":1}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "Jane", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}{"name":"John"}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "слот занят")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"слот занят"}`, w.Body.String())
}

func TestRespondJSON_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
