package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/platform/apperr"
)

func TestWriteError_MapsKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Validation(map[string]string{"valor": "Valor deve ser maior que zero"}), http.StatusBadRequest, ""},
		{"unauthorized", apperr.Unauthorized(""), http.StatusUnauthorized, ""},
		{"access", apperr.AccessDenied("not owner"), http.StatusForbidden, ""},
		{"deletion", apperr.DeletionNotAllowed("nope"), http.StatusForbidden, "deletion_not_allowed"},
		{"notfound", apperr.NotFound("pet not found"), http.StatusNotFound, ""},
		{"conflict", apperr.Conflict("appointment already rated"), http.StatusConflict, ""},
		{"internal", errors.New("db down"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)

			require.Equal(t, tc.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", body.Message)
			}
		})
	}
}

func TestWriteError_ValidationBodyCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/despesas", nil),
		apperr.Validation(map[string]string{"valor": "Valor muito alto", "data": "Data inválida (use YYYY-MM-DD)"}))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ValidationError", body.Message)
	assert.Equal(t, "Valor muito alto", body.Errors["valor"])
	assert.Len(t, body.Errors, 2)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var ok payload
	require.NoError(t, DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rex"}`)), &ok))
	assert.Equal(t, "Rex", ok.Name)

	for _, raw := range []string{``, `{"nome":"x"}`, `{"name":"a"} {}`, `{`} {
		var p payload
		err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw)), &p)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, apperr.ErrValidation), raw)
	}
}

func TestQueryID(t *testing.T) {
	id, err := QueryID(httptest.NewRequest(http.MethodGet, "/?petId=12", nil), "petId")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = QueryID(httptest.NewRequest(http.MethodGet, "/", nil), "petId")
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = QueryID(httptest.NewRequest(http.MethodGet, "/?petId=abc", nil), "petId")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
