// Package httpx junta lo que los handlers de cada módulo repetían:
// escribir JSON, decodificar el body y traducir errores de negocio a status.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-care-manager/internal/middleware"
	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/ports/auth"
)

// MaxJSONBody limita bodies JSON (los uploads van por multipart con su propio límite).
const MaxJSONBody = 1 << 20

type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError mapea el Kind del error a status + body. Los 5xx se loguean
// con el logger del request; el detalle interno nunca sale en la respuesta.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logger.FromContext(r.Context()).Error("unhandled error", logger.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		})
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
		return
	}

	status, body := StatusFor(ae)
	if status == http.StatusBadRequest {
		fields := logger.Fields{"path": r.URL.Path, "errors": ae.Fields}
		if c, ok := middleware.GetClaims(r.Context()); ok {
			fields["user_id"] = c.UserID
		}
		logger.FromContext(r.Context()).Warn("validation failed", fields)
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("internal error", logger.Fields{"err": err})
	}
	WriteJSON(w, status, body)
}

func StatusFor(e *apperr.Error) (int, ErrorResponse) {
	msg := e.Message
	switch e.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrorResponse{Message: "ValidationError", Errors: e.Fields}
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, ErrorResponse{Message: orDefault(msg, "unauthorized")}
	case apperr.KindAccessDenied:
		return http.StatusForbidden, ErrorResponse{Message: orDefault(msg, "forbidden")}
	case apperr.KindDeletionNotAllowed:
		return http.StatusForbidden, ErrorResponse{
			Message: orDefault(msg, "deletion not allowed"),
			Code:    string(apperr.KindDeletionNotAllowed),
		}
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Message: orDefault(msg, "not found")}
	case apperr.KindConflict:
		return http.StatusConflict, ErrorResponse{Message: orDefault(msg, "conflict")}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "internal error"}
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// DecodeJSON rechaza campos desconocidos y bodies vacíos o con basura al final.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation(map[string]string{"body": "body vacío"})
		}
		return apperr.Validation(map[string]string{"body": "JSON inválido: " + err.Error()})
	}
	if dec.More() {
		return apperr.Validation(map[string]string{"body": "JSON inválido: contenido extra"})
	}
	return nil
}

// Claims exige un caller autenticado.
func Claims(r *http.Request) (auth.Claims, error) {
	c, ok := middleware.GetClaims(r.Context())
	if !ok {
		return auth.Claims{}, apperr.Unauthorized("unauthorized")
	}
	return c, nil
}

// IDParam lee un id numérico positivo de la ruta.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(map[string]string{name: "ID inválido"})
	}
	return id, nil
}

// QueryID lee un id opcional de la query string (0 = ausente).
func QueryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(map[string]string{name: "ID inválido"})
	}
	return id, nil
}
