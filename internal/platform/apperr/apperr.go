// Package apperr define los tipos de error de negocio que cruzan capas
// (servicios -> handlers). Cada error lleva un Kind que el layer HTTP
// traduce a status code.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindAccessDenied       Kind = "access_denied"
	KindValidation         Kind = "validation"
	KindDeletionNotAllowed Kind = "deletion_not_allowed"
	KindConflict           Kind = "conflict"
	KindUnauthorized       Kind = "unauthorized"
	KindInternal           Kind = "internal"
)

// Error es el resultado de error tipado de los casos de uso.
// Fields solo viene poblado para KindValidation (campo -> mensaje).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg = msg + " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind contra los sentinels de este paquete,
// así errors.Is(err, apperr.ErrNotFound) funciona con cualquier mensaje.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Fields == nil && t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrAccessDenied       = &Error{Kind: KindAccessDenied}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrDeletionNotAllowed = &Error{Kind: KindDeletionNotAllowed}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
)

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func AccessDenied(msg string) *Error {
	return &Error{Kind: KindAccessDenied, Message: msg}
}

func DeletionNotAllowed(msg string) *Error {
	return &Error{Kind: KindDeletionNotAllowed, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Validation copia el mapa para que el caller no lo mute después.
func Validation(fields map[string]string) *Error {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Error{Kind: KindValidation, Message: "ValidationError", Fields: cp}
}

// KindOf devuelve el Kind del primer *Error en la cadena, o KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf devuelve los errores por campo si err es de validación.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation {
		return e.Fields
	}
	return nil
}
