// Package validate junta helpers de validación de campos.
// Las reglas se evalúan todas y los errores se acumulan por campo.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"pet-care-manager/internal/platform/apperr"
)

// Errors acumula errores campo -> mensaje. El primer mensaje por campo gana.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = msg
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err devuelve nil si no hubo errores, o un apperr de validación con todos los campos.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperr.Validation(e)
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// Clean normaliza a NFC y recorta espacios. Así "Observação" compuesto y
// descompuesto comparan igual contra los enums.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Len cuenta runas, no bytes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// LenBetween verifica min <= len(s) <= max sobre el string ya limpio.
func LenBetween(s string, min, max int) bool {
	n := Len(s)
	return n >= min && n <= max
}

// IsDate acepta YYYY-MM-DD y además exige fecha de calendario válida.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsClock acepta HH:MM o HH:MM:SS.
func IsClock(s string) bool {
	if !timePattern.MatchString(s) {
		return false
	}
	layout := "15:04"
	if len(s) == len("15:04:05") {
		layout = "15:04:05"
	}
	_, err := time.Parse(layout, s)
	return err == nil
}

// OneOf reporta si v pertenece a allowed (tras normalizar v).
func OneOf[T ~string](v T, allowed []T) bool {
	c := T(Clean(string(v)))
	for _, a := range allowed {
		if a == c {
			return true
		}
	}
	return false
}

// OptionalString limpia un string opcional: nil o vacío tras trim => nil.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	c := Clean(*s)
	if c == "" {
		return nil
	}
	return &c
}
