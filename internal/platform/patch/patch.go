// Package patch modela campos de un PATCH/PUT parcial.
//
// El handler de pets del MVP detectaba presencia decodificando a
// map[string]json.RawMessage; Field[T] generaliza eso a cualquier campo.
package patch

import "encoding/json"

// Field distingue tres estados: ausente, null explícito y valor.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON solo se llama cuando la key existe en el JSON.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if string(b) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Set construye un Field presente con valor (útil en tests y en forms multipart).
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null construye un Field presente y nulo.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Ptr devuelve nil si el campo es null, o un puntero al valor.
// Solo tiene sentido si Present == true.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
