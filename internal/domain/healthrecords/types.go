package healthrecords

import "strings"

// Type es el tipo de registro de salud. No cambia después de creado.
type Type string

const (
	TypeVaccine     Type = "Vacina"
	TypeSurgery     Type = "Cirurgia"
	TypeExam        Type = "Exame"
	TypeObservation Type = "Observação"
)

var AllTypes = []Type{TypeVaccine, TypeSurgery, TypeExam, TypeObservation}

// Tipos de archivo aceptados como adjunto -> extensión de la key.
var allowedMIME = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

// normalizeMIME tolera parámetros ("; charset=...") y el alias image/jpg.
func normalizeMIME(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	for i, c := range ct {
		if c == ';' {
			ct = ct[:i]
			break
		}
	}
	switch ct {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	}
	return strings.TrimSpace(ct)
}
