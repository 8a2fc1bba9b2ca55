package auth

import "strings"

// UserType es el tipo de usuario de negocio (no confundir con Role admin/user).
type UserType string

const (
	UserTypeTutor       UserType = "Tutor"
	UserTypeVeterinario UserType = "Veterinário"
)

// ParseUserType tolera mayúsculas/minúsculas y la variante sin acento.
func ParseUserType(s string) (UserType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tutor":
		return UserTypeTutor, true
	case "veterinário", "veterinario":
		return UserTypeVeterinario, true
	default:
		return "", false
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID int64
	Email  string
	Type   UserType
	Role   string // admin | user
}

func (c Claims) IsTutor() bool { return c.Type == UserTypeTutor }
