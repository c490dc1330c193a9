package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender - пол в профиле.
type Gender int8

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
	GenderOther
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderOther:
		return "other"
	default:
		return "unspecified"
	}
}

// ParseGender - обратное к String; неизвестные значения дают ok=false.
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	case "other":
		return GenderOther, true
	case "", "unspecified":
		return GenderUnspecified, true
	default:
		return GenderUnspecified, false
	}
}

// Role - роль пользователя на форуме.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile - публичный профиль пользователя. Изменяется только владельцем.
type Profile struct {
	UserID    uuid.UUID
	Username  string
	Name      string
	Bio       string
	Gender    Gender
	Role      Role
	AvatarKey string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin сообщает, есть ли у профиля права модератора.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
