package models

import (
	"strings"
	"time"
)

type Role string

const (
	Admin   Role = "ADMIN"
	APE     Role = "APE" // соадминистратор
	AER     Role = "AER" // только баллы и квесты
	Student Role = "STUDENT"
)

var Roles = []Role{Admin, APE, AER, Student}

func (r Role) Valid() bool {
	for _, x := range Roles {
		if r == x {
			return true
		}
	}
	return false
}

// ParseRole принимает роль в любом регистре.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) IsStaff() bool { return r == Admin || r == APE || r == AER }

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	IsFirstLogin bool      `json:"isFirstLogin" db:"is_first_login"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) HasPassword() bool { return u.PasswordHash != nil && *u.PasswordHash != "" }

// NewUser — входные данные для создания пользователя. Пароль необязателен:
// без него пользователь задаст пароль при первом входе.
type NewUser struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      Role   `json:"role" validate:"required"`
}

type UserUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Role      *Role   `json:"role"`
}
