package models

import "time"

type TeamColor string

const (
	ColorNone   TeamColor = "none"
	ColorRed    TeamColor = "red"
	ColorGreen  TeamColor = "green"
	ColorBlue   TeamColor = "blue"
	ColorYellow TeamColor = "yellow"
)

type Team struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Color       TeamColor `json:"color" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type TeamInput struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=1000"`
	Color       TeamColor `json:"color" validate:"omitempty,oneof=none red green blue yellow"`
}

type TeamWithPoints struct {
	Team
	MemberCount int `json:"memberCount"`
	TotalPoints int `json:"totalPoints"`
}

type TeamMember struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	JoinedAt  time.Time `json:"joinedAt"`
	Points    int       `json:"totalPoints"`
}
