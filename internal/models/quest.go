package models

import "time"

type Quest struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	SecretCode  string    `json:"secretCode" db:"secret_code"`
	Points      int       `json:"points" db:"points"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type QuestInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	SecretCode  string `json:"secretCode" validate:"required,max=200"`
	Points      int    `json:"points" validate:"min=1,max=1000"`
	IsActive    *bool  `json:"isActive"`
}

func (in QuestInput) Validate() error { return Validate(in) }

// DailyQuest — выдача квеста студенту на календарный день.
type DailyQuest struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	QuestID      int64      `json:"questId" db:"quest_id"`
	AssignedDate string     `json:"assignedDate" db:"assigned_date"` // YYYY-MM-DD
	IsCompleted  bool       `json:"isCompleted" db:"is_completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	ExpiresAt    time.Time  `json:"expiresAt" db:"expires_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// DailyQuestView — то, что видит студент. Секретного кода здесь нет и быть не должно.
type DailyQuestView struct {
	DailyQuest
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// LockedDailyQuest — выдача вместе с данными квеста для проверки кода.
type LockedDailyQuest struct {
	DailyQuest
	QuestName  string
	SecretCode string
	Points     int
}

type QuestSubmission struct {
	ID            int64     `json:"id" db:"id"`
	DailyQuestID  int64     `json:"dailyQuestId" db:"daily_quest_id"`
	UserID        int64     `json:"userId" db:"user_id"`
	SubmittedCode string    `json:"submittedCode" db:"submitted_code"`
	IsSuccessful  bool      `json:"isSuccessful" db:"is_successful"`
	SubmittedAt   time.Time `json:"submittedAt" db:"submitted_at"`
}

type QuestConfig struct {
	AssignmentHour int       `json:"assignmentHour" validate:"min=0,max=23"`
	DurationHours  int       `json:"durationHours" validate:"min=1,max=48"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

func DefaultQuestConfig() QuestConfig {
	return QuestConfig{AssignmentHour: 10, DurationHours: 24}
}

func (c QuestConfig) Validate() error { return Validate(c) }

func (c QuestConfig) Duration() time.Duration {
	h := c.DurationHours
	if h <= 0 {
		h = DefaultQuestConfig().DurationHours
	}
	return time.Duration(h) * time.Hour
}

type QuestStat struct {
	QuestID        int64   `json:"questId"`
	Name           string  `json:"name"`
	Points         int     `json:"points"`
	TimesAssigned  int     `json:"timesAssigned"`
	TimesCompleted int     `json:"timesCompleted"`
	CompletionRate float64 `json:"completionRate"` // проценты, 2 знака
}

type QuestStatistics struct {
	TotalQuests      int         `json:"totalQuests"`
	ActiveQuests     int         `json:"activeQuests"`
	TodayAssignments int         `json:"todayAssignments"`
	TodayCompletions int         `json:"todayCompletions"`
	QuestStats       []QuestStat `json:"questStats"`
}
