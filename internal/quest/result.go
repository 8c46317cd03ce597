package quest

type Outcome string

const (
	OutcomeCompleted        Outcome = "completed"
	OutcomeInvalidCode      Outcome = "invalid_code"
	OutcomeAlreadyCompleted Outcome = "already_completed"
	OutcomeExpired          Outcome = "expired"
)

// Result — исход отправки кода. Message можно показывать студенту: правильный код в нём не раскрывается.
type Result struct {
	Outcome       Outcome `json:"outcome"`
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	PointsAwarded int     `json:"pointsAwarded,omitempty"`
}
