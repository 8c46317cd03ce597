package models

import "time"

type ActorKind string

const (
	ActorUser   ActorKind = "user"
	ActorSystem ActorKind = "system"
)

// Actor — кому приписано начисление. Системный актор не ссылается на строку в users.
type Actor struct {
	Kind   ActorKind
	UserID int64
}

var SystemActor = Actor{Kind: ActorSystem}

func UserActor(id int64) Actor { return Actor{Kind: ActorUser, UserID: id} }

func (a Actor) IsSystem() bool { return a.Kind == ActorSystem }

const SystemActorName = "System"

type PointEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Value     int       `json:"value" db:"value"`
	Reason    string    `json:"reason" db:"reason"`
	ActorKind ActorKind `json:"actorKind" db:"actor_kind"`
	ActorID   *int64    `json:"actorId,omitempty" db:"actor_id"`
	ActorName string    `json:"actorName" db:"actor_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PointEntryWithUser — строка общей истории (экспорт).
type PointEntryWithUser struct {
	PointEntry
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type NewPoints struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Value  int    `json:"value" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"max=500"`
}

type StudentTotal struct {
	UserID    int64   `json:"userId"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	TeamID    *int64  `json:"teamId,omitempty"`
	TeamName  *string `json:"teamName,omitempty"`
	Total     int     `json:"totalPoints"`
}
