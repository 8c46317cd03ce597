package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/models"
)

type memberRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

func (s *server) listTeams(c *fiber.Ctx) error {
	ts, err := s.Teams.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, ts)
}

func (s *server) teamsWithPoints(c *fiber.Ctx) error {
	ts, err := s.Teams.WithPoints(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, ts)
}

func (s *server) getTeam(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	t, err := s.Teams.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, t)
}

func (s *server) createTeam(c *fiber.Ctx) error {
	var in models.TeamInput
	if err := bind(c, &in); err != nil {
		return err
	}
	t, err := s.Teams.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, t)
}

func (s *server) updateTeam(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in models.TeamInput
	if err := bind(c, &in); err != nil {
		return err
	}
	t, err := s.Teams.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, t)
}

func (s *server) deleteTeam(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.Teams.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Team deleted")
}

func (s *server) teamStudents(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ms, err := s.Teams.Members(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, ms)
}

func (s *server) topStudents(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return models.NewValidationError("limit", "must not be negative")
	}
	ms, err := s.Teams.TopStudents(c.UserContext(), id, limit)
	if err != nil {
		return err
	}
	return ok(c, ms)
}

func (s *server) addTeamStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in memberRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	if err := s.Teams.AddMember(c.UserContext(), id, in.UserID); err != nil {
		return err
	}
	return message(c, "Student added to team")
}

func (s *server) removeTeamStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := s.Teams.RemoveMember(c.UserContext(), id, userID); err != nil {
		return err
	}
	return message(c, "Student removed from team")
}
