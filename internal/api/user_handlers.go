package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/models"
)

func (s *server) listUsers(c *fiber.Ctx) error {
	us, err := s.Users.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return err
	}
	return ok(c, us)
}

func (s *server) getUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	u, err := s.Users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, u)
}

func (s *server) createUser(c *fiber.Ctx) error {
	var in models.NewUser
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := s.Users.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	return created(c, u)
}

func (s *server) updateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in models.UserUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := s.Users.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, u)
}

func (s *server) deleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.Users.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return err
	}
	return message(c, "User deleted")
}
