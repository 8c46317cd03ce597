package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/models"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (s *server) login(c *fiber.Ctx) error {
	var in credentials
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	res, err := s.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (s *server) setPassword(c *fiber.Ctx) error {
	var in credentials
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	res, err := s.Auth.SetPassword(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (s *server) profile(c *fiber.Ctx) error {
	return ok(c, currentUser(c))
}

func (s *server) changePassword(c *fiber.Ctx) error {
	var in passwordChange
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	if err := s.Auth.ChangePassword(c.UserContext(), currentUser(c).ID, in.CurrentPassword, in.NewPassword); err != nil {
		return err
	}
	return message(c, "Password updated")
}
