package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/export"
	"github.com/Spok95/pool-tracker/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *server) addPoints(c *fiber.Ctx) error {
	var in models.NewPoints
	if err := bind(c, &in); err != nil {
		return err
	}
	e, err := s.Ledger.Add(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	return created(c, e)
}

func (s *server) pointHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	h, err := s.Ledger.History(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, h)
}

func (s *server) pointTotal(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	total, err := s.Ledger.Total(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"userId": id, "totalPoints": total})
}

func (s *server) pointsSummary(c *fiber.Ctx) error {
	sum, err := s.Ledger.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, sum)
}

func (s *server) exportPoints(c *fiber.Ctx) error {
	snap, err := s.Ledger.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	wb, err := export.PointsWorkbook(snap.Leaderboard, snap.History, s.Location)
	if err != nil {
		return fmt.Errorf("build points workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	name := export.BuildPointsFilename(s.Campus, time.Now().In(s.Location))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	if _, err := wb.WriteTo(c); err != nil {
		return fmt.Errorf("write points workbook: %w", err)
	}
	return nil
}
