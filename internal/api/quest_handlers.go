package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/quest"
)

type submission struct {
	QuestID int64  `json:"questId" validate:"required,gt=0"` // id выдачи (daily quest)
	Code    string `json:"code" validate:"required"`
}

// dailyQuest — выдача на сегодня или на ?date=YYYY-MM-DD. Нет выдачи — 404.
func (s *server) dailyQuest(c *fiber.Ctx) error {
	u := currentUser(c)
	var (
		dq  *models.DailyQuestView
		err error
	)
	if day := c.Query("date"); day != "" {
		dq, err = s.Quests.DailyQuestOn(c.UserContext(), u.ID, day)
	} else {
		dq, err = s.Quests.DailyQuest(c.UserContext(), u.ID)
	}
	if err != nil {
		return err
	}
	return ok(c, dq)
}

// submitCode: неверный код — 400, уже выполнено или истекло — 409; тело в обоих случаях несёт исход.
func (s *server) submitCode(c *fiber.Ctx) error {
	var in submission
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	res, err := s.Quests.Submit(c.UserContext(), in.QuestID, currentUser(c).ID, in.Code)
	if err != nil {
		return err
	}
	switch {
	case res.Success:
		return ok(c, res)
	case quest.IsTerminal(res.Outcome):
		return c.Status(fiber.StatusConflict).JSON(envelope{Status: "error", Message: res.Message, Data: res})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(envelope{Status: "error", Message: res.Message, Data: res})
	}
}

func (s *server) questStatistics(c *fiber.Ctx) error {
	st, err := s.Quests.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, st)
}

func (s *server) questConfig(c *fiber.Ctx) error {
	cfg, err := s.Quests.Config(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, cfg)
}

func (s *server) updateQuestConfig(c *fiber.Ctx) error {
	var in models.QuestConfig
	if err := bind(c, &in); err != nil {
		return err
	}
	cfg, err := s.Quests.UpdateConfig(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, cfg)
}

func (s *server) assignQuests(c *fiber.Ctx) error {
	n, err := s.Assigner.AssignNow(c.UserContext())
	if err != nil {
		return err
	}
	s.Log.Info("manual daily assignment", zap.Int64("by", currentUser(c).ID), zap.Int("created", n))
	return ok(c, fiber.Map{"assigned": n})
}

func (s *server) listQuests(c *fiber.Ctx) error {
	qs, err := s.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, qs)
}

func (s *server) getQuest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	q, err := s.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, q)
}

func (s *server) createQuest(c *fiber.Ctx) error {
	var in models.QuestInput
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := s.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, q)
}

func (s *server) updateQuest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in models.QuestInput
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := s.Catalog.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, q)
}

func (s *server) deleteQuest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.Catalog.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Quest deleted")
}
