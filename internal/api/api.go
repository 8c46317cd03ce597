// Package api — REST API под /api поверх fiber.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/access"
	"github.com/Spok95/pool-tracker/internal/observability"
)

type Deps struct {
	Log         *zap.Logger
	Location    *time.Location
	CORSOrigins string
	Campus      string // префикс имени файла выгрузки

	Auth     Authenticator
	Quests   QuestEngine
	Catalog  QuestCatalog
	Assigner Assigner
	Ledger   Ledger
	Teams    Teams
	Users    Users
}

type server struct {
	Deps
}

func New(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	s := &server{Deps: d}

	app := fiber.New(fiber.Config{
		AppName:               "pool-tracker",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	if d.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: d.CORSOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		}))
	}
	app.Use(s.requestID, s.accessLog)

	s.routes(app.Group("/api"))

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
	return app
}

func (s *server) routes(api fiber.Router) {
	authn := api.Group("/auth")
	authn.Post("/login", s.login)
	authn.Post("/set-password", s.setPassword)
	authn.Get("/profile", s.authenticate, s.profile)
	authn.Put("/password", s.authenticate, s.changePassword)

	q := api.Group("/quests", s.authenticate)
	q.Get("/daily", require(access.PlayQuests), s.dailyQuest)
	q.Post("/submit", require(access.PlayQuests), s.submitCode)
	q.Get("/statistics", require(access.ManageQuests), s.questStatistics)
	q.Get("/config", require(access.ManageQuests), s.questConfig)
	q.Put("/config", require(access.ManageQuests), s.updateQuestConfig)
	q.Post("/assign", require(access.ManageQuests), s.assignQuests)
	q.Get("/", require(access.ManageQuests), s.listQuests)
	q.Post("/", require(access.ManageQuests), s.createQuest)
	q.Get("/:id", require(access.ManageQuests), s.getQuest)
	q.Put("/:id", require(access.ManageQuests), s.updateQuest)
	q.Delete("/:id", require(access.ManageQuests), s.deleteQuest)

	p := api.Group("/points", s.authenticate)
	p.Post("/add", require(access.ManagePoints), s.addPoints)
	p.Get("/summary", require(access.ViewPoints), s.pointsSummary)
	p.Get("/export", require(access.ViewPoints), s.exportPoints)
	p.Get("/user/:id/history", requireOrSelf(access.ViewPoints, "id"), s.pointHistory)
	p.Get("/user/:id/total", requireOrSelf(access.ViewPoints, "id"), s.pointTotal)

	t := api.Group("/teams", s.authenticate)
	t.Get("/", require(access.ViewTeams), s.listTeams)
	t.Get("/with-points", require(access.ViewTeams), s.teamsWithPoints)
	t.Post("/", require(access.ManageTeams), s.createTeam)
	t.Get("/:id", require(access.ViewTeams), s.getTeam)
	t.Put("/:id", require(access.ManageTeams), s.updateTeam)
	t.Delete("/:id", require(access.ManageTeams), s.deleteTeam)
	t.Get("/:id/students", require(access.ViewTeams), s.teamStudents)
	t.Get("/:id/top-students", require(access.ViewTeams), s.topStudents)
	t.Post("/:id/students", require(access.ManageTeams), s.addTeamStudent)
	t.Delete("/:id/students/:userId", require(access.ManageTeams), s.removeTeamStudent)

	u := api.Group("/users", s.authenticate)
	u.Get("/", require(access.ViewUsers), s.listUsers)
	u.Post("/", require(access.ViewUsers), s.createUser)
	u.Get("/:id", require(access.ViewUsers), s.getUser)
	u.Put("/:id", require(access.ViewUsers), s.updateUser)
	u.Delete("/:id", require(access.ViewUsers), s.deleteUser)
}

func (s *server) handleError(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		s.Log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		observability.CaptureCtxErr(c.UserContext(), err)
	}
	return c.Status(status).JSON(envelope{Status: "error", Message: msg})
}
