package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/access"
	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/metrics"
	"github.com/Spok95/pool-tracker/internal/models"
)

const (
	headerRequestID = "X-Request-ID"
	localUser       = "user"
)

func (s *server) requestID(c *fiber.Ctx) error {
	id := c.Get(headerRequestID)
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Set(headerRequestID, id)
	c.SetUserContext(ctxutil.WithRequestID(c.UserContext(), id))
	return c.Next()
}

// accessLog пишет строку лога и метрики на каждый запрос. Ошибку цепочки отдаёт
// в обработчик ошибок сам, чтобы знать итоговый статус.
func (s *server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}
	status := c.Response().StatusCode()
	d := time.Since(start)

	route := c.Route().Path
	metrics.ObserveRequest(c.Method(), route, status, d)

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("took", d),
	}
	if id, ok := ctxutil.RequestID(c.UserContext()); ok {
		fields = append(fields, zap.String("request_id", id))
	}
	if uid, ok := ctxutil.UserID(c.UserContext()); ok {
		fields = append(fields, zap.Int64("user_id", uid))
	}
	s.Log.Debug("http request", fields...)
	return nil
}

func (s *server) authenticate(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(h, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return fmt.Errorf("missing bearer token: %w", models.ErrInvalidCredentials)
	}
	u, err := s.Auth.Authenticate(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		return err
	}
	c.Locals(localUser, u)
	c.SetUserContext(ctxutil.WithUserID(c.UserContext(), u.ID))
	return c.Next()
}

func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localUser).(*models.User)
	return u
}

func require(capability access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return models.ErrInvalidCredentials
		}
		if !access.Can(u.Role, capability) {
			return fmt.Errorf("%s lacks %s: %w", u.Role, capability, models.ErrForbidden)
		}
		return c.Next()
	}
}

// requireOrSelf — capability либо запрос к собственной записи (параметр param == id пользователя).
func requireOrSelf(capability access.Capability, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return models.ErrInvalidCredentials
		}
		if access.Can(u.Role, capability) {
			return c.Next()
		}
		if id, err := strconv.ParseInt(c.Params(param), 10, 64); err == nil && id == u.ID {
			return c.Next()
		}
		return fmt.Errorf("%s lacks %s: %w", u.Role, capability, models.ErrForbidden)
	}
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("body", "malformed JSON")
	}
	return nil
}
