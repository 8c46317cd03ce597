package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/auth"
	"github.com/Spok95/pool-tracker/internal/ledger"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/quest"
)

var (
	student = &models.User{ID: 7, Email: "ana@epitech.eu", FirstName: "Ana", LastName: "Lopez", Role: models.Student}
	aer     = &models.User{ID: 2, Email: "aer@epitech.eu", FirstName: "Sam", LastName: "Staff", Role: models.AER}
	admin   = &models.User{ID: 1, Email: "admin@epitech.eu", FirstName: "Admin", LastName: "Pool", Role: models.Admin}
)

// токен == email пользователя
type fakeAuth struct{ Authenticator }

func (fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	for _, u := range []*models.User{student, aer, admin} {
		if u.Email == token {
			return u, nil
		}
	}
	return nil, models.ErrInvalidCredentials
}

func (fakeAuth) Login(_ context.Context, email, password string) (*auth.LoginResult, error) {
	if email == student.Email && password == "secret1" {
		return &auth.LoginResult{Token: student.Email, User: student}, nil
	}
	return nil, models.ErrInvalidCredentials
}

type fakeQuests struct {
	QuestEngine
	outcome quest.Outcome
	config  models.QuestConfig
}

func (f *fakeQuests) DailyQuest(_ context.Context, id int64) (*models.DailyQuestView, error) {
	return &models.DailyQuestView{
		DailyQuest: models.DailyQuest{ID: 11, UserID: id, QuestID: 3, AssignedDate: "2025-07-14"},
		Name:       "Find the Flag",
		Points:     50,
	}, nil
}

func (f *fakeQuests) Submit(_ context.Context, aid, sid int64, code string) (quest.Result, error) {
	if aid != 11 {
		return quest.Result{}, models.ErrNotFound
	}
	switch f.outcome {
	case quest.OutcomeCompleted:
		return quest.Result{Outcome: f.outcome, Success: true, Message: "Quest completed! You earned 50 points!", PointsAwarded: 50}, nil
	case quest.OutcomeAlreadyCompleted:
		return quest.Result{Outcome: f.outcome, Message: "Quest already completed"}, nil
	}
	return quest.Result{Outcome: quest.OutcomeInvalidCode, Message: "Invalid code. Try again!"}, nil
}

func (f *fakeQuests) Statistics(context.Context) (*models.QuestStatistics, error) {
	return &models.QuestStatistics{TotalQuests: 4, ActiveQuests: 3}, nil
}

func (f *fakeQuests) UpdateConfig(_ context.Context, c models.QuestConfig) (models.QuestConfig, error) {
	if err := c.Validate(); err != nil {
		return models.QuestConfig{}, err
	}
	f.config = c
	return c, nil
}

type fakeCatalog struct{ QuestCatalog }

func (fakeCatalog) Get(context.Context, int64) (*models.Quest, error) {
	return nil, errors.New("connection reset by peer")
}

type fakeLedger struct{ Ledger }

func (fakeLedger) History(_ context.Context, id int64) ([]models.PointEntry, error) {
	return []models.PointEntry{{UserID: id, Value: 50, ActorKind: models.ActorSystem, ActorName: models.SystemActorName}}, nil
}

func (fakeLedger) Snapshot(context.Context) (*ledger.Snapshot, error) {
	return &ledger.Snapshot{Leaderboard: []models.StudentTotal{{UserID: 7, FirstName: "Ana", LastName: "Lopez", Total: 50}}}, nil
}

type fakeAssigner struct{ calls int }

func (f *fakeAssigner) AssignNow(context.Context) (int, error) {
	f.calls++
	return 3, nil
}

type testEnv struct {
	app      *fiber.App
	quests   *fakeQuests
	assigner *fakeAssigner
}

func newTestEnv() *testEnv {
	env := &testEnv{quests: &fakeQuests{outcome: quest.OutcomeCompleted}, assigner: &fakeAssigner{}}
	env.app = New(Deps{
		Auth:     fakeAuth{},
		Quests:   env.quests,
		Catalog:  fakeCatalog{},
		Assigner: env.assigner,
		Ledger:   fakeLedger{},
	})
	return env
}

type reply struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, as *models.User, body string) (*http.Response, reply) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if as != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+as.Email)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var r reply
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, r
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv()
	resp, r := env.do(t, http.MethodGet, "/api/quests/daily", nil, "")
	if resp.StatusCode != http.StatusUnauthorized || r.Status != "error" {
		t.Fatalf("без токена: %d %+v", resp.StatusCode, r)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/quests/daily", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer nobody@epitech.eu")
	resp, _ = env.app.Test(req, -1)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("неизвестный токен: %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	resp, r := env.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"ana@epitech.eu","password":"secret1"}`)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(r.Data), `"token"`) {
		t.Fatalf("вход: %d %s", resp.StatusCode, r.Data)
	}
	if strings.Contains(string(r.Data), "password") {
		t.Fatalf("хэш пароля утёк в ответ: %s", r.Data)
	}
	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"ana@epitech.eu","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("неверный пароль: %d", resp.StatusCode)
	}
	resp, r = env.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"not-an-email","password":"x"}`)
	if resp.StatusCode != http.StatusBadRequest || !strings.HasPrefix(r.Message, "email") {
		t.Fatalf("кривой email: %d %+v", resp.StatusCode, r)
	}
	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("битый JSON: %d", resp.StatusCode)
	}
}

func TestCapabilities(t *testing.T) {
	env := newTestEnv()
	cases := []struct {
		name   string
		method string
		path   string
		as     *models.User
		want   int
	}{
		{"student plays", http.MethodGet, "/api/quests/daily", student, http.StatusOK},
		{"staff does not play", http.MethodGet, "/api/quests/daily", aer, http.StatusForbidden},
		{"student no statistics", http.MethodGet, "/api/quests/statistics", student, http.StatusForbidden},
		{"staff statistics", http.MethodGet, "/api/quests/statistics", aer, http.StatusOK},
		{"own history", http.MethodGet, "/api/points/user/7/history", student, http.StatusOK},
		{"foreign history", http.MethodGet, "/api/points/user/8/history", student, http.StatusForbidden},
		{"staff any history", http.MethodGet, "/api/points/user/8/history", aer, http.StatusOK},
		{"aer cannot manage teams", http.MethodPost, "/api/teams", aer, http.StatusForbidden},
		{"aer cannot list users", http.MethodGet, "/api/users", aer, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/nope", admin, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, r := env.do(t, tc.method, tc.path, tc.as, "")
			if resp.StatusCode != tc.want {
				t.Fatalf("ожидали %d, получили %d (%+v)", tc.want, resp.StatusCode, r)
			}
		})
	}
}

func TestDailyQuestHidesSecret(t *testing.T) {
	env := newTestEnv()
	_, r := env.do(t, http.MethodGet, "/api/quests/daily", student, "")
	var v map[string]any
	if err := json.Unmarshal(r.Data, &v); err != nil {
		t.Fatal(err)
	}
	if _, ok := v["secretCode"]; ok {
		t.Fatalf("секретный код в ответе студенту: %s", r.Data)
	}
	if v["name"] != "Find the Flag" {
		t.Fatalf("неожиданный ответ: %s", r.Data)
	}
}

func TestSubmitOutcomes(t *testing.T) {
	env := newTestEnv()
	cases := []struct {
		outcome quest.Outcome
		want    int
		status  string
	}{
		{quest.OutcomeCompleted, http.StatusOK, "success"},
		{quest.OutcomeInvalidCode, http.StatusBadRequest, "error"},
		{quest.OutcomeAlreadyCompleted, http.StatusConflict, "error"},
	}
	for _, tc := range cases {
		env.quests.outcome = tc.outcome
		resp, r := env.do(t, http.MethodPost, "/api/quests/submit", student, `{"questId":11,"code":"FLAG"}`)
		if resp.StatusCode != tc.want || r.Status != tc.status || r.Data == nil {
			t.Fatalf("%s: %d %+v", tc.outcome, resp.StatusCode, r)
		}
	}

	resp, _ := env.do(t, http.MethodPost, "/api/quests/submit", student, `{"questId":12,"code":"FLAG"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("чужая выдача: %d", resp.StatusCode)
	}
	resp, _ = env.do(t, http.MethodPost, "/api/quests/submit", student, `{"questId":11}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("без кода: %d", resp.StatusCode)
	}
}

func TestUpdateConfigValidation(t *testing.T) {
	env := newTestEnv()
	resp, r := env.do(t, http.MethodPut, "/api/quests/config", aer, `{"assignmentHour":25,"durationHours":24}`)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(r.Message, "assignmentHour") {
		t.Fatalf("час 25: %d %+v", resp.StatusCode, r)
	}
	resp, _ = env.do(t, http.MethodPut, "/api/quests/config", aer, `{"assignmentHour":8,"durationHours":12}`)
	if resp.StatusCode != http.StatusOK || env.quests.config.AssignmentHour != 8 {
		t.Fatalf("валидные настройки: %d %+v", resp.StatusCode, env.quests.config)
	}
}

func TestManualAssign(t *testing.T) {
	env := newTestEnv()
	resp, r := env.do(t, http.MethodPost, "/api/quests/assign", admin, "")
	if resp.StatusCode != http.StatusOK || env.assigner.calls != 1 || string(r.Data) != `{"assigned":3}` {
		t.Fatalf("ручная выдача: %d %s", resp.StatusCode, r.Data)
	}
}

func TestInternalErrorIsMasked(t *testing.T) {
	env := newTestEnv()
	resp, r := env.do(t, http.MethodGet, "/api/quests/5", aer, "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("ожидали 500, получили %d", resp.StatusCode)
	}
	if strings.Contains(r.Message, "connection reset") {
		t.Fatalf("внутренняя ошибка утекла клиенту: %q", r.Message)
	}
	resp, _ = env.do(t, http.MethodGet, "/api/quests/abc", aer, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("нечисловой id: %d", resp.StatusCode)
	}
}

func TestExportPoints(t *testing.T) {
	env := newTestEnv()
	resp, _ := env.do(t, http.MethodGet, "/api/points/export", aer, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("экспорт: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != xlsxContentType {
		t.Fatalf("content-type: %q", ct)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, ".xlsx") {
		t.Fatalf("content-disposition: %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) < 4 || string(body[:2]) != "PK" {
		t.Fatal("ожидали zip-контейнер xlsx")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/api/quests/daily", nil)
	req.Header.Set(headerRequestID, "req-42")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(headerRequestID); got != "req-42" {
		t.Fatalf("X-Request-ID: %q", got)
	}

	resp, _ = env.do(t, http.MethodGet, "/api/quests/daily", student, "")
	if resp.Header.Get(headerRequestID) == "" {
		t.Fatal("ожидали сгенерированный X-Request-ID")
	}
}
