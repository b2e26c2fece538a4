package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	"github.com/oksasatya/go-ddd-finance/pkg/validation"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUsers) Register(ctx context.Context, candidate *entity.User) (*entity.User, error) {
	args := m.Called(ctx, candidate)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUsers) IssueTokens(ctx context.Context, u *entity.User) (application.TokenPair, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(application.TokenPair), args.Error(1)
}

func (m *mockUsers) EndSession(ctx context.Context, userID int64) { m.Called(ctx, userID) }

type mockEntries struct{ mock.Mock }

func (m *mockEntries) Create(ctx context.Context, e *entity.Entry) (*entity.Entry, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(*entity.Entry)
	return out, args.Error(1)
}

func (m *mockEntries) Update(ctx context.Context, e *entity.Entry) (*entity.Entry, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(*entity.Entry)
	return out, args.Error(1)
}

func (m *mockEntries) Delete(ctx context.Context, e *entity.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntries) FindMatching(ctx context.Context, template *entity.Entry) ([]entity.Entry, error) {
	args := m.Called(ctx, template)
	out, _ := args.Get(0).([]entity.Entry)
	return out, args.Error(1)
}

func (m *mockEntries) UpdateStatus(ctx context.Context, e *entity.Entry, status entity.EntryStatus) (*entity.Entry, error) {
	args := m.Called(ctx, e, status)
	out, _ := args.Get(0).(*entity.Entry)
	return out, args.Error(1)
}

func (m *mockEntries) FindByID(ctx context.Context, id int64) (*entity.Entry, bool, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*entity.Entry)
	return out, args.Bool(1), args.Error(2)
}

func (m *mockEntries) Search(ctx context.Context, userID int64, q string, size int) ([]application.EntrySearchHit, error) {
	args := m.Called(ctx, userID, q, size)
	out, _ := args.Get(0).([]application.EntrySearchHit)
	return out, args.Error(1)
}

func (m *mockEntries) ComputeUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type stubExporter struct {
	url string
	err error
}

func (s stubExporter) Export(context.Context, int64, int) (string, error) { return s.url, s.err }

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type HandlersSuite struct {
	suite.Suite
	users   *mockUsers
	entries *mockEntries
	engine  *gin.Engine
}

const callerID int64 = 7

func (s *HandlersSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func (s *HandlersSuite) SetupTest() {
	s.users = new(mockUsers)
	s.entries = new(mockEntries)

	uh := NewUserHandler(s.users, s.entries, nil, "localhost", false)
	eh := NewEntryHandler(s.entries, stubExporter{err: application.ErrExportUnavailable}, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users/authenticate", uh.Authenticate)
	api.POST("/users", uh.Register)

	authed := api.Group("/", func(c *gin.Context) { c.Set("userID", callerID) })
	authed.GET("/users/:id/balance", uh.Balance)
	authed.POST("/entries", eh.Create)
	authed.GET("/entries", eh.List)
	authed.GET("/entries/:id", eh.Get)
	authed.PUT("/entries/:id/status", eh.UpdateStatus)
	authed.DELETE("/entries/:id", eh.Delete)
	authed.POST("/entries/statements", eh.ExportStatement)
	s.engine = r
}

func (s *HandlersSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.entries.AssertExpectations(s.T())
}

func (s *HandlersSuite) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func ownedEntry(id, owner int64) *entity.Entry {
	e := entity.NewEntry("Aluguel", 3, 2024, owner, decimal.NewFromInt(900), entity.EntryTypeExpense)
	e.ID = id
	e.Status = entity.EntryStatusPending
	return e
}

func (s *HandlersSuite) TestAuthenticate_UnknownEmailReturnsMessage() {
	s.users.On("Authenticate", mock.Anything, "x@y.z", "pw").
		Return(nil, &application.AuthenticationError{Message: "Usuário não Existe!"})

	w, env := s.do(http.MethodPost, "/api/users/authenticate", map[string]string{"email": "x@y.z", "password": "pw"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Usuário não Existe!", env.Message)
}

func (s *HandlersSuite) TestAuthenticate_SetsCookies() {
	u := &entity.User{ID: callerID, Name: "Ana", Email: "ana@example.com"}
	s.users.On("Authenticate", mock.Anything, "ana@example.com", "pw").Return(u, nil)
	s.users.On("IssueTokens", mock.Anything, u).Return(application.TokenPair{
		AccessToken: "acc", AccessTokenExpiry: time.Now().Add(time.Hour),
		RefreshToken: "ref", RefreshTokenExpiry: time.Now().Add(24 * time.Hour),
	}, nil)

	w, env := s.do(http.MethodPost, "/api/users/authenticate", map[string]string{"email": "ana@example.com", "password": "pw"})

	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)
	s.Len(w.Result().Cookies(), 2)
	s.NotContains(string(env.Data), "password")
}

func (s *HandlersSuite) TestRegister() {
	created := &entity.User{ID: 1, Name: "Ana", Email: "ana@example.com"}
	s.users.On("Register", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "ana@example.com" && u.Password == "secret"
	})).Return(created, nil).Once()

	w, _ := s.do(http.MethodPost, "/api/users", map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret"})
	s.Equal(http.StatusCreated, w.Code)

	s.users.On("Register", mock.Anything, mock.Anything).
		Return(nil, &application.BusinessRuleError{Violation: application.ViolationEmailTaken, Message: "Já existe um usuário cadastrado com este email"}).Once()

	w, env := s.do(http.MethodPost, "/api/users", map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Já existe um usuário cadastrado com este email", env.Message)
}

func (s *HandlersSuite) TestRegister_InvalidPayloadSkipsService() {
	w, _ := s.do(http.MethodPost, "/api/users", map[string]string{"name": "Ana", "email": "not-an-email", "password": "x"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestRegister_PasswordOverBcryptLimitIs400() {
	w, _ := s.do(http.MethodPost, "/api/users", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": strings.Repeat("é", 72),
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.users.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *HandlersSuite) TestRegister_PasswordRuleFromServiceIs400() {
	s.users.On("Register", mock.Anything, mock.Anything).
		Return(nil, &application.BusinessRuleError{Violation: application.ViolationPassword, Message: "Informe uma Senha válida."})

	w, env := s.do(http.MethodPost, "/api/users", map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Informe uma Senha válida.", env.Message)
}

func (s *HandlersSuite) TestBalance() {
	w, _ := s.do(http.MethodGet, "/api/users/8/balance", nil)
	s.Equal(http.StatusForbidden, w.Code)

	s.users.On("FindByID", mock.Anything, callerID).Return(&entity.User{ID: callerID}, nil)
	s.entries.On("ComputeUserBalance", mock.Anything, callerID).Return(decimal.RequireFromString("150.5"), nil)

	w, env := s.do(http.MethodGet, "/api/users/7/balance", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"user_id":7,"balance":"150.50"}`, string(env.Data))
}

func (s *HandlersSuite) TestCreateEntry_ValidationMessage() {
	s.entries.On("Create", mock.Anything, mock.Anything).
		Return(nil, &application.BusinessRuleError{Violation: application.ViolationMonth, Message: "Informe um Mês válido."})

	w, env := s.do(http.MethodPost, "/api/entries", map[string]any{
		"description": "Aluguel", "month": 13, "year": 2024, "amount": "10", "type": "EXPENSE",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Informe um Mês válido.", env.Message)
}

func (s *HandlersSuite) TestCreateEntry_UsesCaller() {
	s.entries.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.Entry) bool {
		return e.UserID() == callerID && e.Amount.Equal(decimal.RequireFromString("10.25")) &&
			e.RegisteredAt.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	})).Return(ownedEntry(1, callerID), nil)

	w, _ := s.do(http.MethodPost, "/api/entries", map[string]any{
		"description": "Aluguel", "month": 3, "year": 2024, "amount": "10.25", "type": "EXPENSE",
		"registration_date": "2024-03-05",
	})

	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlersSuite) TestUpdateStatus_InvalidStatus() {
	w, env := s.do(http.MethodPut, "/api/entries/1/status", map[string]string{"status": "PAID"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgInvalidStatusUpdate, env.Message)
}

func (s *HandlersSuite) TestUpdateStatus() {
	current := ownedEntry(1, callerID)
	settled := ownedEntry(1, callerID)
	settled.Status = entity.EntryStatusSettled
	s.entries.On("FindByID", mock.Anything, int64(1)).Return(current, true, nil)
	s.entries.On("UpdateStatus", mock.Anything, current, entity.EntryStatusSettled).Return(settled, nil).Once()

	w, env := s.do(http.MethodPut, "/api/entries/1/status", map[string]string{"status": "SETTLED"})

	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"SETTLED"`)
}

func (s *HandlersSuite) TestEntryOfOtherUserIsNotFound() {
	s.entries.On("FindByID", mock.Anything, int64(2)).Return(ownedEntry(2, 99), true, nil)

	w, env := s.do(http.MethodGet, "/api/entries/2", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Lançamento não encontrado na base de dados.", env.Message)
}

func (s *HandlersSuite) TestDeleteMissingEntry() {
	s.entries.On("FindByID", mock.Anything, int64(3)).Return(nil, false, nil)

	w, _ := s.do(http.MethodDelete, "/api/entries/3", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.entries.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *HandlersSuite) TestDeleteEntry() {
	current := ownedEntry(4, callerID)
	s.entries.On("FindByID", mock.Anything, int64(4)).Return(current, true, nil)
	s.entries.On("Delete", mock.Anything, current).Return(nil)

	w, _ := s.do(http.MethodDelete, "/api/entries/4", nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlersSuite) TestListScopesToCaller() {
	s.entries.On("FindMatching", mock.Anything, mock.MatchedBy(func(e *entity.Entry) bool {
		return e.UserID() == callerID && e.Year == 2024 && e.Type == entity.EntryTypeIncome && e.Description == ""
	})).Return([]entity.Entry{*ownedEntry(1, callerID)}, nil)

	w, _ := s.do(http.MethodGet, "/api/entries?year=2024&type=INCOME", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersSuite) TestListRejectsUnknownType() {
	w, _ := s.do(http.MethodGet, "/api/entries?type=GIFT", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestExportWithoutBucket() {
	w, _ := s.do(http.MethodPost, "/api/entries/statements?year=2024", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)

	w, env := s.do(http.MethodPost, "/api/entries/statements?year=24", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Informe um Ano válido.", env.Message)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func TestWriteServiceError_UnknownIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeServiceError(c, nil, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
