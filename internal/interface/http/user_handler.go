package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
	"github.com/oksasatya/go-ddd-finance/pkg/response"
	"github.com/oksasatya/go-ddd-finance/pkg/validation"
)

type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	Register(ctx context.Context, candidate *entity.User) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	IssueTokens(ctx context.Context, u *entity.User) (application.TokenPair, error)
	EndSession(ctx context.Context, userID int64)
}

type BalanceCalculator interface {
	ComputeUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type UserHandler struct {
	Svc      UserService
	Balances BalanceCalculator
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewUserHandler(svc UserService, balance BalanceCalculator, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Balances: balance, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type authenticateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=150"`
	Password string `json:"password" binding:"required,pwd"`
}

// Authenticate POST /api/users/authenticate
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req authenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, u, "authenticated", map[string]any{
		"access_token":       pair.AccessToken,
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), entity.NewUser(req.Name, req.Email, req.Password))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

// Logout POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if uid, ok := authUserID(c); ok {
		h.Svc.EndSession(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Balance GET /api/users/:id/balance
func (h *UserHandler) Balance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if uid, _ := authUserID(c); uid != id {
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
		return
	}
	if _, err := h.Svc.FindByID(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	balance, err := h.Balances.ComputeUserBalance(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": id, "balance": balance.StringFixed(2)}, "balance", nil)
}
