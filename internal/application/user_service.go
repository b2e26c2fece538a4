package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-finance/internal/domain/repository"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
	"github.com/oksasatya/go-ddd-finance/pkg/mailer"
)

// JobPublisher enqueues background jobs (RabbitMQ in production).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
	Pub     JobPublisher
	AppName string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func SessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub JobPublisher, appName string) *UserService {
	return &UserService{
		Repo:    repo,
		JWT:     jwt,
		Redis:   rdb,
		Logger:  logger,
		Pub:     pub,
		AppName: appName,
	}
}

// Authenticate looks the user up by email and then checks the password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return nil, &AuthenticationError{Message: msgUserNotExists}
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, &AuthenticationError{Message: msgInvalidPassword}
	}
	return u, nil
}

// ValidateEmailUnique fails with a BusinessRuleError when email is already registered.
func (s *UserService) ValidateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ruleError(ViolationEmailTaken)
	}
	return nil
}

// Register persists candidate after checking its email is free.
// The stored password is a bcrypt hash of the one supplied.
func (s *UserService) Register(ctx context.Context, candidate *entity.User) (*entity.User, error) {
	if err := s.ValidateEmailUnique(ctx, candidate.Email); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(candidate.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ruleError(ViolationPassword)
	}
	if err != nil {
		return nil, err
	}
	candidate.Password = hash
	if err := s.Repo.Create(ctx, candidate); err != nil {
		return nil, err
	}
	s.publishWelcome(ctx, candidate)
	return candidate, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":    u.Name,
			"Email":   u.Email,
			"AppName": s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// EndSession drops the user's Redis session.
func (s *UserService) EndSession(ctx context.Context, userID int64) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, SessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("redis session delete failed")
	}
}
