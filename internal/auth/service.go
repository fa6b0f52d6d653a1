package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edulearn-server/internal/models"
	"edulearn-server/internal/subscription"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists with this email")
)

type Service struct {
	remote    UserRepository
	local     UserRepository
	subs      *subscription.Service
	jwtSecret []byte
	log       *zap.Logger
}

func NewService(remote, local UserRepository, subs *subscription.Service, jwtSecret string, log *zap.Logger) *Service {
	return &Service{
		remote:    remote,
		local:     local,
		subs:      subs,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

func (s *Service) fallback(op string, err error) bool {
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return false
	}
	s.log.Warn("remote store unavailable, using local fallback",
		zap.String("op", op), zap.Error(err))
	return true
}

func (s *Service) getByEmail(email string) (*models.User, error) {
	user, err := s.remote.GetByEmail(email)
	if s.fallback("GetUserByEmail", err) {
		user, err = s.local.GetByEmail(email)
	}
	return user, err
}

// Register creates a student account with an inactive subscription.
func (s *Service) Register(name, email, password string) (*models.User, string, error) {
	if _, err := s.getByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleStudent,
	}

	err = s.remote.Create(user)
	if s.fallback("CreateUser", err) {
		err = s.local.Create(user)
	}
	if err != nil {
		return nil, "", err
	}

	sub := &models.Subscription{
		UserID: user.ID,
		Status: models.SubscriptionInactive,
	}
	if err := s.subs.Upsert(sub); err != nil {
		s.log.Warn("could not create initial subscription record",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	user.Subscription = sub

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and re-syncs the subscription onto the user
// record before issuing a token, so a payment made elsewhere shows up on
// the next login.
func (s *Service) Login(email, password string) (*models.User, string, error) {
	user, err := s.getByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	sub, err := s.subs.GetByUser(user.ID)
	if err != nil {
		s.log.Warn("subscription sync failed on login",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	user.Subscription = sub

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser loads the user plus their current subscription, for the
// /me endpoint and for the subscription gate.
func (s *Service) CurrentUser(userID string) (*models.User, error) {
	user, err := s.remote.GetByID(userID)
	if s.fallback("GetUserByID", err) {
		user, err = s.local.GetByID(userID)
	}
	if err != nil {
		return nil, err
	}

	sub, err := s.subs.GetByUser(user.ID)
	if err != nil {
		s.log.Warn("subscription lookup failed",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	user.Subscription = sub
	return user, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
