package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

const localKey = "subscriptions"

// Repository is the persistence contract for subscription records. Like
// the catalog, it has a Postgres implementation and a local JSON one.
type Repository interface {
	GetByUser(userID string) (*models.Subscription, error)
	Upsert(sub *models.Subscription) error
}

type RemoteRepository struct {
	db *gorm.DB
}

func NewRemoteRepository(db *gorm.DB) *RemoteRepository {
	return &RemoteRepository{db: db}
}

func (r *RemoteRepository) GetByUser(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}
	return &sub, nil
}

func (r *RemoteRepository) Upsert(sub *models.Subscription) error {
	var existing models.Subscription
	err := r.db.Where("user_id = ?", sub.UserID).First(&existing).Error
	switch {
	case err == nil:
		sub.ID = existing.ID
		err = r.db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(map[string]interface{}{
			"plan_id":        sub.PlanID,
			"status":         sub.Status,
			"start_date":     sub.StartDate,
			"expiry":         sub.Expiry,
			"payment_method": sub.PaymentMethod,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = r.db.Create(sub).Error
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}
	return nil
}

type LocalRepository struct {
	store *localstore.Store
}

func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

func (l *LocalRepository) read() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := l.store.Read(localKey, &subs); err != nil {
		if errors.Is(err, localstore.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	return subs, nil
}

func (l *LocalRepository) GetByUser(userID string) (*models.Subscription, error) {
	subs, err := l.read()
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].UserID == userID {
			return &subs[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalRepository) Upsert(sub *models.Subscription) error {
	subs, err := l.read()
	if err != nil {
		return err
	}
	for i := range subs {
		if subs[i].UserID == sub.UserID {
			sub.ID = subs[i].ID
			subs[i] = *sub
			return l.store.Write(localKey, subs)
		}
	}
	subs = append(subs, *sub)
	return l.store.Write(localKey, subs)
}

// Service applies the same remote-first/local-fallback policy the content
// service uses, for subscription records.
type Service struct {
	remote Repository
	local  Repository
	log    *zap.Logger
}

func NewService(remote, local Repository, log *zap.Logger) *Service {
	return &Service{remote: remote, local: local, log: log}
}

func (s *Service) fallback(op string, err error) bool {
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return false
	}
	s.log.Warn("remote store unavailable, using local fallback",
		zap.String("op", op), zap.Error(err))
	return true
}

// GetByUser returns the user's subscription, or nil when none exists;
// a missing subscription is inactive, not an error.
func (s *Service) GetByUser(userID string) (*models.Subscription, error) {
	sub, err := s.remote.GetByUser(userID)
	if s.fallback("GetSubscription", err) {
		sub, err = s.local.GetByUser(userID)
	}
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return sub, err
}

func (s *Service) Upsert(sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	err := s.remote.Upsert(sub)
	if s.fallback("UpsertSubscription", err) {
		err = s.local.Upsert(sub)
	}
	return err
}

// Activate sets the user's subscription to active for the given plan,
// expiring after days days. Called after a verified payment.
func (s *Service) Activate(userID, planID, paymentMethod string, days int, now time.Time) (*models.Subscription, error) {
	start := now
	expiry := now.AddDate(0, 0, days)

	sub, err := s.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &models.Subscription{UserID: userID}
	}
	sub.PlanID = planID
	sub.Status = models.SubscriptionActive
	sub.StartDate = &start
	sub.Expiry = &expiry
	sub.PaymentMethod = paymentMethod

	if err := s.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel marks the subscription cancelled; access ends immediately since
// the gate requires status == active.
func (s *Service) Cancel(userID string) (*models.Subscription, error) {
	sub, err := s.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, models.ErrNotFound
	}
	sub.Status = models.SubscriptionCancelled
	if err := s.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
