package payment

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

const localKey = "payments"

// PaymentRepository records payment rows. Same split as everywhere else:
// Postgres remote, JSON local.
type PaymentRepository interface {
	Create(p *models.Payment) error
	UpdateStatus(gatewayID, status string) error
}

type RemoteRepository struct {
	db *gorm.DB
}

func NewRemoteRepository(db *gorm.DB) *RemoteRepository {
	return &RemoteRepository{db: db}
}

func (r *RemoteRepository) Create(p *models.Payment) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}
	return nil
}

func (r *RemoteRepository) UpdateStatus(gatewayID, status string) error {
	res := r.db.Model(&models.Payment{}).Where("gateway_id = ?", gatewayID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

type LocalRepository struct {
	store *localstore.Store
}

func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

func (l *LocalRepository) read() ([]models.Payment, error) {
	var payments []models.Payment
	if err := l.store.Read(localKey, &payments); err != nil {
		if errors.Is(err, localstore.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	return payments, nil
}

func (l *LocalRepository) Create(p *models.Payment) error {
	payments, err := l.read()
	if err != nil {
		return err
	}
	payments = append(payments, *p)
	return l.store.Write(localKey, payments)
}

func (l *LocalRepository) UpdateStatus(gatewayID, status string) error {
	payments, err := l.read()
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].GatewayID == gatewayID {
			payments[i].Status = status
			return l.store.Write(localKey, payments)
		}
	}
	return models.ErrNotFound
}
