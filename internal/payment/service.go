package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
	"edulearn-server/internal/subscription"
)

var ErrUnknownPlan = errors.New("invalid plan")

type Service struct {
	gateways *Registry
	remote   PaymentRepository
	local    PaymentRepository
	subs     *subscription.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewService(gateways *Registry, remote, local PaymentRepository, subs *subscription.Service, log *zap.Logger) *Service {
	return &Service{
		gateways: gateways,
		remote:   remote,
		local:    local,
		subs:     subs,
		log:      log,
		now:      time.Now,
	}
}

// Initiate starts a payment for a plan with the chosen gateway and records
// a pending payment row. A failed record write does not abort the flow;
// the gateway intent is what the client needs to continue.
func (s *Service) Initiate(userID, planID, method string) (*Intent, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	gateway, err := s.gateways.Get(method)
	if err != nil {
		return nil, err
	}

	intent, err := gateway.Initiate(plan.Price, "USD", planID)
	if err != nil {
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}

	record := &models.Payment{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlanID:    planID,
		Amount:    plan.Price,
		Currency:  "USD",
		Method:    method,
		Status:    models.PaymentPending,
		GatewayID: intent.PaymentID,
	}
	if err := s.remote.Create(record); err != nil {
		s.log.Warn("remote store unavailable, using local fallback",
			zap.String("op", "CreatePayment"), zap.Error(err))
		if err := s.local.Create(record); err != nil {
			s.log.Warn("payment record not persisted", zap.Error(err))
		}
	}

	return intent, nil
}

// Verify confirms the payment with its gateway, marks the record
// succeeded, and activates the user's subscription for the plan.
func (s *Service) Verify(userID, planID, method, paymentID string) (*models.Subscription, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	gateway, err := s.gateways.Get(method)
	if err != nil {
		return nil, err
	}

	confirmation, err := gateway.Confirm(paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}
	if confirmation.Status != "succeeded" {
		return nil, fmt.Errorf("payment %s not settled: %s", paymentID, confirmation.Status)
	}

	if err := s.remote.UpdateStatus(paymentID, models.PaymentSucceeded); err != nil {
		s.log.Warn("remote store unavailable, using local fallback",
			zap.String("op", "UpdatePayment"), zap.Error(err))
		if err := s.local.UpdateStatus(paymentID, models.PaymentSucceeded); err != nil {
			s.log.Warn("payment status not persisted", zap.Error(err))
		}
	}

	sub, err := s.subs.Activate(userID, planID, method, plan.Days, s.now())
	if err != nil {
		return nil, fmt.Errorf("subscription activation failed: %w", err)
	}

	s.log.Info("subscription activated",
		zap.String("user_id", userID),
		zap.String("plan_id", planID),
		zap.Timep("expiry", sub.Expiry),
	)
	return sub, nil
}

// CancelSubscription ends the user's subscription.
func (s *Service) CancelSubscription(userID string) (*models.Subscription, error) {
	return s.subs.Cancel(userID)
}
