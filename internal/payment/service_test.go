package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
	"edulearn-server/internal/subscription"
)

type memPayments struct {
	created []*models.Payment
	status  map[string]string
	err     error
}

func newMemPayments() *memPayments {
	return &memPayments{status: make(map[string]string)}
}

func (m *memPayments) Create(p *models.Payment) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, p)
	return nil
}

func (m *memPayments) UpdateStatus(gatewayID, status string) error {
	if m.err != nil {
		return m.err
	}
	m.status[gatewayID] = status
	return nil
}

type memSubs struct {
	subs map[string]*models.Subscription
}

func (m *memSubs) GetByUser(userID string) (*models.Subscription, error) {
	sub, ok := m.subs[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return sub, nil
}

func (m *memSubs) Upsert(sub *models.Subscription) error {
	m.subs[sub.UserID] = sub
	return nil
}

func newTestService(remote, local PaymentRepository) (*Service, *memSubs) {
	subsRepo := &memSubs{subs: make(map[string]*models.Subscription)}
	subs := subscription.NewService(subsRepo, subsRepo, zap.NewNop())
	svc := NewService(DefaultRegistry(), remote, local, subs, zap.NewNop())
	return svc, subsRepo
}

func TestInitiateRecordsPendingPayment(t *testing.T) {
	repo := newMemPayments()
	svc, _ := newTestService(repo, newMemPayments())

	intent, err := svc.Initiate("user-1", "basic_monthly", "stripe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(intent.PaymentID, "pi_"))
	assert.Equal(t, 19.99, intent.Amount)
	assert.Equal(t, "stripe", intent.Gateway)

	require.Len(t, repo.created, 1)
	rec := repo.created[0]
	assert.Equal(t, models.PaymentPending, rec.Status)
	assert.Equal(t, intent.PaymentID, rec.GatewayID)
	assert.Equal(t, "basic_monthly", rec.PlanID)
}

func TestInitiateUnknownPlan(t *testing.T) {
	svc, _ := newTestService(newMemPayments(), newMemPayments())

	_, err := svc.Initiate("user-1", "gold_forever", "stripe")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestInitiateUnknownMethod(t *testing.T) {
	svc, _ := newTestService(newMemPayments(), newMemPayments())

	_, err := svc.Initiate("user-1", "basic_monthly", "wire_transfer")
	assert.ErrorIs(t, err, ErrUnknownGateway)
}

func TestInitiateSurvivesRecordFailure(t *testing.T) {
	remote := newMemPayments()
	remote.err = models.ErrRemoteUnavailable
	local := newMemPayments()
	svc, _ := newTestService(remote, local)

	intent, err := svc.Initiate("user-1", "basic_monthly", "paypal")
	require.NoError(t, err)
	assert.NotEmpty(t, intent.PaymentID)
	assert.Len(t, local.created, 1)
}

func TestVerifyActivatesSubscription(t *testing.T) {
	repo := newMemPayments()
	svc, subsRepo := newTestService(repo, newMemPayments())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sub, err := svc.Verify("user-1", "premium_quarterly", "razorpay", "rzp_abc")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, "premium_quarterly", sub.PlanID)
	require.NotNil(t, sub.Expiry)
	assert.Equal(t, now.AddDate(0, 0, 90), *sub.Expiry)

	assert.Equal(t, models.PaymentSucceeded, repo.status["rzp_abc"])
	assert.Contains(t, subsRepo.subs, "user-1")
}

func TestVerifyRenewalExtendsFromNow(t *testing.T) {
	svc, subsRepo := newTestService(newMemPayments(), newMemPayments())
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	subsRepo.subs["user-1"] = &models.Subscription{
		ID:     "sub-1",
		UserID: "user-1",
		Status: models.SubscriptionExpired,
		Expiry: &old,
	}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sub, err := svc.Verify("user-1", "basic_monthly", "stripe", "pi_xyz")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, now.AddDate(0, 0, 30), *sub.Expiry)
}

func TestCancelWithoutSubscription(t *testing.T) {
	svc, _ := newTestService(newMemPayments(), newMemPayments())

	_, err := svc.CancelSubscription("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCancelEndsAccess(t *testing.T) {
	svc, subsRepo := newTestService(newMemPayments(), newMemPayments())
	expiry := time.Now().Add(24 * time.Hour)
	subsRepo.subs["user-1"] = &models.Subscription{
		ID:     "sub-1",
		UserID: "user-1",
		Status: models.SubscriptionActive,
		Expiry: &expiry,
	}

	sub, err := svc.CancelSubscription("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, sub.Status)
	assert.False(t, subscription.Active(sub, time.Now()))
}
