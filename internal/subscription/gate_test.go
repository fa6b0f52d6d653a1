package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"edulearn-server/internal/models"
)

func TestActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		want bool
	}{
		{"nil subscription", nil, false},
		{"active with future expiry", &models.Subscription{Status: "active", Expiry: &tomorrow}, true},
		{"active with past expiry", &models.Subscription{Status: "active", Expiry: &yesterday}, false},
		{"active with nil expiry", &models.Subscription{Status: "active"}, false},
		{"active expiring exactly now", &models.Subscription{Status: "active", Expiry: &now}, false},
		{"inactive", &models.Subscription{Status: "inactive"}, false},
		{"expired", &models.Subscription{Status: "expired", Expiry: &yesterday}, false},
		{"cancelled with future expiry", &models.Subscription{Status: "cancelled", Expiry: &tomorrow}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Active(tt.sub, now))
		})
	}
}

func TestUserHasAccess(t *testing.T) {
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)

	assert.False(t, UserHasAccess(nil, now))

	admin := &models.User{Role: models.RoleAdmin}
	assert.True(t, UserHasAccess(admin, now), "admins bypass the gate")

	student := &models.User{Role: models.RoleStudent}
	assert.False(t, UserHasAccess(student, now))

	student.Subscription = &models.Subscription{Status: "active", Expiry: &tomorrow}
	assert.True(t, UserHasAccess(student, now))
}
