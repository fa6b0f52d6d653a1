package subscription

import (
	"time"

	"edulearn-server/internal/models"
)

// Active reports whether a subscription grants access at the given time.
// Both conditions are required: status must be "active" and the expiry
// must be strictly in the future. A nil subscription or nil expiry is
// simply inactive, never an error.
func Active(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if sub.Status != models.SubscriptionActive {
		return false
	}
	if sub.Expiry == nil {
		return false
	}
	return sub.Expiry.After(now)
}

// UserHasAccess is the gate the content routes use: admins always pass,
// students pass only with an active subscription.
func UserHasAccess(user *models.User, now time.Time) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return Active(user.Subscription, now)
}
