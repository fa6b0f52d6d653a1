package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrUnknownGateway = errors.New("unsupported payment method")

// Gateway abstracts a payment provider. The platform ships with mock
// gateways only, so nothing actually settles, but anything that talks to
// a live provider implements the same contract.
type Gateway interface {
	Name() string
	Initiate(amount float64, currency, reference string) (*Intent, error)
	Confirm(paymentID string) (*Confirmation, error)
}

type Intent struct {
	PaymentID    string  `json:"paymentId"`
	ClientSecret string  `json:"clientSecret,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Gateway      string  `json:"gateway"`
}

type Confirmation struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// Registry resolves a gateway by method name (stripe, paypal, razorpay).
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway)}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *Registry) Get(method string) (Gateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, method)
	}
	return g, nil
}

// MockGateway fakes a provider: every initiate yields a fresh payment id
// and every confirm succeeds. One type covers all three named providers;
// only the id prefix differs.
type MockGateway struct {
	name   string
	prefix string
}

func NewMockGateway(name, prefix string) *MockGateway {
	return &MockGateway{name: name, prefix: prefix}
}

// DefaultRegistry wires the three providers the pricing page offers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewMockGateway("stripe", "pi_"),
		NewMockGateway("paypal", "order_"),
		NewMockGateway("razorpay", "rzp_"),
	)
}

func (g *MockGateway) Name() string { return g.name }

func (g *MockGateway) Initiate(amount float64, currency, reference string) (*Intent, error) {
	return &Intent{
		PaymentID:    g.prefix + uuid.NewString(),
		ClientSecret: "secret_" + uuid.NewString(),
		Amount:       amount,
		Currency:     currency,
		Gateway:      g.name,
	}, nil
}

func (g *MockGateway) Confirm(paymentID string) (*Confirmation, error) {
	return &Confirmation{PaymentID: paymentID, Status: "succeeded"}, nil
}
