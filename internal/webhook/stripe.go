// Package webhook verifies Stripe webhook deliveries.
package webhook

import (
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const SignatureHeader = "Stripe-Signature"

var (
	ErrNotConfigured = errors.New("stripe webhook secret is not configured")
	ErrBadSignature  = errors.New("invalid stripe signature")
)

type Verifier struct {
	Secret    string
	Tolerance time.Duration
}

// Verify checks the signature over the raw payload before decoding it.
// Events signed for another API version are accepted since the body is
// only logged.
func (v *Verifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	if v == nil || v.Secret == "" {
		return stripe.Event{}, ErrNotConfigured
	}
	if sigHeader == "" {
		return stripe.Event{}, fmt.Errorf("%w: missing %s header", ErrBadSignature, SignatureHeader)
	}
	tolerance := v.Tolerance
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.Secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return event, nil
}
