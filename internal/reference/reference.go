// Package reference generates the public identifiers attached to orders
// and payments: a short prefix, the current date, and a random
// alphanumeric suffix, e.g. ORD20250817K3QZ.
package reference

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// OrderPrefix is the prefix for order numbers.
	OrderPrefix = "ORD"
	// PaymentPrefix is the prefix for payment transaction references.
	PaymentPrefix = "TX"

	suffixLen     = 4
	suffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxAttempts bounds collision retries. The suffix space makes a
	// collision streak this long effectively impossible on real data.
	maxAttempts = 5
)

// ExistsFunc reports whether a candidate reference is already taken.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

// ErrExhausted is returned when every generation attempt collided.
var ErrExhausted = fmt.Errorf("reference generation attempts exhausted after %d tries", maxAttempts)

// Generator produces unique references for a fixed prefix, consulting an
// ExistsFunc for collisions.
type Generator struct {
	prefix string
	exists ExistsFunc
	now    func() time.Time
}

// NewGenerator creates a generator for the given prefix. The exists check
// is required; now defaults to time.Now and is overridable for tests via
// WithClock.
func NewGenerator(prefix string, exists ExistsFunc) *Generator {
	return &Generator{
		prefix: prefix,
		exists: exists,
		now:    time.Now,
	}
}

// WithClock returns a copy of the generator using the given clock.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	return &Generator{prefix: g.prefix, exists: g.exists, now: now}
}

// Next returns a fresh reference that did not exist at the time of the
// check. Collisions are retried up to maxAttempts times; exhaustion
// returns ErrExhausted.
func (g *Generator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ref, err := g.candidate()
		if err != nil {
			return "", err
		}

		taken, err := g.exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("failed to check reference collision: %w", err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", ErrExhausted
}

// candidate builds one reference: prefix + YYYYMMDD + random suffix.
func (g *Generator) candidate() (string, error) {
	suffix := make([]byte, suffixLen)
	max := big.NewInt(int64(len(suffixCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random suffix: %w", err)
		}
		suffix[i] = suffixCharset[n.Int64()]
	}
	return g.prefix + g.now().Format("20060102") + string(suffix), nil
}
