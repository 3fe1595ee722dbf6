// internal/concierge/concierge.go
package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"cookie-storefront/internal/catalog"
	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/models"
)

// FallbackReason accompanies the fallback recommendation whenever the gateway
// cannot produce a usable answer.
const FallbackReason = "Nossa IA está meditando. Mas este cookie é inegavelmente mágico."

var (
	ErrEmptyMood = errors.New("mood is required")
	ErrBusy      = errors.New("a recommendation is already in progress")
)

// Result is a recommendation validated against the catalog.
type Result struct {
	Product  models.Product `json:"product"`
	Reason   string         `json:"reason"`
	Fallback bool           `json:"fallback"`
}

// ProductID is the id to highlight in the catalog.
func (r Result) ProductID() string {
	return r.Product.ID
}

// Concierge applies the storefront's policy around a Gateway: one request at
// a time, answers checked against the catalog, and failures replaced by a
// deterministic fallback.
type Concierge struct {
	gateway Gateway
	catalog *catalog.Catalog
	timeout time.Duration
	log     *logging.Logger
	busy    atomic.Bool
}

func New(gateway Gateway, cat *catalog.Catalog, timeout time.Duration, log *logging.Logger) *Concierge {
	if gateway == nil {
		gateway = Disabled{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Concierge{gateway: gateway, catalog: cat, timeout: timeout, log: log}
}

// Recommend returns a product for mood. Gateway failures never surface as
// errors; only an empty mood or a concurrent request does.
func (c *Concierge) Recommend(ctx context.Context, mood string) (Result, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return Result{}, ErrEmptyMood
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer c.busy.Store(false)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := c.gateway.Recommend(ctx, mood, c.catalog.Candidates())
	if err == nil {
		if product, ok := c.catalog.Lookup(rec.ProductID); ok {
			c.log.Info("Recommendation ready",
				"product_id", product.ID,
				"duration_ms", time.Since(start).Milliseconds())
			return Result{Product: product, Reason: rec.Reason}, nil
		}
		err = fmt.Errorf("%w: unknown product %q", ErrMalformed, rec.ProductID)
	}

	if errors.Is(err, ErrGatewayDisabled) {
		c.log.Debug("Recommendation gateway disabled, using fallback")
		return c.Fallback(), nil
	}
	c.log.Warn("Recommendation failed, using fallback",
		"error", err.Error(),
		"duration_ms", time.Since(start).Milliseconds())
	return c.Fallback(), nil
}

// Fallback is the deterministic answer used when the gateway fails.
func (c *Concierge) Fallback() Result {
	return Result{Product: c.catalog.First(), Reason: FallbackReason, Fallback: true}
}

// Busy reports whether a request is pending.
func (c *Concierge) Busy() bool {
	return c.busy.Load()
}
