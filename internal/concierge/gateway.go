// internal/concierge/gateway.go
package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cookie-storefront/internal/models"
)

var (
	ErrGatewayDisabled = errors.New("recommendation gateway is not configured")
	ErrMalformed       = errors.New("malformed recommendation")
)

// Gateway maps a free-text mood to one of the candidate products.
type Gateway interface {
	Recommend(ctx context.Context, mood string, candidates []models.Candidate) (models.Recommendation, error)
}

// Disabled is the gateway used when no API key is configured.
type Disabled struct{}

func (Disabled) Recommend(context.Context, string, []models.Candidate) (models.Recommendation, error) {
	return models.Recommendation{}, ErrGatewayDisabled
}

// GatewayFunc adapts a plain function to Gateway.
type GatewayFunc func(ctx context.Context, mood string, candidates []models.Candidate) (models.Recommendation, error)

func (f GatewayFunc) Recommend(ctx context.Context, mood string, candidates []models.Candidate) (models.Recommendation, error) {
	return f(ctx, mood, candidates)
}

// parseRecommendation pulls the outermost JSON object out of model output and
// requires both fields.
func parseRecommendation(output string) (models.Recommendation, error) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end <= start {
		return models.Recommendation{}, fmt.Errorf("%w: no JSON object in response", ErrMalformed)
	}

	var rec models.Recommendation
	if err := json.Unmarshal([]byte(output[start:end+1]), &rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rec.ProductID = strings.TrimSpace(rec.ProductID)
	rec.Reason = strings.TrimSpace(rec.Reason)
	if rec.ProductID == "" {
		return models.Recommendation{}, fmt.Errorf("%w: missing recommendedCookieId", ErrMalformed)
	}
	if rec.Reason == "" {
		return models.Recommendation{}, fmt.Errorf("%w: missing reason", ErrMalformed)
	}
	return rec, nil
}
