package concierge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cookie-storefront/internal/catalog"
	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/models"
)

func answer(id, reason string) GatewayFunc {
	return func(context.Context, string, []models.Candidate) (models.Recommendation, error) {
		return models.Recommendation{ProductID: id, Reason: reason}, nil
	}
}

func failing(err error) GatewayFunc {
	return func(context.Context, string, []models.Candidate) (models.Recommendation, error) {
		return models.Recommendation{}, err
	}
}

func TestRecommend_Success(t *testing.T) {
	var gotMood string
	var gotCandidates []models.Candidate
	gw := GatewayFunc(func(_ context.Context, mood string, candidates []models.Candidate) (models.Recommendation, error) {
		gotMood, gotCandidates = mood, candidates
		return models.Recommendation{ProductID: "c5", Reason: "Arquitetura de sabor noturna."}, nil
	})
	c := New(gw, catalog.Default(), time.Second, nil)

	res, err := c.Recommend(context.Background(), "  trabalhando até tarde  ")
	require.NoError(t, err)

	assert.Equal(t, "trabalhando até tarde", gotMood)
	assert.Len(t, gotCandidates, 6)
	assert.Equal(t, "c5", res.ProductID())
	assert.Equal(t, "Dark Mode", res.Product.Name)
	assert.Equal(t, "Arquitetura de sabor noturna.", res.Reason)
	assert.False(t, res.Fallback)
}

func TestRecommend_TransportFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(failing(errors.New("connection reset by peer")), catalog.Default(), time.Second, logging.FromZap(zap.New(core)))

	res, err := c.Recommend(context.Background(), "estressado")
	require.NoError(t, err)

	assert.Equal(t, "c1", res.ProductID(), "fallback is the first catalog product")
	assert.Equal(t, FallbackReason, res.Reason)
	assert.NotEmpty(t, res.Reason)
	assert.True(t, res.Fallback)
	assert.Equal(t, c.Fallback(), res)

	require.Equal(t, 1, logs.FilterMessage("Recommendation failed, using fallback").Len())
}

func TestRecommend_UnknownProductFallsBack(t *testing.T) {
	c := New(answer("c99", "Um cookie que não existe."), catalog.Default(), time.Second, nil)

	res, err := c.Recommend(context.Background(), "feliz")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "c1", res.ProductID())
}

func TestRecommend_DisabledGatewayFallsBack(t *testing.T) {
	c := New(nil, catalog.Default(), 0, nil)

	res, err := c.Recommend(context.Background(), "com fome")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackReason, res.Reason)
}

func TestRecommend_EmptyMood(t *testing.T) {
	called := false
	gw := GatewayFunc(func(context.Context, string, []models.Candidate) (models.Recommendation, error) {
		called = true
		return models.Recommendation{}, nil
	})
	c := New(gw, catalog.Default(), time.Second, nil)

	_, err := c.Recommend(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMood)
	assert.False(t, called)
}

func TestRecommend_TimeoutFallsBack(t *testing.T) {
	gw := GatewayFunc(func(ctx context.Context, _ string, _ []models.Candidate) (models.Recommendation, error) {
		<-ctx.Done()
		return models.Recommendation{}, ctx.Err()
	})
	c := New(gw, catalog.Default(), 20*time.Millisecond, nil)

	res, err := c.Recommend(context.Background(), "ansioso")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestRecommend_BusyWhilePending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gw := GatewayFunc(func(context.Context, string, []models.Candidate) (models.Recommendation, error) {
		once.Do(func() { close(started) })
		<-release
		return models.Recommendation{ProductID: "c4", Reason: "Zen."}, nil
	})
	c := New(gw, catalog.Default(), time.Second, nil)

	var wg sync.WaitGroup
	var first Result
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = c.Recommend(context.Background(), "calmo")
	}()

	<-started
	assert.True(t, c.Busy())
	_, err := c.Recommend(context.Background(), "impaciente")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, "c4", first.ProductID())
	assert.False(t, c.Busy(), "flag released after completion")

	_, err = c.Recommend(context.Background(), "de novo")
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    models.Recommendation
		wantErr bool
	}{
		{
			name:   "plain json",
			output: `{"recommendedCookieId":"c2","reason":"Leve."}`,
			want:   models.Recommendation{ProductID: "c2", Reason: "Leve."},
		},
		{
			name:   "fenced json",
			output: "```json\n{\"recommendedCookieId\": \" c3 \", \"reason\": \"Criativo.\"}\n```",
			want:   models.Recommendation{ProductID: "c3", Reason: "Criativo."},
		},
		{name: "no object", output: "c2 is great", wantErr: true},
		{name: "invalid json", output: `{"recommendedCookieId": }`, wantErr: true},
		{name: "missing id", output: `{"reason":"x"}`, wantErr: true},
		{name: "missing reason", output: `{"recommendedCookieId":"c1"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRecommendation(tt.output)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
