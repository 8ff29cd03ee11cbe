package genai

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"mediagraph/application/ports"
)

// newBreaker builds a circuit breaker tuned for slow generation APIs: trip
// after five consecutive failures, probe again after thirty seconds.
func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// BreakerGenerator wraps an ImageGenerator with a circuit breaker. Suggest
// shares the breaker with Generate since both hit the same service.
type BreakerGenerator struct {
	inner ports.ImageGenerator
	cb    *gobreaker.CircuitBreaker
}

var _ ports.ImageGenerator = (*BreakerGenerator)(nil)

func NewBreakerGenerator(inner ports.ImageGenerator, logger *zap.Logger) *BreakerGenerator {
	return &BreakerGenerator{inner: inner, cb: newBreaker("image-generator", logger)}
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (*ports.GeneratedImage, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ports.GeneratedImage), nil
}

func (b *BreakerGenerator) Suggest(ctx context.Context, prompt string) ([]string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Suggest(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// BreakerEditor wraps an ImageEditor with a circuit breaker.
type BreakerEditor struct {
	inner ports.ImageEditor
	cb    *gobreaker.CircuitBreaker
}

var _ ports.ImageEditor = (*BreakerEditor)(nil)

func NewBreakerEditor(inner ports.ImageEditor, logger *zap.Logger) *BreakerEditor {
	return &BreakerEditor{inner: inner, cb: newBreaker("image-editor", logger)}
}

func (b *BreakerEditor) Edit(ctx context.Context, imageURLs []string, instruction string) (*ports.GeneratedImage, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Edit(ctx, imageURLs, instruction)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ports.GeneratedImage), nil
}

// BreakerUpscaler wraps an Upscaler with a circuit breaker.
type BreakerUpscaler struct {
	inner ports.Upscaler
	cb    *gobreaker.CircuitBreaker
}

var _ ports.Upscaler = (*BreakerUpscaler)(nil)

func NewBreakerUpscaler(inner ports.Upscaler, logger *zap.Logger) *BreakerUpscaler {
	return &BreakerUpscaler{inner: inner, cb: newBreaker("upscaler", logger)}
}

func (b *BreakerUpscaler) Upscale(ctx context.Context, imageURL string, scale float64, model string) (*ports.UpscaleResult, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Upscale(ctx, imageURL, scale, model)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ports.UpscaleResult), nil
}
