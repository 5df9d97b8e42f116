package estimation

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Estimator composes the base formula, the prompt, a single model invocation
// and factor extraction into one estimate. It holds no mutable state, so
// concurrent Estimate calls need no coordination.
type Estimator struct {
	client  ModelClient
	factors PriceFactors
	timeout time.Duration
	tracer  trace.Tracer
}

type EstimatorOption func(*Estimator)

// WithInvokeTimeout bounds the model invocation. Zero means the caller's
// context is the only limit.
func WithInvokeTimeout(d time.Duration) EstimatorOption {
	return func(e *Estimator) {
		e.timeout = d
	}
}

func NewEstimator(client ModelClient, factors PriceFactors, opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		client:  client,
		factors: factors,
		tracer:  otel.Tracer("github.com/davidromero/avaluo/internal/estimation"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Estimator) Factors() PriceFactors { return e.factors }

// Estimate never fails: any misbehavior of the generative step (transport
// error, timeout, unparseable response) degrades to the base price with
// Adjusted=false. A single model invocation is attempted, no retries.
func (e *Estimator) Estimate(ctx context.Context, attrs PropertyAttributes) EstimationResult {
	ctx, span := e.tracer.Start(ctx, "estimation.Estimate")
	defer span.End()

	base := ComputeBasePrice(attrs, e.factors)
	span.SetAttributes(attribute.Float64("estimate.base_price", base))
	res := EstimationResult{BasePrice: base, AdjustmentFactor: 1.0, FinalPrice: base}

	prompt := BuildPrompt(attrs, base)

	invokeCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := e.client.Generate(invokeCtx, prompt)
	if err != nil {
		class := classifyTransportError(err)
		log.Printf("avaluo model_invoke_failed model=%s class=%s elapsed_ms=%d err=%q",
			e.client.ModelName(), class, time.Since(start).Milliseconds(), err.Error())
		res.FallbackReason = "model invocation failed: " + err.Error()
		span.SetAttributes(attribute.Bool("estimate.adjusted", false))
		return res
	}

	factor, err := ExtractFactor(raw)
	if err != nil {
		log.Printf("avaluo factor_extraction_failed elapsed_ms=%d response_chars=%d err=%q",
			time.Since(start).Milliseconds(), len(raw), err.Error())
		res.FallbackReason = "factor extraction failed: " + err.Error()
		span.SetAttributes(attribute.Bool("estimate.adjusted", false))
		return res
	}
	if factor < FactorFloor || factor > FactorCeil {
		// Accepted as-is; the range in the prompt is advisory, not enforced.
		log.Printf("avaluo factor_out_of_range factor=%g", factor)
	}

	res.AdjustmentFactor = factor
	res.FinalPrice = base * factor
	res.Adjusted = true
	span.SetAttributes(
		attribute.Bool("estimate.adjusted", true),
		attribute.Float64("estimate.factor", factor),
		attribute.Float64("estimate.final_price", res.FinalPrice),
	)
	return res
}
