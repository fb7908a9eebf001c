package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"txguard/internal/verification/metrics"
	"txguard/internal/verification/models"
	"txguard/internal/verification/ports"
	dErrors "txguard/pkg/domain-errors"
	audit "txguard/pkg/platform/audit"
	"txguard/pkg/requestcontext"
)

const tracerName = "txguard/verification"

// Pipeline runs one verification: build, select, analyze, compose. It holds
// no per-verification state and is safe for concurrent use.
type Pipeline struct {
	engine  ports.DetectionEngine
	catalog CatalogSource
	auditor ports.AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(p *Pipeline) {
		p.auditor = publisher
	}
}

// WithCatalog replaces the compiled-in recommendation wording.
func WithCatalog(source CatalogSource) Option {
	return func(p *Pipeline) {
		if source != nil {
			p.catalog = source
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

func NewPipeline(engine ports.DetectionEngine, opts ...Option) (*Pipeline, error) {
	if engine == nil {
		return nil, errors.New("detection engine is required")
	}
	p := &Pipeline{
		engine:  engine,
		catalog: StaticCatalog(DefaultCatalog()),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run verifies rec as the given action.
//
// Malformed input fails with a CodeBadRequest domain error before the engine
// is called. Engine errors are returned unchanged. A verdict without a usable
// overall_risk is composed as the unknown tier and marked Degraded.
func (p *Pipeline) Run(ctx context.Context, action Action, rec models.Record) (*models.Result, error) {
	ctx, span := p.tracer.Start(ctx, "verification."+string(action.Type),
		trace.WithAttributes(
			attribute.String("verification.domain", string(action.Domain)),
			attribute.String("verification.action", string(action.Type)),
		))
	defer span.End()

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	descriptor, detectors, multisig, err := prepare(action, rec)
	if err != nil {
		p.fail(ctx, span, action, "", metrics.KindMalformedInput, err)
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("verification.detectors", detectorStrings(detectors)))

	verdict, err := p.analyze(ctx, action, descriptor, detectors)
	if err != nil {
		kind := metrics.KindEngine
		if errors.Is(err, context.Canceled) {
			kind = metrics.KindCanceled
		}
		p.fail(ctx, span, action, descriptor.ActorUserID, kind, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		p.fail(ctx, span, action, descriptor.ActorUserID, metrics.KindCanceled, err)
		return nil, err
	}

	tier, degraded := verdict.RiskTier()
	recommendations := p.catalog.Current().Compose(action.Domain, tier, multisig)

	augmented := verdict.Clone()
	augmented[action.Domain.RecommendationsKey()] = recommendations

	result := &models.Result{
		Domain:          action.Domain,
		Action:          action.Type,
		Detectors:       detectors,
		Verdict:         augmented,
		RiskTier:        tier,
		Recommendations: recommendations,
		Degraded:        degraded,
	}

	span.SetAttributes(
		attribute.String("verification.risk_tier", string(tier)),
		attribute.Bool("verification.degraded", degraded),
	)
	p.metrics.IncVerification(string(action.Domain), string(action.Type), string(tier))
	if degraded {
		p.metrics.IncDegraded(string(action.Domain))
		p.logger.WarnContext(ctx, "verdict without usable overall_risk",
			"request_id", requestID,
			"domain", action.Domain,
			"action", action.Type,
		)
	}
	p.emit(ctx, completionEvent(action, descriptor.ActorUserID, result))

	p.logger.InfoContext(ctx, "verification completed",
		"request_id", requestID,
		"domain", action.Domain,
		"action", action.Type,
		"risk_tier", tier,
		"detectors", len(detectors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// prepare does all input handling up front so malformed records never
// reach the engine.
func prepare(action Action, rec models.Record) (models.Descriptor, []models.DetectorID, bool, error) {
	if rec == nil {
		rec = models.Record{}
	}
	descriptor, err := BuildDescriptor(action.Type, action.Fields, rec)
	if err != nil {
		return models.Descriptor{}, nil, false, err
	}
	detectors, err := action.Detectors.Select(rec)
	if err != nil {
		return models.Descriptor{}, nil, false, err
	}
	multisig, err := rec.Flag(action.AddendumFlag)
	if err != nil {
		return models.Descriptor{}, nil, false, err
	}
	return descriptor, detectors, multisig, nil
}

func (p *Pipeline) analyze(ctx context.Context, action Action, descriptor models.Descriptor, detectors []models.DetectorID) (models.Verdict, error) {
	ctx, span := p.tracer.Start(ctx, "detection_engine.analyze",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.StringSlice("verification.detectors", detectorStrings(detectors))),
	)
	defer span.End()

	start := time.Now()
	verdict, err := p.engine.Analyze(ctx, descriptor, detectors)
	p.metrics.ObserveEngineLatency(string(action.Type), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "engine call failed")
		return nil, err
	}
	return verdict, nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, action Action, actor, kind string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	p.metrics.IncError(string(action.Domain), string(action.Type), kind)

	level := slog.LevelError
	if kind == metrics.KindMalformedInput || kind == metrics.KindCanceled {
		level = slog.LevelWarn
	}
	p.logger.Log(ctx, level, "verification failed",
		"request_id", requestcontext.RequestID(ctx),
		"domain", action.Domain,
		"action", action.Type,
		"kind", kind,
		"error", err,
	)

	p.emit(ctx, audit.Event{
		Action:      string(audit.EventVerificationFailed),
		Domain:      string(action.Domain),
		ActionType:  string(action.Type),
		Reason:      failureReason(kind, err),
		SubjectHash: audit.HashSubject(actor),
	})
}

// emit fills request metadata and publishes. Audit trouble is logged and
// never changes the verification outcome.
func (p *Pipeline) emit(ctx context.Context, event audit.Event) {
	if p.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.ClientAgent = requestcontext.ClientAgent(ctx)
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if err := p.auditor.Emit(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "audit emit failed",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}

func completionEvent(action Action, actor string, result *models.Result) audit.Event {
	name := audit.EventVerificationCompleted
	if result.RiskTier == models.RiskCritical || result.RiskTier == models.RiskHigh {
		name = audit.EventVerificationFlagged
	}
	return audit.Event{
		Category:    name.Category(),
		Action:      string(name),
		Domain:      string(action.Domain),
		ActionType:  string(action.Type),
		RiskTier:    string(result.RiskTier),
		Detectors:   detectorStrings(result.Detectors),
		Degraded:    result.Degraded,
		SubjectHash: audit.HashSubject(actor),
	}
}

func failureReason(kind string, err error) string {
	if de, ok := dErrors.From(err); ok {
		return string(de.Code)
	}
	return kind
}

func detectorStrings(ids []models.DetectorID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
