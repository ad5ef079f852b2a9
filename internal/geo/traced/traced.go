// Package traced decorates a geolocation provider with OpenTelemetry spans,
// keeping the otel dependency out of the core resolution pipeline.
package traced

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

// Provider wraps a geolocation provider with a span per lookup.
type Provider struct {
	next   ports.GeoLocationService
	tracer trace.Tracer
}

// Option configures the Provider.
type Option func(*Provider)

// WithTracer allows injecting a custom OpenTelemetry tracer. Useful for
// testing or when a pre-configured tracer is available.
func WithTracer(t trace.Tracer) Option {
	return func(p *Provider) {
		p.tracer = t
	}
}

// New wraps next. By default it uses the global tracer provider with
// "bidscope/geo" as the instrumentation name.
func New(next ports.GeoLocationService, opts ...Option) *Provider {
	if next == nil {
		panic("traced.New: upstream geo provider is required")
	}

	p := &Provider{next: next}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer("bidscope/geo")
	}
	return p
}

// Lookup implements ports.GeoLocationService.
func (p *Provider) Lookup(ctx context.Context, ipAddress string) (*models.GeoInfo, error) {
	ctx, span := p.tracer.Start(ctx, "geo.lookup",
		trace.WithAttributes(attribute.String("geo.ip", ipAddress)))
	defer span.End()

	geo, err := p.next.Lookup(ctx, ipAddress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("geo.country", geo.Country))
	return geo, nil
}
