// Package service implements scope resolution: the layered enforcement gate,
// the ordered fallback chain deriving applicability, and the responder that
// gates per-subject permission computation on the resolved scope.
package service

import (
	"context"
	"log/slog"
	"time"

	"bidscope/internal/privacy/codec"
	"bidscope/internal/privacy/ipmask"
	"bidscope/internal/privacy/metrics"
	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

// defaultGeoTimeout bounds the single geolocation lookup when the request
// does not supply its own budget.
const defaultGeoTimeout = 200 * time.Millisecond

// Service resolves the privacy scope of incoming requests. Resolution never
// fails: malformed consent, missing geo data, and lookup timeouts all degrade
// to sentinel values, because scope resolution must never block an auction.
type Service struct {
	cfg        models.GdprConfig
	eea        map[string]struct{}
	decoder    *codec.Decoder
	engine     ports.PermissionEngine
	geo        ports.GeoLocationService
	catalog    ports.VendorIDResolver
	metrics    *metrics.Metrics
	logger     *slog.Logger
	geoTimeout time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithGeoLocation configures the optional geolocation provider. Without one,
// the geo-lookup branch of the fallback chain never matches.
func WithGeoLocation(geo ports.GeoLocationService) Option {
	return func(s *Service) {
		s.geo = geo
	}
}

// WithVendorIDResolver sets the catalog-backed default resolver used by
// ResultForBidderNames.
func WithVendorIDResolver(r ports.VendorIDResolver) Option {
	return func(s *Service) {
		s.catalog = r
	}
}

// WithGeoTimeout overrides the default per-request geolocation budget.
func WithGeoTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.geoTimeout = timeout
		}
	}
}

// WithDecoder overrides the consent decoder, mainly for tests that need a
// custom suppressor window.
func WithDecoder(d *codec.Decoder) Option {
	return func(s *Service) {
		s.decoder = d
	}
}

// New creates the scope-resolution service. Panics if the permission engine
// is missing - fail fast at startup; per-request paths never surface errors.
func New(cfg models.GdprConfig, eeaCountries []string, engine ports.PermissionEngine, opts ...Option) *Service {
	if engine == nil {
		panic("service.New: permission engine is required")
	}

	s := &Service{
		cfg:        cfg,
		eea:        models.NewCountrySet(eeaCountries),
		engine:     engine,
		geoTimeout: defaultGeoTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoder == nil {
		s.decoder = codec.New(s.metrics, s.logger)
	}
	return s
}

// ResolveRequest carries the per-request inputs of scope resolution.
type ResolveRequest struct {
	Privacy models.Privacy
	// Country is the pre-resolved country, when the caller already knows it.
	Country string
	// IPAddress is the raw client address; it is masked before any use.
	IPAddress   string
	Account     *models.AccountGdprConfig
	RequestType models.RequestType
	LogInfo     models.RequestLogInfo
	// Timeout bounds the geolocation lookup. Zero means the service default.
	Timeout time.Duration
	// Warnings receives non-fatal notices when non-nil; they are also copied
	// onto the returned context.
	Warnings *models.Warnings
}

// ResolveContext runs the full resolution pipeline and always returns a
// usable context. Used for auctions.
func (s *Service) ResolveContext(ctx context.Context, req ResolveRequest) *models.ConsentContext {
	if !s.gdprEnabled(req.Account, req.RequestType) {
		return models.EmptyContext()
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveResolveLatency(time.Since(start).Seconds())
		}
	}()

	warnings := req.Warnings
	if warnings == nil {
		warnings = &models.Warnings{}
	}

	logInfo := req.LogInfo
	if logInfo.RequestType == "" {
		logInfo.RequestType = req.RequestType
	}

	consent := s.decoder.Decode(req.Privacy.ConsentString, logInfo, warnings)
	maskedIP := ipmask.MaskIP(req.IPAddress, consent)

	decision, geo := s.resolveScope(ctx, req, consent, maskedIP)

	if decision.Source.FromGeography() && s.metrics != nil {
		s.metrics.IncrementScopeOutcome(consent.Version(), decision.InEEA)
	}

	return &models.ConsentContext{
		Scope:         decision,
		ConsentString: req.Privacy.ConsentString,
		Consent:       consent,
		IPAddress:     maskedIP,
		Geo:           geo,
		Warnings:      *warnings,
	}
}

// ResolveSyncContext resolves scope for cookie-sync and setuid traffic, which
// never carries a pre-resolved country or a debug-warnings channel.
func (s *Service) ResolveSyncContext(
	ctx context.Context,
	privacy models.Privacy,
	ipAddress string,
	account *models.AccountGdprConfig,
	requestType models.RequestType,
	logInfo models.RequestLogInfo,
) *models.ConsentContext {
	return s.ResolveContext(ctx, ResolveRequest{
		Privacy:     privacy,
		IPAddress:   ipAddress,
		Account:     account,
		RequestType: requestType,
		LogInfo:     logInfo,
	})
}

// gdprEnabled layers the enforcement switches: the account's per-request-type
// override wins, then the account-level flag, then the global flag.
func (s *Service) gdprEnabled(account *models.AccountGdprConfig, requestType models.RequestType) bool {
	if enabled, ok := account.EnabledFor(requestType); ok {
		return enabled
	}
	if enabled, ok := account.AccountEnabled(); ok {
		return enabled
	}
	return s.cfg.Enabled
}

// scopeBranch is one entry of the fallback chain. It reports whether it
// matched; branches after a match are never evaluated and have no side
// effects.
type scopeBranch func(ctx context.Context, req ResolveRequest, consent models.ConsentSignal, maskedIP string) (models.ScopeDecision, *models.GeoInfo, bool)

// resolveScope evaluates the fallback chain in strict order and returns the
// first match, falling back to the configured default.
func (s *Service) resolveScope(ctx context.Context, req ResolveRequest, consent models.ConsentSignal, maskedIP string) (models.ScopeDecision, *models.GeoInfo) {
	branches := []scopeBranch{
		s.scopeFromConsentSignal,
		s.scopeFromExplicitSignal,
		s.scopeFromCountry,
		s.scopeFromGeoLookup,
	}
	for _, branch := range branches {
		if decision, geo, ok := branch(ctx, req, consent, maskedIP); ok {
			return decision, geo
		}
	}
	return s.defaultDecision(), nil
}

// scopeFromConsentSignal forces in-scope when configuration treats a valid
// consent signal as proof of applicability, independent of geography.
func (s *Service) scopeFromConsentSignal(_ context.Context, _ ResolveRequest, consent models.ConsentSignal, _ string) (models.ScopeDecision, *models.GeoInfo, bool) {
	if !s.cfg.ConsentStringMeansInScope || !consent.Valid() {
		return models.ScopeDecision{}, nil, false
	}
	return models.ScopeDecision{Applies: true, Source: models.SourceConsentString}, nil, true
}

// scopeFromExplicitSignal uses the caller-supplied applicability flag
// verbatim.
func (s *Service) scopeFromExplicitSignal(_ context.Context, req ResolveRequest, _ models.ConsentSignal, _ string) (models.ScopeDecision, *models.GeoInfo, bool) {
	switch req.Privacy.GDPR {
	case models.SignalApplies:
		return models.ScopeDecision{Applies: true, Source: models.SourceExplicitSignal}, nil, true
	case models.SignalNotApplicable:
		return models.ScopeDecision{Applies: false, Source: models.SourceExplicitSignal}, nil, true
	default:
		return models.ScopeDecision{}, nil, false
	}
}

// scopeFromCountry decides from EEA membership of a pre-resolved country.
func (s *Service) scopeFromCountry(_ context.Context, req ResolveRequest, _ models.ConsentSignal, _ string) (models.ScopeDecision, *models.GeoInfo, bool) {
	if req.Country == "" {
		return models.ScopeDecision{}, nil, false
	}
	in := s.inEEA(req.Country)
	return models.ScopeDecision{Applies: in, Source: models.SourceCountry, InEEA: &in}, nil, true
}

// scopeFromGeoLookup suspends on the single asynchronous step: a bounded
// geolocation lookup of the masked address. A failed or timed-out lookup
// still completes resolution, falling back to the configured default.
func (s *Service) scopeFromGeoLookup(ctx context.Context, req ResolveRequest, _ models.ConsentSignal, maskedIP string) (models.ScopeDecision, *models.GeoInfo, bool) {
	if req.IPAddress == "" || s.geo == nil {
		return models.ScopeDecision{}, nil, false
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.geoTimeout
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	geo, err := s.geo.Lookup(lookupCtx, maskedIP)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("geolocation lookup failed",
				"ip", maskedIP,
				"error", err,
			)
		}
		if s.metrics != nil {
			s.metrics.IncrementGeoLookup(false)
		}
		return s.defaultDecision(), nil, true
	}

	if s.metrics != nil {
		s.metrics.IncrementGeoLookup(true)
	}

	if geo.Country == "" {
		// Lookup succeeded but the country is unknown: configured default,
		// EEA membership stays tri-state unknown.
		return models.ScopeDecision{Applies: s.cfg.DefaultApplies, Source: models.SourceGeoLookup}, geo, true
	}

	in := s.inEEA(geo.Country)
	return models.ScopeDecision{Applies: in, Source: models.SourceGeoLookup, InEEA: &in}, geo, true
}

func (s *Service) defaultDecision() models.ScopeDecision {
	return models.ScopeDecision{Applies: s.cfg.DefaultApplies, Source: models.SourceDefault}
}

func (s *Service) inEEA(country string) bool {
	_, ok := s.eea[country]
	return ok
}
