// Package models holds the immutable per-request value types of the
// privacy-scope core: raw privacy inputs, the decoded consent signal, the
// scope decision, and the assembled consent context consumed by the
// permission stage.
package models

import (
	"github.com/prebid/go-gdpr/api"
	"github.com/prebid/go-gdpr/consentconstants"
	tcf2 "github.com/prebid/go-gdpr/vendorconsent/tcf2"
)

// SpecialFeaturePreciseGeo is the TCF special feature id for precise
// geolocation. Without this opt-in the user's IP must be coarsened before any
// geo use.
const SpecialFeaturePreciseGeo uint16 = 1

// Privacy carries the raw per-request privacy signals as parsed upstream.
// Built once per request and never mutated.
type Privacy struct {
	// ConsentString is the opaque TCF-encoded consent blob; may be blank.
	ConsentString string
	// GDPR is the explicit applicability flag supplied by the client.
	GDPR GDPRSignal
}

// ConsentSignal is the decoded representation of a consent string. The zero
// value is the Empty sentinel, produced whenever the raw string is blank,
// fails to decode, or decodes to the deprecated TCF version 1. A Valid signal
// only ever carries version >= 2.
type ConsentSignal struct {
	consent api.VendorConsents
}

// EmptyConsent returns the sentinel for "no usable consent". Downstream code
// treats it as a first-class value, not an error.
func EmptyConsent() ConsentSignal {
	return ConsentSignal{}
}

// NewConsentSignal wraps a successfully decoded consent. Callers must have
// rejected deprecated versions already.
func NewConsentSignal(consent api.VendorConsents) ConsentSignal {
	return ConsentSignal{consent: consent}
}

// Valid reports whether the signal carries decoded consent.
func (s ConsentSignal) Valid() bool {
	return s.consent != nil
}

// Version returns the TCF version of the decoded consent, or 0 for Empty.
func (s ConsentSignal) Version() uint8 {
	if s.consent == nil {
		return 0
	}
	return s.consent.Version()
}

// SpecialFeatureOptIn reports whether the user opted into the given TCF
// special feature. Always false for Empty or non-TCF2 signals.
func (s ConsentSignal) SpecialFeatureOptIn(featureID uint16) bool {
	meta, ok := s.consent.(tcf2.ConsentMetadata)
	if !ok {
		return false
	}
	return meta.SpecialFeatureOptIn(featureID)
}

// VendorConsent reports whether the given vendor has consent. Always false
// for Empty.
func (s ConsentSignal) VendorConsent(vendorID uint16) bool {
	return s.consent != nil && s.consent.VendorConsent(vendorID)
}

// PurposeAllowed reports whether data may be processed for the given purpose.
// Always false for Empty.
func (s ConsentSignal) PurposeAllowed(purposeID consentconstants.Purpose) bool {
	return s.consent != nil && s.consent.PurposeAllowed(purposeID)
}

// Consent exposes the underlying decoded consent for the permission engine.
// Nil for Empty.
func (s ConsentSignal) Consent() api.VendorConsents {
	return s.consent
}

// GeoInfo is the geolocation provider's view of an IP address. Only Country
// participates in scope resolution; the remaining attributes ride along for
// downstream consumers.
type GeoInfo struct {
	// Vendor names the provider that produced the data.
	Vendor  string  `json:"vendor,omitempty"`
	Country string  `json:"country,omitempty"`
	Region  string  `json:"region,omitempty"`
	City    string  `json:"city,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// ScopeDecision is the resolved applicability of the data-protection regime
// for one request. Computed exactly once per request; the DEFAULT outcome of
// the fallback chain is materialized into Applies and witnessed by Source.
type ScopeDecision struct {
	// Applies is the final answer: does the regime govern this request.
	Applies bool `json:"applies"`
	// Source names the fallback-chain branch that produced the decision.
	Source ScopeSource `json:"source"`
	// InEEA is the EEA-membership justification; nil when geography never
	// entered the decision.
	InEEA *bool `json:"in_eea,omitempty"`
}

// RequestLogInfo identifies the traffic a corrupt consent string arrived on,
// enriching the rate-limited failure log.
type RequestLogInfo struct {
	RequestType RequestType
	AccountID   string
	RefURL      string
}

// Warnings is an append-only collection of non-fatal, human-readable notices
// surfaced to the caller's debug channel. A nil *Warnings discards appends.
type Warnings []string

// Add appends a warning; safe on a nil receiver.
func (w *Warnings) Add(msg string) {
	if w == nil {
		return
	}
	*w = append(*w, msg)
}

// ConsentContext is the assembled result of scope resolution: one immutable
// object per request, consumed by the permission-computation stage. It always
// exists; resolution has no failure case.
type ConsentContext struct {
	Scope         ScopeDecision
	ConsentString string
	Consent       ConsentSignal
	// IPAddress is the address to use downstream; already anonymized when
	// the consent required it.
	IPAddress string
	// Geo is present only when an async lookup succeeded.
	Geo *GeoInfo
	// Warnings collected during resolution (deprecated-version notices etc).
	Warnings Warnings
}

// EmptyContext is the no-op context returned when enforcement is disabled:
// the regime is treated as not applicable and no consent was decoded.
func EmptyContext() *ConsentContext {
	return &ConsentContext{
		Scope:   ScopeDecision{Applies: false, Source: SourceDisabled},
		Consent: EmptyConsent(),
	}
}

// ConsentValid reports whether the context carries a usable consent signal.
// Derived from the signal so it can never drift out of sync.
func (c *ConsentContext) ConsentValid() bool {
	return c.Consent.Valid()
}

// InScope reports whether the regime applies to this request.
func (c *ConsentContext) InScope() bool {
	return c.Scope.Applies
}

// Country returns the resolved country if geolocation produced one.
func (c *ConsentContext) Country() string {
	if c.Geo == nil {
		return ""
	}
	return c.Geo.Country
}
