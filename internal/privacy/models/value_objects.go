package models

// RequestType labels the traffic category a request arrived on. It keys the
// per-category corrupt-consent log suppression and the account-level
// enforcement overrides.
type RequestType string

const (
	RequestTypeAmp       RequestType = "amp"
	RequestTypeApp       RequestType = "app"
	RequestTypeWeb       RequestType = "web"
	RequestTypeUndefined RequestType = "undefined"
)

// ValidRequestTypes is the single source of truth for supported request types.
var ValidRequestTypes = map[RequestType]bool{
	RequestTypeAmp:       true,
	RequestTypeApp:       true,
	RequestTypeWeb:       true,
	RequestTypeUndefined: true,
}

// IsValid checks if the request type is one of the supported enum values.
func (t RequestType) IsValid() bool {
	return ValidRequestTypes[t]
}

// Normalize maps unknown or empty values to RequestTypeUndefined so callers
// never have to special-case missing categories.
func (t RequestType) Normalize() RequestType {
	if t.IsValid() {
		return t
	}
	return RequestTypeUndefined
}

// GDPRSignal is the tri-state applicability flag a client may send alongside
// the request ("gdpr=1" / "gdpr=0" in the wire form).
type GDPRSignal uint8

const (
	SignalUnset GDPRSignal = iota
	SignalApplies
	SignalNotApplicable
)

// ParseGDPRSignal converts the wire form of the flag. Anything other than
// "1" or "0" is treated as unset.
func ParseGDPRSignal(raw string) GDPRSignal {
	switch raw {
	case "1":
		return SignalApplies
	case "0":
		return SignalNotApplicable
	default:
		return SignalUnset
	}
}

// ScopeSource records which branch of the fallback chain produced a scope
// decision. It makes the precedence auditable and drives the
// geography-outcome metric, which only fires for geography-derived decisions.
type ScopeSource string

const (
	// SourceDisabled marks the empty context returned when enforcement is
	// switched off entirely for the request.
	SourceDisabled ScopeSource = "disabled"
	// SourceConsentString: a valid consent signal alone implied in-scope.
	SourceConsentString ScopeSource = "consent_string"
	// SourceExplicitSignal: the caller supplied the applicability flag.
	SourceExplicitSignal ScopeSource = "explicit_signal"
	// SourceCountry: membership of a pre-resolved country in the EEA set.
	SourceCountry ScopeSource = "country"
	// SourceGeoLookup: membership of the geo-provider country in the EEA set.
	SourceGeoLookup ScopeSource = "geo_lookup"
	// SourceDefault: the configured default scope; also used when a geo
	// lookup fails or the resolved country is unknown.
	SourceDefault ScopeSource = "default"
)

// FromGeography reports whether the decision was computed from a country,
// either pre-known or looked up.
func (s ScopeSource) FromGeography() bool {
	return s == SourceCountry || s == SourceGeoLookup
}
