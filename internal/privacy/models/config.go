package models

// GdprConfig is the process-wide enforcement configuration snapshot. Loaded
// once at startup and read-only afterwards.
type GdprConfig struct {
	// Enabled switches enforcement on globally. Absent configuration means
	// enabled.
	Enabled bool
	// DefaultApplies is the scope used when no signal, country, or geo
	// lookup settles applicability.
	DefaultApplies bool
	// ConsentStringMeansInScope forces in-scope whenever a valid consent
	// signal is present, independent of geography.
	ConsentStringMeansInScope bool
}

// DefaultGdprConfig mirrors the behavior when configuration is entirely
// absent: enforcement on, unknown traffic out of scope.
func DefaultGdprConfig() GdprConfig {
	return GdprConfig{Enabled: true}
}

// AccountGdprConfig layers per-account overrides on top of the global config.
// Pointer and map-presence semantics distinguish "not set" from "set false".
type AccountGdprConfig struct {
	// Enabled overrides the global enabled flag when non-nil.
	Enabled *bool
	// EnabledForRequestType overrides Enabled per traffic category when the
	// key is present.
	EnabledForRequestType map[RequestType]bool
}

// EnabledFor returns the per-request-type override, if any.
func (c *AccountGdprConfig) EnabledFor(requestType RequestType) (bool, bool) {
	if c == nil || c.EnabledForRequestType == nil {
		return false, false
	}
	enabled, ok := c.EnabledForRequestType[requestType]
	return enabled, ok
}

// AccountEnabled returns the account-level override, if any.
func (c *AccountGdprConfig) AccountEnabled() (bool, bool) {
	if c == nil || c.Enabled == nil {
		return false, false
	}
	return *c.Enabled, true
}

// NewCountrySet builds the read-only EEA membership set shared by all
// requests. Never mutated after initialization.
func NewCountrySet(countries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[c] = struct{}{}
	}
	return set
}
