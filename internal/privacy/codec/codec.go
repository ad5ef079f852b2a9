// Package codec decodes raw TCF consent strings into consent signals. The
// encoding is an externally-versioned bit-packed format owned by the IAB;
// this package only decodes it, via github.com/prebid/go-gdpr, and never
// produces it.
//
// Decode never fails: blank, corrupt, and deprecated inputs all degrade to
// the Empty sentinel plus an accounting side effect, so consent parsing can
// never fail a request.
package codec

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/prebid/go-gdpr/vendorconsent"

	"bidscope/internal/privacy/metrics"
	"bidscope/internal/privacy/models"
	"bidscope/pkg/platform/logutil"
)

// deprecatedVersion is the TCF major version treated as corrupt: version 1
// support is disabled.
const deprecatedVersion uint8 = 1

// Decoder turns raw consent strings into ConsentSignals, counting every
// failure mode and rate-limiting corrupt-consent log lines per traffic
// category.
type Decoder struct {
	metrics *metrics.Metrics
	corrupt *logutil.Suppressor
}

// Option configures the Decoder.
type Option func(*Decoder)

// WithSuppressor overrides the corrupt-consent log suppressor.
func WithSuppressor(s *logutil.Suppressor) Option {
	return func(d *Decoder) {
		d.corrupt = s
	}
}

// New creates a decoder. The logger feeds the rate-limited corrupt-consent
// channel; metrics may be nil in tests.
func New(m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Decoder {
	d := &Decoder{
		metrics: m,
		corrupt: logutil.New(logger),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses raw into a consent signal. Failure modes:
//   - blank input: Empty, "missing" counter;
//   - undecodable input: Empty, "invalid" counter, rate-limited warning keyed
//     by the request type;
//   - deprecated version 1: Empty, one warning appended to warnings;
//   - version >= 2: Valid signal.
//
// The per-version requests counter is incremented for every string that
// decoded at all, including deprecated ones.
func (d *Decoder) Decode(raw string, logInfo models.RequestLogInfo, warnings *models.Warnings) models.ConsentSignal {
	if raw == "" {
		if d.metrics != nil {
			d.metrics.IncrementConsentMissing()
		}
		return models.EmptyConsent()
	}

	consent, err := vendorconsent.ParseString(raw)
	if err != nil {
		if d.metrics != nil {
			d.metrics.IncrementConsentInvalid()
		}
		d.logCorrupt(raw, logInfo, err)
		return models.EmptyConsent()
	}

	version := consent.Version()
	if d.metrics != nil {
		d.metrics.IncrementConsentRequests(version)
	}
	if version == deprecatedVersion {
		warnings.Add(fmt.Sprintf(
			"Parsing consent string %q failed: TCF version 1 is deprecated and treated as corrupted TCF version 2", raw))
		return models.EmptyConsent()
	}

	return models.NewConsentSignal(consent)
}

// IsConsentStringValid is a pure validity probe with no side effects, for
// callers that only need a cheap decode-or-fail check.
func IsConsentStringValid(raw string) bool {
	_, err := vendorconsent.ParseString(raw)
	return err == nil
}

// ConsentStringVersion peeks at the version bits without a full decode.
// Returns 0 when the string is not even base64. The bits carry meaning only
// for strings that decode; callers gate on IsConsentStringValid first.
func ConsentStringVersion(raw string) uint8 {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(data) == 0 {
		return 0
	}
	// The version lives in the first 6 bits.
	return data[0] >> 2
}

func (d *Decoder) logCorrupt(raw string, logInfo models.RequestLogInfo, err error) {
	requestType := logInfo.RequestType.Normalize()
	d.corrupt.Warn(string(requestType), "failed to parse consent string",
		"consent", raw,
		"request_type", string(requestType),
		"account_id", logInfo.AccountID,
		"ref_url", logInfo.RefURL,
		"error", err.Error(),
	)
}
