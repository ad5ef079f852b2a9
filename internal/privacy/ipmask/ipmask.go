// Package ipmask derives the IP address used downstream of consent
// resolution, coarsening it when the decoded consent requires it. Masking
// runs before geolocation, so reduced precision propagates into the lookup
// as well.
package ipmask

import (
	"net"

	"bidscope/internal/privacy/models"
)

var (
	// ipv4Mask zeroes the last octet, hiding the host within a /24.
	ipv4Mask = net.CIDRMask(24, 32)
	// ipv6Mask keeps only the /48 routing prefix.
	ipv6Mask = net.CIDRMask(48, 128)
)

// MaskIP returns the address to use for geolocation and storage. The address
// is anonymized iff the consent is valid TCF version 2 and the user did not
// opt into precise geolocation (special feature 1). Everything else,
// including unparseable input, passes through unchanged.
func MaskIP(ip string, consent models.ConsentSignal) string {
	if !shouldMask(consent) {
		return ip
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}

	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(ipv4Mask).String()
	}
	return parsed.Mask(ipv6Mask).String()
}

func shouldMask(consent models.ConsentSignal) bool {
	return consent.Valid() &&
		consent.Version() == 2 &&
		!consent.SpecialFeatureOptIn(models.SpecialFeaturePreciseGeo)
}
