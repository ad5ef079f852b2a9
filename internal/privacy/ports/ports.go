// Package ports declares the external collaborator contracts of the
// privacy-scope core: geolocation, the per-vendor permission engine, and the
// bidder catalog's vendor-id mapping.
package ports

import (
	"context"

	"bidscope/internal/privacy/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// GeoLocationService resolves geolocation data for an IP address. A single
// attempt is made per request, bounded by the context deadline; failures and
// timeouts surface as errors and are never retried by the core.
type GeoLocationService interface {
	Lookup(ctx context.Context, ipAddress string) (*models.GeoInfo, error)
}

// PermissionEngine computes per-subject enforcement actions from a decoded
// consent signal. Invoked at most once per request, and only when the regime
// applies.
type PermissionEngine interface {
	PermissionsForVendors(ctx context.Context, vendorIDs []uint16, consent models.ConsentSignal) ([]models.VendorPermission, error)
	PermissionsForBidders(ctx context.Context, bidderNames []string, resolver VendorIDResolver, consent models.ConsentSignal, account *models.AccountGdprConfig) ([]models.VendorPermission, error)
}

// VendorIDResolver maps a bidder name to its TCF global vendor list id.
type VendorIDResolver interface {
	VendorIDForBidder(bidderName string) (uint16, bool)
}

// MapVendorIDResolver is a catalog snapshot backed by a plain map.
type MapVendorIDResolver map[string]uint16

// VendorIDForBidder implements VendorIDResolver.
func (m MapVendorIDResolver) VendorIDForBidder(bidderName string) (uint16, bool) {
	id, ok := m[bidderName]
	return id, ok
}
