package main

import (
	"context"

	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

// allowAllEngine stands in for the per-purpose permission engine: every
// subject gets an allow-all verdict. Scope gating still applies upstream.
type allowAllEngine struct{}

var _ ports.PermissionEngine = allowAllEngine{}

func (allowAllEngine) PermissionsForVendors(_ context.Context, vendorIDs []uint16, _ models.ConsentSignal) ([]models.VendorPermission, error) {
	permissions := make([]models.VendorPermission, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		permissions = append(permissions, models.VendorPermission{VendorID: id, Action: models.AllowAll()})
	}
	return permissions, nil
}

func (allowAllEngine) PermissionsForBidders(_ context.Context, bidderNames []string, resolver ports.VendorIDResolver, _ models.ConsentSignal, _ *models.AccountGdprConfig) ([]models.VendorPermission, error) {
	permissions := make([]models.VendorPermission, 0, len(bidderNames))
	for _, name := range bidderNames {
		p := models.VendorPermission{BidderName: name, Action: models.AllowAll()}
		if resolver != nil {
			if id, ok := resolver.VendorIDForBidder(name); ok {
				p.VendorID = id
			}
		}
		permissions = append(permissions, p)
	}
	return permissions, nil
}
