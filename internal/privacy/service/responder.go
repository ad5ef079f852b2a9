package service

import (
	"context"
	"errors"

	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

// ErrNoVendorIDResolver is returned by ResultForBidderNames when the service
// was built without a catalog-backed resolver.
var ErrNoVendorIDResolver = errors.New("no vendor id resolver configured")

// ResultForVendorIDs resolves per-vendor actions for the given context. Out
// of scope, every vendor is allowed without consulting the permission engine;
// in scope, the engine is invoked exactly once.
func (s *Service) ResultForVendorIDs(ctx context.Context, vendorIDs []uint16, tcfCtx *models.ConsentContext) (models.ScopeResponse[uint16], error) {
	return resultFor(ctx, tcfCtx, vendorIDs,
		func(ctx context.Context) ([]models.VendorPermission, error) {
			return s.engine.PermissionsForVendors(ctx, vendorIDs, tcfCtx.Consent)
		},
		func(p models.VendorPermission) uint16 { return p.VendorID },
	)
}

// ResultForBidderNames is ResultForBidderNamesWithResolver using the
// catalog-backed default resolver.
func (s *Service) ResultForBidderNames(ctx context.Context, bidderNames []string, tcfCtx *models.ConsentContext, account *models.AccountGdprConfig) (models.ScopeResponse[string], error) {
	if s.catalog == nil {
		return models.ScopeResponse[string]{}, ErrNoVendorIDResolver
	}
	return s.ResultForBidderNamesWithResolver(ctx, bidderNames, s.catalog, tcfCtx, account)
}

// ResultForBidderNamesWithResolver resolves per-bidder actions, mapping
// bidder names to vendor ids through the supplied resolver.
func (s *Service) ResultForBidderNamesWithResolver(ctx context.Context, bidderNames []string, resolver ports.VendorIDResolver, tcfCtx *models.ConsentContext, account *models.AccountGdprConfig) (models.ScopeResponse[string], error) {
	return resultFor(ctx, tcfCtx, bidderNames,
		func(ctx context.Context) ([]models.VendorPermission, error) {
			return s.engine.PermissionsForBidders(ctx, bidderNames, resolver, tcfCtx.Consent, account)
		},
		func(p models.VendorPermission) string { return p.BidderName },
	)
}

// resultFor short-circuits out-of-scope contexts to a blanket allow-all and
// otherwise reshapes the engine's results into a map keyed by subject.
func resultFor[K comparable](
	ctx context.Context,
	tcfCtx *models.ConsentContext,
	subjects []K,
	invoke func(context.Context) ([]models.VendorPermission, error),
	key func(models.VendorPermission) K,
) (models.ScopeResponse[K], error) {
	country := tcfCtx.Country()

	if !tcfCtx.InScope() {
		return models.ScopeResponse[K]{
			InScope: false,
			Actions: allowAll(subjects),
			Country: country,
		}, nil
	}

	permissions, err := invoke(ctx)
	if err != nil {
		return models.ScopeResponse[K]{}, err
	}

	actions := make(map[K]models.PrivacyAction, len(permissions))
	for _, p := range permissions {
		actions[key(p)] = p.Action
	}
	return models.ScopeResponse[K]{
		InScope: true,
		Actions: actions,
		Country: country,
	}, nil
}

func allowAll[K comparable](subjects []K) map[K]models.PrivacyAction {
	actions := make(map[K]models.PrivacyAction, len(subjects))
	for _, subject := range subjects {
		actions[subject] = models.AllowAll()
	}
	return actions
}
