package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

func outOfScopeContext() *models.ConsentContext {
	return &models.ConsentContext{
		Scope:   models.ScopeDecision{Applies: false, Source: models.SourceCountry, InEEA: boolPtr(false)},
		Consent: models.EmptyConsent(),
		Geo:     &models.GeoInfo{Country: "US"},
	}
}

func inScopeContext() *models.ConsentContext {
	return &models.ConsentContext{
		Scope:   models.ScopeDecision{Applies: true, Source: models.SourceCountry, InEEA: boolPtr(true)},
		Consent: models.EmptyConsent(),
		Geo:     &models.GeoInfo{Country: "DE"},
	}
}

func (s *ServiceSuite) TestOutOfScopeAllowsAllWithoutEngine() {
	// No engine expectation is registered: any call fails the suite.
	svc := s.newService(models.DefaultGdprConfig())

	res, err := svc.ResultForVendorIDs(context.Background(), []uint16{32, 52}, outOfScopeContext())

	s.Require().NoError(err)
	s.False(res.InScope)
	s.Equal("US", res.Country)
	s.Require().Len(res.Actions, 2)
	for id, action := range res.Actions {
		s.Equal(models.AllowAll(), action, "vendor %d must be fully allowed", id)
	}
}

func (s *ServiceSuite) TestInScopeInvokesEngineExactlyOnce() {
	svc := s.newService(models.DefaultGdprConfig())
	tcfCtx := inScopeContext()

	vendorIDs := []uint16{32, 52}
	s.mockEngine.EXPECT().
		PermissionsForVendors(gomock.Any(), vendorIDs, tcfCtx.Consent).
		Return([]models.VendorPermission{
			{VendorID: 32, Action: models.PrivacyAction{}},
			{VendorID: 52, Action: models.PrivacyAction{BlockBidderRequest: true, RemoveUserIDs: true}},
		}, nil).
		Times(1)

	res, err := svc.ResultForVendorIDs(context.Background(), vendorIDs, tcfCtx)

	s.Require().NoError(err)
	s.True(res.InScope)
	s.Equal("DE", res.Country)
	s.Require().Len(res.Actions, 2)
	s.False(res.Actions[32].BlockBidderRequest)
	s.True(res.Actions[52].BlockBidderRequest)
	s.True(res.Actions[52].RemoveUserIDs)
}

func (s *ServiceSuite) TestEngineErrorSurfaces() {
	svc := s.newService(models.DefaultGdprConfig())

	s.mockEngine.EXPECT().
		PermissionsForVendors(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("vendor list unavailable"))

	_, err := svc.ResultForVendorIDs(context.Background(), []uint16{32}, inScopeContext())

	s.Error(err)
}

func (s *ServiceSuite) TestResultForBidderNamesUsesCatalogResolver() {
	catalog := ports.MapVendorIDResolver{"appnexus": 32}
	svc := s.newService(models.DefaultGdprConfig(), WithVendorIDResolver(catalog))
	tcfCtx := inScopeContext()

	bidders := []string{"appnexus"}
	s.mockEngine.EXPECT().
		PermissionsForBidders(gomock.Any(), bidders, catalog, tcfCtx.Consent, gomock.Nil()).
		Return([]models.VendorPermission{
			{VendorID: 32, BidderName: "appnexus", Action: models.PrivacyAction{BlockPixelSync: true}},
		}, nil).
		Times(1)

	res, err := svc.ResultForBidderNames(context.Background(), bidders, tcfCtx, nil)

	s.Require().NoError(err)
	s.True(res.Actions["appnexus"].BlockPixelSync)
}

func (s *ServiceSuite) TestResultForBidderNamesWithoutCatalog() {
	svc := s.newService(models.DefaultGdprConfig())

	_, err := svc.ResultForBidderNames(context.Background(), []string{"appnexus"}, inScopeContext(), nil)

	s.ErrorIs(err, ErrNoVendorIDResolver)
}

func (s *ServiceSuite) TestResultForBidderNamesWithExplicitResolver() {
	svc := s.newService(models.DefaultGdprConfig())
	tcfCtx := outOfScopeContext()
	resolver := ports.MapVendorIDResolver{"rubicon": 52}

	// Out of scope short-circuits before the resolver or engine matter.
	res, err := svc.ResultForBidderNamesWithResolver(
		context.Background(), []string{"rubicon"}, resolver, tcfCtx, nil)

	s.Require().NoError(err)
	s.False(res.InScope)
	s.Equal(models.AllowAll(), res.Actions["rubicon"])
}
