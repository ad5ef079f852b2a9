package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"bidscope/internal/privacy/models"
)

func (s *ServiceSuite) TestNewPanicsWithoutPermissionEngine() {
	s.Panics(func() {
		New(models.DefaultGdprConfig(), testEEACountries, nil)
	})
}

func (s *ServiceSuite) TestEnforcementGatePrecedence() {
	cases := []struct {
		name        string
		global      bool
		account     *models.AccountGdprConfig
		requestType models.RequestType
		wantEnabled bool
	}{
		{
			name:        "global flag alone",
			global:      true,
			wantEnabled: true,
		},
		{
			name:        "globally disabled",
			global:      false,
			wantEnabled: false,
		},
		{
			name:        "account disables over global enable",
			global:      true,
			account:     &models.AccountGdprConfig{Enabled: boolPtr(false)},
			wantEnabled: false,
		},
		{
			name:        "account enables over global disable",
			global:      false,
			account:     &models.AccountGdprConfig{Enabled: boolPtr(true)},
			wantEnabled: true,
		},
		{
			name:   "request-type override beats account flag",
			global: true,
			account: &models.AccountGdprConfig{
				Enabled: boolPtr(true),
				EnabledForRequestType: map[models.RequestType]bool{
					models.RequestTypeAmp: false,
				},
			},
			requestType: models.RequestTypeAmp,
			wantEnabled: false,
		},
		{
			name:   "request-type override only applies to its own category",
			global: false,
			account: &models.AccountGdprConfig{
				EnabledForRequestType: map[models.RequestType]bool{
					models.RequestTypeAmp: true,
				},
			},
			requestType: models.RequestTypeWeb,
			wantEnabled: false,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			svc := s.newService(models.GdprConfig{Enabled: tc.global})
			got := svc.gdprEnabled(tc.account, tc.requestType)
			s.Equal(tc.wantEnabled, got)
		})
	}
}

func (s *ServiceSuite) TestDisabledEnforcementReturnsEmptyContext() {
	svc := s.newService(models.GdprConfig{Enabled: false})

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Privacy: models.Privacy{ConsentString: "garbage", GDPR: models.SignalApplies},
		Country: "DE",
	})

	s.False(tcfCtx.InScope())
	s.Equal(models.SourceDisabled, tcfCtx.Scope.Source)
	s.False(tcfCtx.ConsentValid())
	// Disabled requests never reach the decoder.
	s.Equal(float64(0), testutil.ToFloat64(s.metrics.ConsentInvalid))
}

func (s *ServiceSuite) TestConsentSignalBranchOverridesGeography() {
	svc := s.newService(models.GdprConfig{Enabled: true, ConsentStringMeansInScope: true})

	// "US" would resolve out of scope via the country branch; a valid consent
	// signal must win first.
	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Privacy: models.Privacy{ConsentString: consentV2},
		Country: "US",
	})

	s.True(tcfCtx.InScope())
	s.Equal(models.SourceConsentString, tcfCtx.Scope.Source)
	s.Nil(tcfCtx.Scope.InEEA)
}

func (s *ServiceSuite) TestConsentSignalBranchRequiresValidConsent() {
	svc := s.newService(models.GdprConfig{Enabled: true, ConsentStringMeansInScope: true})

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Privacy: models.Privacy{ConsentString: "garbage"},
		Country: "DE",
	})

	s.Equal(models.SourceCountry, tcfCtx.Scope.Source)
}

func (s *ServiceSuite) TestExplicitSignalOverridesCountryAndGeo() {
	svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))

	cases := []struct {
		name        string
		signal      models.GDPRSignal
		wantApplies bool
	}{
		{"signal applies", models.SignalApplies, true},
		{"signal not applicable", models.SignalNotApplicable, false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			// No geo expectation is registered: a lookup would fail the suite.
			tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
				Privacy:   models.Privacy{GDPR: tc.signal},
				Country:   "US",
				IPAddress: "203.0.113.45",
			})

			s.Equal(tc.wantApplies, tcfCtx.InScope())
			s.Equal(models.SourceExplicitSignal, tcfCtx.Scope.Source)
			s.Nil(tcfCtx.Scope.InEEA)
		})
	}
}

func (s *ServiceSuite) TestCountryBranchDecidesByEEAMembership() {
	svc := s.newService(models.DefaultGdprConfig())

	s.Run("EEA country applies", func() {
		tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{Country: "DE"})

		s.True(tcfCtx.InScope())
		s.Equal(models.SourceCountry, tcfCtx.Scope.Source)
		s.Require().NotNil(tcfCtx.Scope.InEEA)
		s.True(*tcfCtx.Scope.InEEA)
	})

	s.Run("non-EEA country does not apply", func() {
		tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{Country: "US"})

		s.False(tcfCtx.InScope())
		s.Equal(models.SourceCountry, tcfCtx.Scope.Source)
		s.Require().NotNil(tcfCtx.Scope.InEEA)
		s.False(*tcfCtx.Scope.InEEA)
	})
}

func (s *ServiceSuite) TestGeoLookupBranchResolvesScope() {
	svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))

	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), "203.0.113.45").
		Return(&models.GeoInfo{Country: "FR", City: "Paris"}, nil)

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		IPAddress: "203.0.113.45",
	})

	s.True(tcfCtx.InScope())
	s.Equal(models.SourceGeoLookup, tcfCtx.Scope.Source)
	s.Require().NotNil(tcfCtx.Scope.InEEA)
	s.True(*tcfCtx.Scope.InEEA)
	s.Equal("FR", tcfCtx.Country())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.GeoLookups.WithLabelValues("success")))
}

func (s *ServiceSuite) TestGeoLookupReceivesMaskedAddress() {
	svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))

	// Without the precise-geo opt-in the lookup must see the coarsened /24.
	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), "203.0.113.0").
		Return(&models.GeoInfo{Country: "NL"}, nil)

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Privacy:   models.Privacy{ConsentString: consentV2NoPreciseGeo},
		IPAddress: "203.0.113.45",
	})

	s.Equal("203.0.113.0", tcfCtx.IPAddress)
	s.Equal(models.SourceGeoLookup, tcfCtx.Scope.Source)
}

func (s *ServiceSuite) TestGeoLookupIsDeadlineBounded() {
	svc := s.newService(models.DefaultGdprConfig(),
		WithGeoLocation(s.mockGeo),
		WithGeoTimeout(50*time.Millisecond),
	)

	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (*models.GeoInfo, error) {
			deadline, ok := ctx.Deadline()
			s.True(ok, "lookup context must carry a deadline")
			s.LessOrEqual(time.Until(deadline), 50*time.Millisecond)
			return &models.GeoInfo{Country: "DE"}, nil
		})

	svc.ResolveContext(context.Background(), ResolveRequest{IPAddress: "203.0.113.45"})
}

func (s *ServiceSuite) TestGeoFailureFallsBackToDefault() {
	svc := s.newService(
		models.GdprConfig{Enabled: true, DefaultApplies: true},
		WithGeoLocation(s.mockGeo),
	)

	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("upstream timeout"))

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		IPAddress: "203.0.113.45",
	})

	s.True(tcfCtx.InScope(), "configured default must decide")
	s.Equal(models.SourceDefault, tcfCtx.Scope.Source)
	s.Nil(tcfCtx.Scope.InEEA)
	s.Nil(tcfCtx.Geo)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.GeoLookups.WithLabelValues("failure")))
}

func (s *ServiceSuite) TestGeoSuccessWithUnknownCountry() {
	svc := s.newService(
		models.GdprConfig{Enabled: true, DefaultApplies: true},
		WithGeoLocation(s.mockGeo),
	)

	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), gomock.Any()).
		Return(&models.GeoInfo{Vendor: "static"}, nil)

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		IPAddress: "203.0.113.45",
	})

	s.True(tcfCtx.InScope())
	s.Equal(models.SourceGeoLookup, tcfCtx.Scope.Source)
	s.Nil(tcfCtx.Scope.InEEA, "EEA membership stays unknown")
	s.NotNil(tcfCtx.Geo)
}

func (s *ServiceSuite) TestDefaultBranchWhenNothingElseMatches() {
	s.Run("default out of scope", func() {
		svc := s.newService(models.GdprConfig{Enabled: true, DefaultApplies: false})
		tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{})
		s.False(tcfCtx.InScope())
		s.Equal(models.SourceDefault, tcfCtx.Scope.Source)
	})

	s.Run("default in scope", func() {
		svc := s.newService(models.GdprConfig{Enabled: true, DefaultApplies: true})
		tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{})
		s.True(tcfCtx.InScope())
		s.Equal(models.SourceDefault, tcfCtx.Scope.Source)
	})
}

func (s *ServiceSuite) TestNoGeoLookupWhenCountryKnown() {
	// The country branch matches first, so the geo mock must see zero calls.
	svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))

	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Country:   "DE",
		IPAddress: "203.0.113.45",
	})

	s.Equal(models.SourceCountry, tcfCtx.Scope.Source)
}

func (s *ServiceSuite) TestGeographyOutcomeMetricOnlyForGeographyBranches() {
	sum := func() float64 {
		return testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("0", "true")) +
			testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("0", "false")) +
			testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("0", "unknown")) +
			testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("2", "true"))
	}

	s.Run("explicit signal records nothing", func() {
		svc := s.newService(models.DefaultGdprConfig())
		svc.ResolveContext(context.Background(), ResolveRequest{
			Privacy: models.Privacy{GDPR: models.SignalApplies},
		})
		s.Equal(float64(0), sum())
	})

	s.Run("default decision records nothing", func() {
		svc := s.newService(models.DefaultGdprConfig())
		svc.ResolveContext(context.Background(), ResolveRequest{})
		s.Equal(float64(0), sum())
	})

	s.Run("geo failure records nothing", func() {
		svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))
		s.mockGeo.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
		svc.ResolveContext(context.Background(), ResolveRequest{IPAddress: "203.0.113.45"})
		s.Equal(float64(0), sum())
	})

	s.Run("country decision records version and membership", func() {
		svc := s.newService(models.DefaultGdprConfig())
		svc.ResolveContext(context.Background(), ResolveRequest{
			Privacy: models.Privacy{ConsentString: consentV2},
			Country: "DE",
		})
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("2", "true")))
	})

	s.Run("geo success with unknown country records unknown", func() {
		svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))
		s.mockGeo.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(&models.GeoInfo{}, nil)
		svc.ResolveContext(context.Background(), ResolveRequest{IPAddress: "203.0.113.45"})
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ScopeOutcomes.WithLabelValues("0", "unknown")))
	})
}

func (s *ServiceSuite) TestDeprecatedConsentWarningPropagates() {
	svc := s.newService(models.DefaultGdprConfig())

	warnings := models.Warnings{}
	tcfCtx := svc.ResolveContext(context.Background(), ResolveRequest{
		Privacy:  models.Privacy{ConsentString: consentV1},
		Country:  "DE",
		Warnings: &warnings,
	})

	s.Require().Len(warnings, 1)
	s.Contains(warnings[0], "TCF version 1")
	s.Equal(warnings, tcfCtx.Warnings)
	s.False(tcfCtx.ConsentValid())
	// While the consent is unusable, geography still puts the request in scope.
	s.True(tcfCtx.InScope())
}

func (s *ServiceSuite) TestResolveSyncContext() {
	svc := s.newService(models.DefaultGdprConfig(), WithGeoLocation(s.mockGeo))

	s.mockGeo.EXPECT().
		Lookup(gomock.Any(), "203.0.113.45").
		Return(&models.GeoInfo{Country: "NO"}, nil)

	tcfCtx := svc.ResolveSyncContext(
		context.Background(),
		models.Privacy{ConsentString: consentV2},
		"203.0.113.45",
		nil,
		models.RequestTypeWeb,
		models.RequestLogInfo{RequestType: models.RequestTypeWeb},
	)

	s.True(tcfCtx.InScope())
	s.Equal(models.SourceGeoLookup, tcfCtx.Scope.Source)
	s.Equal("NO", tcfCtx.Country())
	s.True(tcfCtx.ConsentValid())
}
