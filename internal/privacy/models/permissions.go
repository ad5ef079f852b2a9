package models

// PrivacyAction is the per-subject enforcement verdict produced by the
// permission engine. The zero value allows everything, so out-of-scope
// traffic can be answered without consulting the engine.
type PrivacyAction struct {
	BlockBidderRequest   bool `json:"block_bidder_request"`
	BlockAnalyticsReport bool `json:"block_analytics_report"`
	BlockPixelSync       bool `json:"block_pixel_sync"`
	RemoveUserIDs        bool `json:"remove_user_ids"`
	MaskGeo              bool `json:"mask_geo"`
	MaskDeviceIP         bool `json:"mask_device_ip"`
	MaskDeviceInfo       bool `json:"mask_device_info"`
}

// AllowAll returns an action that permits every kind of processing.
func AllowAll() PrivacyAction {
	return PrivacyAction{}
}

// VendorPermission is one permission-engine result, addressable by vendor id
// or by bidder name depending on which responder entry point was used.
type VendorPermission struct {
	VendorID   uint16
	BidderName string
	Action     PrivacyAction
}

// ScopeResponse is the responder's output: per-subject actions keyed by
// vendor id or bidder name.
type ScopeResponse[K comparable] struct {
	// InScope is false when the regime did not apply and the actions are a
	// blanket allow-all not governed by TCF.
	InScope bool
	// Actions holds one verdict per requested subject.
	Actions map[K]PrivacyAction
	// Country is the resolved country, when geolocation produced one.
	Country string
}
