package httptransport

import (
	"encoding/json"
	"net/http"

	"bidscope/internal/privacy/codec"
	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/service"
)

// resolveScopeRequest mirrors the per-request privacy inputs of an auction.
type resolveScopeRequest struct {
	ConsentString string `json:"consent_string"`
	// GDPR is the explicit applicability flag in wire form: "1", "0", or "".
	GDPR        string `json:"gdpr"`
	Country     string `json:"country"`
	IP          string `json:"ip"`
	RequestType string `json:"request_type"`
	AccountID   string `json:"account_id"`
	RefURL      string `json:"ref_url"`

	// Account-level enforcement overrides, if the caller has them.
	AccountGdprEnabled *bool           `json:"account_gdpr_enabled,omitempty"`
	AccountGdprPerType map[string]bool `json:"account_gdpr_per_type,omitempty"`
}

type resolveScopeResponse struct {
	Applies      bool            `json:"applies"`
	Source       string          `json:"source"`
	InEEA        *bool           `json:"in_eea,omitempty"`
	ConsentValid bool            `json:"consent_valid"`
	TCFVersion   uint8           `json:"tcf_version,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	Geo          *models.GeoInfo `json:"geo,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

func (h *Handler) handleResolveScope(w http.ResponseWriter, r *http.Request) {
	var req resolveScopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid_request", "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	requestType := models.RequestType(req.RequestType).Normalize()

	tcfCtx := h.scope.ResolveContext(r.Context(), service.ResolveRequest{
		Privacy: models.Privacy{
			ConsentString: req.ConsentString,
			GDPR:          models.ParseGDPRSignal(req.GDPR),
		},
		Country:     req.Country,
		IPAddress:   req.IP,
		Account:     accountConfigFrom(req),
		RequestType: requestType,
		LogInfo: models.RequestLogInfo{
			RequestType: requestType,
			AccountID:   req.AccountID,
			RefURL:      req.RefURL,
		},
	})

	writeJSON(w, http.StatusOK, resolveScopeResponse{
		Applies:      tcfCtx.Scope.Applies,
		Source:       string(tcfCtx.Scope.Source),
		InEEA:        tcfCtx.Scope.InEEA,
		ConsentValid: tcfCtx.ConsentValid(),
		TCFVersion:   tcfCtx.Consent.Version(),
		IPAddress:    tcfCtx.IPAddress,
		Geo:          tcfCtx.Geo,
		Warnings:     tcfCtx.Warnings,
	})
}

type validateConsentRequest struct {
	ConsentString string `json:"consent_string"`
}

type validateConsentResponse struct {
	Valid   bool  `json:"valid"`
	Version uint8 `json:"version,omitempty"`
}

// handleValidateConsent is the cheap decode-or-fail probe; it has no side
// effects on metrics or logs.
func (h *Handler) handleValidateConsent(w http.ResponseWriter, r *http.Request) {
	var req validateConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid_request", "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	// The version sniff reads raw base64 bits, so it only means anything for
	// strings that actually decode.
	valid := codec.IsConsentStringValid(req.ConsentString)
	var version uint8
	if valid {
		version = codec.ConsentStringVersion(req.ConsentString)
	}

	writeJSON(w, http.StatusOK, validateConsentResponse{
		Valid:   valid,
		Version: version,
	})
}

func accountConfigFrom(req resolveScopeRequest) *models.AccountGdprConfig {
	if req.AccountGdprEnabled == nil && len(req.AccountGdprPerType) == 0 {
		return nil
	}
	account := &models.AccountGdprConfig{Enabled: req.AccountGdprEnabled}
	if len(req.AccountGdprPerType) > 0 {
		account.EnabledForRequestType = make(map[models.RequestType]bool, len(req.AccountGdprPerType))
		for t, enabled := range req.AccountGdprPerType {
			account.EnabledForRequestType[models.RequestType(t)] = enabled
		}
	}
	return account
}

func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

func writeJSONError(w http.ResponseWriter, code, description string, status int) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}
