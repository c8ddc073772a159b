package casefile

import "strings"

// ValidateCreateInput validates and normalizes a creation request.
func ValidateCreateInput(req *CreateRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ProviderName = strings.TrimSpace(req.ProviderName)

	if req.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if req.ClientName == "" {
		return &ValidationError{Field: "client", Reason: "required"}
	}
	if req.ProviderName == "" {
		return &ValidationError{Field: "provider", Reason: "required"}
	}

	if req.SignatureType == "" {
		req.SignatureType = SignatureDocuSign
	}
	if !validSignatureType(req.SignatureType) {
		return &ValidationError{Field: "signature_type", Reason: "must be DOCUSIGN, WET or POSITIVE_CONSENT"}
	}

	if req.SLADays < 0 {
		return &ValidationError{Field: "sla_days", Reason: "must be at least 1"}
	}
	return nil
}

func validSignatureType(st SignatureType) bool {
	for _, known := range SignatureTypes() {
		if st == known {
			return true
		}
	}
	return false
}
