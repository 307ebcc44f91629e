package domain

import "time"

// KycStatus represents the verification state of a party's compliance
// profile.
type KycStatus string

const (
	KycStatusPending  KycStatus = "pending"
	KycStatusVerified KycStatus = "verified"
	KycStatusRejected KycStatus = "rejected"
)

// CertificateTypeOrigin is the preferential-origin document (AfCFTA
// certificate) gating tariff treatment and final fund release.
const CertificateTypeOrigin = "preferential_origin"

// Certificate is a compliance document attached to a party's profile.
type Certificate struct {
	Type      string    `json:"type"`
	Number    string    `json:"number"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ComplianceProfile is the read-only view of a party's compliance standing,
// owned by the external compliance collaborator.
type ComplianceProfile struct {
	PartyId      string        `json:"party_id"`
	KycStatus    KycStatus     `json:"kyc_status"`
	Certificates []Certificate `json:"certificates"`
}

// IsVerified returns whether the party passed KYC verification.
func (p *ComplianceProfile) IsVerified() bool {
	return p.KycStatus == KycStatusVerified
}

// HasValidCertificate returns whether the profile carries an unexpired
// certificate of the given type at the given time.
func (p *ComplianceProfile) HasValidCertificate(certType string, at time.Time) bool {
	for _, c := range p.Certificates {
		if c.Type == certType && c.ExpiresAt.After(at) {
			return true
		}
	}
	return false
}
