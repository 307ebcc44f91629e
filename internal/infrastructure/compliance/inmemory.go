package compliance

import (
	"context"
	"sync"
	"time"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

// InMemoryProvider is a ComplianceProvider backed by a map, used in dev
// mode and tests. Unknown parties get a pending profile.
type InMemoryProvider struct {
	lock     sync.RWMutex
	profiles map[string]domain.ComplianceProfile
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		profiles: make(map[string]domain.ComplianceProfile),
	}
}

// NewVerifiedProvider returns a provider where every party is KYC verified
// and carries a one-year preferential-origin certificate. Dev mode only.
func NewVerifiedProvider() ports.ComplianceProvider {
	return verifiedProvider{}
}

func (p *InMemoryProvider) SetProfile(profile domain.ComplianceProfile) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.profiles[profile.PartyId] = profile
}

func (p *InMemoryProvider) GetComplianceProfile(
	_ context.Context, partyId string,
) (*domain.ComplianceProfile, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	profile, ok := p.profiles[partyId]
	if !ok {
		return &domain.ComplianceProfile{
			PartyId:   partyId,
			KycStatus: domain.KycStatusPending,
		}, nil
	}
	return &profile, nil
}

type verifiedProvider struct{}

func (verifiedProvider) GetComplianceProfile(
	_ context.Context, partyId string,
) (*domain.ComplianceProfile, error) {
	return &domain.ComplianceProfile{
		PartyId:   partyId,
		KycStatus: domain.KycStatusVerified,
		Certificates: []domain.Certificate{{
			Type:      domain.CertificateTypeOrigin,
			Number:    "DEV",
			ExpiresAt: time.Now().AddDate(1, 0, 0),
		}},
	}, nil
}
