// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// FixtureDomains returns the bootstrap domain fixtures shared by tests and
// the mock provider mode.
func FixtureDomains() []model.Domain {
	return []model.Domain{
		{ID: 1, Cname: "petercetera.net", IsCustomerDomain: true},
		{ID: 2, Cname: "opendata-demo.socrata.com", IsCustomerDomain: true, ModerationEnabled: true},
		{ID: 3, Cname: "blue.org", IsCustomerDomain: true, ModerationEnabled: true},
		{ID: 4, Cname: "annabelle.island.net", IsCustomerDomain: true, ModerationEnabled: true, RoutingApprovalEnabled: true},
		{ID: 5, Cname: "static.dev.socrata.net"},
		{ID: 6, Cname: "locked.demo.com", IsCustomerDomain: true, IsLocked: true},
	}
}

// MockDomainRegistry is an in-memory DomainRegistry over the fixtures
type MockDomainRegistry struct {
	domains []model.Domain
	err     error
}

// NewMockDomainRegistry creates a registry backed by the bootstrap fixtures
func NewMockDomainRegistry() *MockDomainRegistry {
	return &MockDomainRegistry{domains: FixtureDomains()}
}

// SetError makes every lookup fail with the given error
func (m *MockDomainRegistry) SetError(err error) {
	m.err = err
}

// SetDomains replaces the fixture set
func (m *MockDomainRegistry) SetDomains(domains []model.Domain) {
	m.domains = domains
}

// FetchDomainsByCname implements the DomainRegistry interface with fixture data
func (m *MockDomainRegistry) FetchDomainsByCname(ctx context.Context, cnames []string) ([]model.Domain, error) {
	if m.err != nil {
		return nil, m.err
	}

	requested := map[string]bool{}
	for _, cname := range cnames {
		requested[cname] = true
	}

	var found []model.Domain
	for _, d := range m.domains {
		if requested[d.Cname] {
			found = append(found, d)
		}
	}
	return found, nil
}

// FetchCustomerDomains implements the DomainRegistry interface with fixture data
func (m *MockDomainRegistry) FetchCustomerDomains(ctx context.Context, limit int) ([]model.Domain, error) {
	if m.err != nil {
		return nil, m.err
	}

	var customers []model.Domain
	for _, d := range m.domains {
		if d.IsCustomerDomain {
			customers = append(customers, d)
		}
		if len(customers) == limit {
			break
		}
	}
	return customers, nil
}

// IsReady always succeeds for the mock
func (m *MockDomainRegistry) IsReady(ctx context.Context) error {
	return m.err
}
