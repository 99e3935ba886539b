// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// MockIdentityResolver is a canned IdentityResolver. The call counter lets
// tests assert how many directory round trips a code path performs.
type MockIdentityResolver struct {
	mu      sync.Mutex
	user    *model.UserIdentity
	cookies []string
	err     error
	calls   int
}

// NewMockIdentityResolver creates a resolver that resolves no identity
func NewMockIdentityResolver() *MockIdentityResolver {
	return &MockIdentityResolver{}
}

// SetUser sets the identity every resolution returns
func (m *MockIdentityResolver) SetUser(user *model.UserIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

// SetCookies sets the Set-Cookie values every resolution returns
func (m *MockIdentityResolver) SetCookies(cookies []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookies = cookies
}

// SetError makes every resolution fail with the given error
func (m *MockIdentityResolver) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many resolutions were performed
func (m *MockIdentityResolver) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ResolveUserByCookie implements the IdentityResolver interface with canned data
func (m *MockIdentityResolver) ResolveUserByCookie(ctx context.Context, contextCname, cookie, requestID *string) (*model.UserIdentity, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.user, m.cookies, nil
}

// IsReady always succeeds for the mock
func (m *MockIdentityResolver) IsReady(ctx context.Context) error {
	return nil
}

// MockRoleChecker is a canned RoleChecker keyed by (domain, user). Safe for
// concurrent use since visibility resolution fans out role checks.
type MockRoleChecker struct {
	mu     sync.Mutex
	grants map[string]*model.RoleGrant
	err    error
	calls  int
}

// NewMockRoleChecker creates a role checker with no grants
func NewMockRoleChecker() *MockRoleChecker {
	return &MockRoleChecker{grants: map[string]*model.RoleGrant{}}
}

// Grant records a role grant for the (domain, user) pair
func (m *MockRoleChecker) Grant(domainCname, userID, role string, viewCatalog bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[grantKey(domainCname, userID)] = &model.RoleGrant{
		Role:        role,
		ViewCatalog: viewCatalog,
	}
}

// SetError makes every role check fail with the given error
func (m *MockRoleChecker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many role checks were performed
func (m *MockRoleChecker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FetchUserRole implements the RoleChecker interface with canned grants
func (m *MockRoleChecker) FetchUserRole(ctx context.Context, domainCname, userID string, requestID *string) (*model.RoleGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.grants[grantKey(domainCname, userID)], nil
}

// Close is a no-op for the mock
func (m *MockRoleChecker) Close() error {
	return nil
}

// IsReady always succeeds for the mock
func (m *MockRoleChecker) IsReady(ctx context.Context) error {
	return nil
}

func grantKey(domainCname, userID string) string {
	return fmt.Sprintf("%s|%s", domainCname, userID)
}
