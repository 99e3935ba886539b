// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/internal/metrics"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// DomainResolver resolves the candidate DomainSet for a request and applies
// the lock-down visibility rules against the caller's identity.
type DomainResolver struct {
	registry port.DomainRegistry
	identity port.IdentityResolver
	roles    port.RoleChecker
}

// NewDomainResolver creates a new DomainResolver instance
func NewDomainResolver(registry port.DomainRegistry, identity port.IdentityResolver, roles port.RoleChecker) *DomainResolver {
	return &DomainResolver{
		registry: registry,
		identity: identity,
		roles:    roles,
	}
}

// IsReady checks the registry, user directory and role service.
func (r *DomainResolver) IsReady(ctx context.Context) error {
	if err := r.registry.IsReady(ctx); err != nil {
		return err
	}
	if err := r.identity.IsReady(ctx); err != nil {
		return err
	}
	return r.roles.IsReady(ctx)
}

// FindDomains resolves the search context and candidate domain set. When
// explicit cnames are given they are fetched together with the context in one
// batched lookup and the set is restricted back to exactly the requested
// cnames; the context never silently joins the set. Without explicit cnames
// the set defaults to all customer domains, capped at
// constants.MaxDomainFetch.
func (r *DomainResolver) FindDomains(ctx context.Context, contextCname *string, domainCnames []string) (*model.DomainSet, error) {
	if len(domainCnames) > 0 {
		return r.findRequestedDomains(ctx, contextCname, domainCnames)
	}
	return r.findCustomerDomains(ctx, contextCname)
}

func (r *DomainResolver) findRequestedDomains(ctx context.Context, contextCname *string, domainCnames []string) (*model.DomainSet, error) {
	lookup := make([]string, 0, len(domainCnames)+1)
	lookup = append(lookup, domainCnames...)
	if contextCname != nil && !containsCname(domainCnames, *contextCname) {
		lookup = append(lookup, *contextCname)
	}

	fetched, err := r.registry.FetchDomainsByCname(ctx, lookup)
	if err != nil {
		return nil, err
	}

	requested := map[string]bool{}
	for _, cname := range domainCnames {
		requested[cname] = true
	}

	ds := &model.DomainSet{}
	for i := range fetched {
		if requested[fetched[i].Cname] {
			ds.Domains = append(ds.Domains, fetched[i])
		}
		if contextCname != nil && fetched[i].Cname == *contextCname {
			d := fetched[i]
			ds.Context = &d
		}
	}

	if contextCname != nil && ds.Context == nil {
		return nil, errors.NewDomainNotFound(*contextCname)
	}
	return ds, nil
}

func (r *DomainResolver) findCustomerDomains(ctx context.Context, contextCname *string) (*model.DomainSet, error) {
	fetched, err := r.registry.FetchCustomerDomains(ctx, constants.MaxDomainFetch)
	if err != nil {
		return nil, err
	}

	ds := &model.DomainSet{Domains: fetched}
	if contextCname == nil {
		return ds, nil
	}

	for i := range fetched {
		if fetched[i].Cname == *contextCname {
			d := fetched[i]
			ds.Context = &d
			break
		}
	}
	if ds.Context == nil {
		// The context may be a non-customer domain; one more lookup.
		extra, err := r.registry.FetchDomainsByCname(ctx, []string{*contextCname})
		if err != nil {
			return nil, err
		}
		if len(extra) == 0 {
			return nil, errors.NewDomainNotFound(*contextCname)
		}
		d := extra[0]
		ds.Context = &d
	}
	return ds, nil
}

// ResolveVisibility computes the viewable context and domain subset. The
// context of a locked domain is suppressed, never errored, when the caller
// lacks catalog-view rights: a request must not learn that a locked context
// exists. Identity-service failures abort the request; partial visibility is
// never returned.
func (r *DomainResolver) ResolveVisibility(ctx context.Context, ds *model.DomainSet, cookie, requestID *string) (*model.VisibilityDecision, error) {
	contextLocked := ds.Context != nil && ds.Context.IsLocked

	var locked, unlocked []model.Domain
	for _, d := range ds.Domains {
		if d.IsLocked {
			locked = append(locked, d)
		} else {
			unlocked = append(unlocked, d)
		}
	}

	// Fast path: nothing locked, no identity round trip.
	if !contextLocked && len(locked) == 0 {
		return &model.VisibilityDecision{Context: ds.Context, Domains: ds.Domains}, nil
	}

	var contextCname *string
	if ds.Context != nil {
		contextCname = &ds.Context.Cname
	}

	user, setCookies, err := r.identity.ResolveUserByCookie(ctx, contextCname, cookie, requestID)
	if err != nil {
		return nil, errors.NewServiceUnavailable("identity service unavailable", err)
	}

	if user == nil {
		decision := &model.VisibilityDecision{
			Domains:    unlocked,
			SetCookies: setCookies,
		}
		if !contextLocked {
			decision.Context = ds.Context
		}
		slog.DebugContext(ctx, "anonymous caller, locked domains hidden",
			"locked_count", len(locked),
			"context_suppressed", contextLocked,
		)
		return decision, nil
	}

	viewable, err := r.checkLockedDomains(ctx, lockedCnames(locked, ds.Context), user.ID, requestID)
	if err != nil {
		return nil, errors.NewServiceUnavailable("role lookup failed", err)
	}

	decision := &model.VisibilityDecision{
		Domains:    unlocked,
		SetCookies: setCookies,
	}
	for _, d := range locked {
		if viewable[d.Cname] {
			decision.Domains = append(decision.Domains, d)
		}
	}
	if !contextLocked || viewable[ds.Context.Cname] {
		decision.Context = ds.Context
	}
	return decision, nil
}

// checkLockedDomains fans out one role lookup per locked cname. Lookups are
// independent and read-only, so they run concurrently; the collected result
// is identical to the sequential version.
func (r *DomainResolver) checkLockedDomains(ctx context.Context, cnames []string, userID string, requestID *string) (map[string]bool, error) {
	viewable := make(map[string]bool, len(cnames))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.RoleCheckConcurrency)
	for _, cname := range cnames {
		cname := cname
		g.Go(func() error {
			metrics.CountRoleCheck()
			grant, err := r.roles.FetchUserRole(gctx, cname, userID, requestID)
			if err != nil {
				return err
			}
			mu.Lock()
			viewable[cname] = grant != nil && grant.ViewCatalog
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return viewable, nil
}

// lockedCnames collects every locked cname needing a role check: the locked
// candidates plus a locked context not already in the set.
func lockedCnames(locked []model.Domain, context *model.Domain) []string {
	cnames := make([]string, 0, len(locked)+1)
	seen := map[string]bool{}
	for _, d := range locked {
		if !seen[d.Cname] {
			seen[d.Cname] = true
			cnames = append(cnames, d.Cname)
		}
	}
	if context != nil && context.IsLocked && !seen[context.Cname] {
		cnames = append(cnames, context.Cname)
	}
	return cnames
}

func containsCname(cnames []string, cname string) bool {
	for _, c := range cnames {
		if c == cname {
			return true
		}
	}
	return false
}
