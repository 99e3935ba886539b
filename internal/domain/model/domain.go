// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

import "sort"

// Domain is an immutable snapshot of a catalog tenant, fetched from the
// registry once per request.
type Domain struct {
	// ID is the unique numeric domain identifier
	ID int
	// Cname is the unique, case-normalized domain cname
	Cname string
	// IsCustomerDomain flags onboarded tenants; the default search scope
	IsCustomerDomain bool
	// IsLocked hides the domain's catalog from unauthorized callers
	IsLocked bool
	// ModerationEnabled indicates per-document view moderation
	ModerationEnabled bool
	// RoutingApprovalEnabled restricts which documents federate into results
	RoutingApprovalEnabled bool
}

// DomainSet is a candidate set of domains plus an optional search context.
// The context may or may not also appear in the set.
type DomainSet struct {
	Context *Domain
	Domains []Domain
}

// IDCnameMap returns the id -> cname mapping for the set. Within one set
// cnames are unique, so the mapping is the inverse of CnameIDMap.
func (ds *DomainSet) IDCnameMap() map[int]string {
	m := make(map[int]string, len(ds.Domains))
	for _, d := range ds.Domains {
		m[d.ID] = d.Cname
	}
	return m
}

// CnameIDMap returns the cname -> id mapping for the set.
func (ds *DomainSet) CnameIDMap() map[string]int {
	m := make(map[string]int, len(ds.Domains))
	for _, d := range ds.Domains {
		m[d.Cname] = d.ID
	}
	return m
}

// IDs returns the domain ids of the set in ascending order.
func (ds *DomainSet) IDs() []int {
	ids := make([]int, 0, len(ds.Domains))
	for _, d := range ds.Domains {
		ids = append(ids, d.ID)
	}
	sort.Ints(ids)
	return ids
}

// Cnames returns the domain cnames of the set in id order.
func (ds *DomainSet) Cnames() []string {
	cnames := make([]string, 0, len(ds.Domains))
	for _, d := range ds.Domains {
		cnames = append(cnames, d.Cname)
	}
	sort.Strings(cnames)
	return cnames
}

// StatusPartition labels the id partition that aggregation filters are built
// from. It is derived fresh from a DomainSet and never persisted.
type StatusPartition struct {
	// AllIDs holds every domain id in the set
	AllIDs []int
	// ModeratedIDs holds ids of domains with view moderation enabled
	ModeratedIDs []int
	// UnmoderatedIDs holds ids of domains with view moderation disabled
	UnmoderatedIDs []int
	// RoutingDisabledIDs holds ids of domains without routing approval
	RoutingDisabledIDs []int
}

// Partition splits the set's domain ids by moderation and routing-approval
// status. Each slice is in ascending id order.
func (ds *DomainSet) Partition() StatusPartition {
	p := StatusPartition{
		AllIDs:             make([]int, 0, len(ds.Domains)),
		ModeratedIDs:       []int{},
		UnmoderatedIDs:     []int{},
		RoutingDisabledIDs: []int{},
	}
	for _, id := range ds.IDs() {
		p.AllIDs = append(p.AllIDs, id)
	}
	byID := make(map[int]Domain, len(ds.Domains))
	for _, d := range ds.Domains {
		byID[d.ID] = d
	}
	for _, id := range p.AllIDs {
		d := byID[id]
		if d.ModerationEnabled {
			p.ModeratedIDs = append(p.ModeratedIDs, id)
		} else {
			p.UnmoderatedIDs = append(p.UnmoderatedIDs, id)
		}
		if !d.RoutingApprovalEnabled {
			p.RoutingDisabledIDs = append(p.RoutingDisabledIDs, id)
		}
	}
	return p
}

// VisibilityDecision is the outcome of resolving a DomainSet against the
// caller's identity: the viewable context (nil when suppressed), the viewable
// domain subset, and any cookies the identity service set along the way.
type VisibilityDecision struct {
	Context    *Domain
	Domains    []Domain
	SetCookies []string
}

// DomainSet returns the decision as a DomainSet for request building.
func (v *VisibilityDecision) DomainSet() *DomainSet {
	return &DomainSet{Context: v.Context, Domains: v.Domains}
}
