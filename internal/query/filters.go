// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// filterVariant names the two mutually exclusive structural filter sets. A
// request is built from exactly one of them, selected by context presence.
type filterVariant int

const (
	// contextVariant scopes category/tag/metadata filters to the search
	// context's domain schema
	contextVariant filterVariant = iota
	// catalogVariant filters catalog-wide; metadata filters do not apply
	// and the candidate set is already customer-domain restricted
	catalogVariant
)

func variantFor(context *model.Domain) filterVariant {
	if context != nil {
		return contextVariant
	}
	return catalogVariant
}

// buildFilters composes every active structural filter for the visible
// domain set. All clauses are AND-ed by the enclosing bool filter.
func buildFilters(criteria *model.SearchCriteria, visible *model.DomainSet) []map[string]any {
	filters := []map[string]any{}

	if criteria.Only != nil {
		filters = append(filters, term("datatype", *criteria.Only))
	}

	// Domain membership always applies. An empty visible set matches
	// nothing, which is exactly the lock-down behavior.
	partition := visible.Partition()
	filters = append(filters, terms("domain_id", partition.AllIDs))

	filters = append(filters, moderationFilter(visible.Context, partition))

	if rf := routingApprovalFilter(visible.Context, partition); rf != nil {
		filters = append(filters, rf)
	}

	switch variantFor(visible.Context) {
	case contextVariant:
		filters = append(filters, contextScopedFilters(criteria)...)
	case catalogVariant:
		filters = append(filters, catalogWideFilters(criteria)...)
	}

	return filters
}

// moderationFilter excludes documents whose moderation state is incompatible
// with the context's moderation setting. With a moderated context, documents
// from moderated domains must be approved and documents from unmoderated
// domains must be default views. With an unmoderated (or absent) context,
// unmoderated domains are unrestricted and moderated domains contribute only
// default views.
func moderationFilter(context *model.Domain, p model.StatusPartition) map[string]any {
	contextModerated := context != nil && context.ModerationEnabled

	fromModerated := boolQuery(map[string]any{
		"must": []map[string]any{
			terms("domain_id", p.ModeratedIDs),
			term("is_moderation_approved", true),
		},
	})
	if !contextModerated {
		fromModerated = boolQuery(map[string]any{
			"must": []map[string]any{
				terms("domain_id", p.ModeratedIDs),
				term("is_default_view", true),
			},
		})
	}

	fromUnmoderated := terms("domain_id", p.UnmoderatedIDs)
	if contextModerated {
		fromUnmoderated = boolQuery(map[string]any{
			"must": []map[string]any{
				terms("domain_id", p.UnmoderatedIDs),
				term("is_default_view", true),
			},
		})
	}

	return boolQuery(map[string]any{
		"should": []map[string]any{fromModerated, fromUnmoderated},
	})
}

// routingApprovalFilter applies only when the context has routing approval
// enabled: a document passes if its domain has routing approval disabled or
// the document itself is routing-approved.
func routingApprovalFilter(context *model.Domain, p model.StatusPartition) map[string]any {
	if context == nil || !context.RoutingApprovalEnabled {
		return nil
	}
	return boolQuery(map[string]any{
		"should": []map[string]any{
			terms("domain_id", p.RoutingDisabledIDs),
			term("is_routing_approved", true),
		},
	})
}

// contextScopedFilters are the category/tag/metadata filters interpreted
// within the context domain's schema.
func contextScopedFilters(criteria *model.SearchCriteria) []map[string]any {
	filters := []map[string]any{}
	if len(criteria.Categories) > 0 {
		filters = append(filters, terms("categories.raw", criteria.Categories))
	}
	if len(criteria.Tags) > 0 {
		filters = append(filters, terms("tags.raw", criteria.Tags))
	}
	for _, pair := range criteria.Metadata {
		filters = append(filters, nested("metadata", boolQuery(map[string]any{
			"must": []map[string]any{
				term("metadata.key", pair.Key),
				term("metadata.value", pair.Value),
			},
		})))
	}
	return filters
}

// catalogWideFilters are the category/tag filters applied without a context.
// Metadata filters are rejected at validation and silently inapplicable when
// a locked context was suppressed; the customer-domain restriction is carried
// by the candidate set itself.
func catalogWideFilters(criteria *model.SearchCriteria) []map[string]any {
	filters := []map[string]any{}
	if len(criteria.Categories) > 0 {
		filters = append(filters, terms("categories.raw", criteria.Categories))
	}
	if len(criteria.Tags) > 0 {
		filters = append(filters, terms("tags.raw", criteria.Tags))
	}
	return filters
}
