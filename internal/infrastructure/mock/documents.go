// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package mock

// Document is the indexed document shape the mock searcher evaluates queries
// against. Field names in queries resolve through docValue below.
type Document struct {
	ID                   string          `json:"id"`
	DomainID             int             `json:"domain_id"`
	DomainCname          string          `json:"domain_cname"`
	Datatype             string          `json:"datatype"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Categories           []string        `json:"categories"`
	Tags                 []string        `json:"tags"`
	Metadata             []MetadataEntry `json:"metadata"`
	IsDefaultView        bool            `json:"is_default_view"`
	IsModerationApproved bool            `json:"is_moderation_approved"`
	IsRoutingApproved    bool            `json:"is_routing_approved"`
	PageViewsTotal       float64         `json:"page_views_total"`
}

// MetadataEntry is one nested metadata key/value on a document
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FixtureDocuments returns the bootstrap document fixtures. They pair with
// FixtureDomains: each document's DomainID refers to a fixture domain, and the
// moderation and routing flags cover every filter branch.
func FixtureDocuments() []Document {
	return []Document{
		// petercetera.net: unmoderated, routing approval off. One default
		// view among four documents.
		{
			ID: "p1", DomainID: 1, DomainCname: "petercetera.net",
			Datatype: "dataset", Name: "Ambulance Response Times",
			Description: "Dispatch to arrival intervals by station",
			Categories:  []string{"Public Safety"}, Tags: []string{"ems", "response"},
			Metadata:      []MetadataEntry{{Key: "Department", Value: "Fire"}},
			IsDefaultView: true, PageViewsTotal: 420,
		},
		{
			ID: "p2", DomainID: 1, DomainCname: "petercetera.net",
			Datatype: "chart", Name: "Budget By Department",
			Description: "Adopted budget visualization",
			Categories:  []string{"Finance"}, Tags: []string{"budget"},
			Metadata:       []MetadataEntry{{Key: "Department", Value: "Finance"}},
			PageViewsTotal: 95,
		},
		{
			ID: "p3", DomainID: 1, DomainCname: "petercetera.net",
			Datatype: "file", Name: "Crime Statistics 2025",
			Description: "Quarterly incident report archive",
			Categories:  []string{"Public Safety"}, Tags: []string{"crime"},
			PageViewsTotal: 310,
		},
		{
			ID: "p4", DomainID: 1, DomainCname: "petercetera.net",
			Datatype: "href", Name: "Zoning Map Links",
			Description: "External zoning map portal",
			Categories:  []string{"Planning"}, Tags: []string{"zoning"},
			PageViewsTotal: 12,
		},

		// opendata-demo.socrata.com: moderated. Approved default view.
		{
			ID: "o1", DomainID: 2, DomainCname: "opendata-demo.socrata.com",
			Datatype: "dataset", Name: "Parking Meter Transactions",
			Description: "Hourly meter revenue",
			Categories:  []string{"Transportation"}, Tags: []string{"parking"},
			IsDefaultView: true, IsModerationApproved: true, PageViewsTotal: 180,
		},

		// blue.org: moderated. Default view that was never approved.
		{
			ID: "b1", DomainID: 3, DomainCname: "blue.org",
			Datatype: "dataset", Name: "Water Quality Samples",
			Description: "River monitoring stations",
			Categories:  []string{"Environment"}, Tags: []string{"water"},
			IsDefaultView: true, PageViewsTotal: 77,
		},

		// annabelle.island.net: moderated with routing approval. One document
		// routing-approved, one not.
		{
			ID: "a1", DomainID: 4, DomainCname: "annabelle.island.net",
			Datatype: "dataset", Name: "Island Ferry Schedule",
			Description: "Seasonal ferry departures",
			Categories:  []string{"Transportation"}, Tags: []string{"ferry"},
			IsDefaultView: true, IsModerationApproved: true, IsRoutingApproved: true,
			PageViewsTotal: 260,
		},
		{
			ID: "a2", DomainID: 4, DomainCname: "annabelle.island.net",
			Datatype: "map", Name: "Harbor Depth Soundings",
			Description: "Bathymetric survey",
			Categories:  []string{"Environment"}, Tags: []string{"harbor"},
			IsModerationApproved: true, PageViewsTotal: 33,
		},

		// static.dev.socrata.net: not a customer domain. Never in the default
		// candidate set.
		{
			ID: "s1", DomainID: 5, DomainCname: "static.dev.socrata.net",
			Datatype: "dataset", Name: "Internal Build Artifacts",
			IsDefaultView: true, PageViewsTotal: 1,
		},

		// locked.demo.com: locked. Visible only with a granted role.
		{
			ID: "l1", DomainID: 6, DomainCname: "locked.demo.com",
			Datatype: "dataset", Name: "Restricted Payroll Extract",
			Categories: []string{"Finance"}, Tags: []string{"payroll"},
			IsDefaultView: true, PageViewsTotal: 5,
		},
	}
}
