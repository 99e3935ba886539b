// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSet() *DomainSet {
	return &DomainSet{
		Domains: []Domain{
			{ID: 4, Cname: "annabelle.island.net", ModerationEnabled: true, RoutingApprovalEnabled: true},
			{ID: 1, Cname: "petercetera.net"},
			{ID: 3, Cname: "blue.org", ModerationEnabled: true},
		},
	}
}

func TestDomainSetMapsAreInverses(t *testing.T) {
	ds := testSet()

	idCname := ds.IDCnameMap()
	cnameID := ds.CnameIDMap()

	assert.Len(t, idCname, 3)
	assert.Len(t, cnameID, 3)
	for id, cname := range idCname {
		assert.Equal(t, id, cnameID[cname])
	}
}

func TestDomainSetIDsAndCnamesAreSorted(t *testing.T) {
	ds := testSet()

	assert.Equal(t, []int{1, 3, 4}, ds.IDs())
	assert.Equal(t, []string{"annabelle.island.net", "blue.org", "petercetera.net"}, ds.Cnames())
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name                string
		set                 *DomainSet
		wantAll             []int
		wantModerated       []int
		wantUnmoderated     []int
		wantRoutingDisabled []int
	}{
		{
			name:                "mixed set",
			set:                 testSet(),
			wantAll:             []int{1, 3, 4},
			wantModerated:       []int{3, 4},
			wantUnmoderated:     []int{1},
			wantRoutingDisabled: []int{1, 3},
		},
		{
			name:                "empty set partitions to empty slices",
			set:                 &DomainSet{},
			wantAll:             []int{},
			wantModerated:       []int{},
			wantUnmoderated:     []int{},
			wantRoutingDisabled: []int{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.set.Partition()

			assert.Equal(t, tc.wantAll, p.AllIDs)
			assert.Equal(t, tc.wantModerated, p.ModeratedIDs)
			assert.Equal(t, tc.wantUnmoderated, p.UnmoderatedIDs)
			assert.Equal(t, tc.wantRoutingDisabled, p.RoutingDisabledIDs)
		})
	}
}

func TestVisibilityDecisionDomainSet(t *testing.T) {
	context := &Domain{ID: 1, Cname: "petercetera.net"}
	decision := &VisibilityDecision{
		Context: context,
		Domains: []Domain{*context},
	}

	ds := decision.DomainSet()
	assert.Equal(t, context, ds.Context)
	assert.Equal(t, decision.Domains, ds.Domains)
}
