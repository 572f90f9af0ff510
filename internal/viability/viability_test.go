package viability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestEvaluate_RuleTree(t *testing.T) {
	cases := []struct {
		name        string
		birth       *int
		death       *int
		pub         *int
		allowEstate bool
		wantViable  bool
		wantReason  string
	}{
		{
			name: "deceased pre web era", death: intp(1980),
			wantViable: false, wantReason: ReasonDeceasedPreWebEra,
		},
		{
			name: "deceased pre web era even with estate allowed", death: intp(1994), allowEstate: true,
			wantViable: false, wantReason: ReasonDeceasedPreWebEra,
		},
		{
			name: "estate gray zone disallowed", death: intp(2000),
			wantViable: false, wantReason: ReasonDeceasedEstateNotAllowed,
		},
		{
			name: "estate gray zone allowed", death: intp(2000), allowEstate: true,
			wantViable: true, wantReason: ReasonDeceasedEstatePossible,
		},
		{
			name: "recent death estate allowed", death: intp(2016), allowEstate: true,
			wantViable: true, wantReason: ReasonDeceasedEstatePossible,
		},
		{
			name: "recent death estate disallowed", death: intp(2016),
			wantViable: false, wantReason: ReasonDeceasedEstateNotAllowed,
		},
		{
			name: "likely living author", birth: intp(now.Year() - 40),
			wantViable: true, wantReason: ReasonLikelyLivingAuthor,
		},
		{
			name: "implausible birth year falls through to unknown", birth: intp(1500),
			wantViable: false, wantReason: ReasonUnknownLifeAndPubYear,
		},
		{
			name: "implausible birth year falls through to pub year", birth: intp(1500), pub: intp(2010),
			wantViable: true, wantReason: ReasonLikelyLivingRecentPub,
		},
		{
			name: "death dominates birth", birth: intp(now.Year() - 40), death: intp(1980),
			wantViable: false, wantReason: ReasonDeceasedPreWebEra,
		},
		{
			name: "pub pre 1900", pub: intp(1849),
			wantViable: false, wantReason: ReasonPubPre1900,
		},
		{
			name: "estate era pub disallowed", pub: intp(1920),
			wantViable: false, wantReason: ReasonEstateEraPubNotAllowed,
		},
		{
			name: "estate era pub allowed", pub: intp(1920), allowEstate: true,
			wantViable: true, wantReason: ReasonEstateEraPubAllowed,
		},
		{
			name: "cautious mid century pub", pub: intp(1970),
			wantViable: true, wantReason: ReasonCautiousMidCenturyPub,
		},
		{
			name: "recent pub", pub: intp(2018),
			wantViable: true, wantReason: ReasonLikelyLivingRecentPub,
		},
		{
			name:       "nothing known",
			wantViable: false, wantReason: ReasonUnknownLifeAndPubYear,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.birth, tc.death, tc.pub, tc.allowEstate, now)
			assert.Equal(t, tc.wantViable, got.Viable)
			assert.Equal(t, tc.wantReason, got.Reason)
		})
	}
}
