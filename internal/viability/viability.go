// Package viability decides whether an author is plausibly alive and
// active enough to have a personal website worth searching for. The
// decision is a strict rule tree over biographical and publication
// dates; there is no numeric blending.
package viability

import "time"

// Reason codes for viability decisions. These are part of the HTTP
// response contract and must stay stable.
const (
	ReasonDeceasedPreWebEra         = "deceased_pre_web_era"
	ReasonDeceasedEstateNotAllowed  = "deceased_estate_sites_not_allowed"
	ReasonDeceasedEstatePossible    = "deceased_estate_site_possible"
	ReasonLikelyLivingAuthor        = "likely_living_author"
	ReasonPubPre1900                = "pub_pre_1900"
	ReasonEstateEraPubAllowed       = "estate_era_pub_allowed"
	ReasonEstateEraPubNotAllowed    = "estate_era_pub_not_allowed"
	ReasonCautiousMidCenturyPub     = "cautious_mid_century_pub"
	ReasonLikelyLivingRecentPub     = "likely_living_recent_pub"
	ReasonUnknownLifeAndPubYear     = "unknown_life_and_pubyear_not_confident"
)

// Year boundaries of the rule tree. The web era starts at 1995; an
// author dead before then never had a personal site. Deaths between
// 1995 and 2005 sit in an estate-site gray zone.
const (
	webEraYear       = 1995
	estateCutoffYear = 2005
	oldestPubYear    = 1900
	midCenturyYear   = 1950
	maxPlausibleAge  = 120
)

// Result is a viability decision with its reason code.
type Result struct {
	Viable bool
	Reason string
}

// Evaluate runs the rule tree. Death date dominates birth date, which
// dominates publication year, which dominates "unknown". allowEstate
// permits estate-maintained sites for recently deceased authors.
func Evaluate(birthYear, deathYear, pubYear *int, allowEstate bool, now time.Time) Result {
	if deathYear != nil {
		return evaluateDeath(*deathYear, allowEstate)
	}

	if birthYear != nil {
		age := now.Year() - *birthYear
		if age >= 0 && age < maxPlausibleAge {
			return Result{Viable: true, Reason: ReasonLikelyLivingAuthor}
		}
		// An implausible birth year is treated as no birth signal at
		// all; fall through to the publication-year rules.
	}

	if pubYear != nil {
		return evaluatePubYear(*pubYear, allowEstate)
	}

	return Result{Viable: false, Reason: ReasonUnknownLifeAndPubYear}
}

func evaluateDeath(deathYear int, allowEstate bool) Result {
	if deathYear < webEraYear {
		return Result{Viable: false, Reason: ReasonDeceasedPreWebEra}
	}
	if deathYear < estateCutoffYear && !allowEstate {
		return Result{Viable: false, Reason: ReasonDeceasedEstateNotAllowed}
	}
	if allowEstate {
		return Result{Viable: true, Reason: ReasonDeceasedEstatePossible}
	}
	return Result{Viable: false, Reason: ReasonDeceasedEstateNotAllowed}
}

func evaluatePubYear(pubYear int, allowEstate bool) Result {
	switch {
	case pubYear < oldestPubYear:
		return Result{Viable: false, Reason: ReasonPubPre1900}
	case pubYear < midCenturyYear:
		if allowEstate {
			return Result{Viable: true, Reason: ReasonEstateEraPubAllowed}
		}
		return Result{Viable: false, Reason: ReasonEstateEraPubNotAllowed}
	case pubYear < webEraYear:
		return Result{Viable: true, Reason: ReasonCautiousMidCenturyPub}
	default:
		return Result{Viable: true, Reason: ReasonLikelyLivingRecentPub}
	}
}
