// Package phone exposes libphonenumber region metadata as national number
// matchers.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// SupportedRegions returns the ISO 3166-1 region codes libphonenumber has
// metadata for, sorted.
func SupportedRegions() []string {
	supported := phonenumbers.GetSupportedRegions()
	regions := make([]string, 0, len(supported))
	for region := range supported {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// IsSupportedRegion reports whether libphonenumber has metadata for region.
func IsSupportedRegion(region string) bool {
	return phonenumbers.GetSupportedRegions()[region]
}

// RegionMatcher accepts numbers written in the national format of one region.
type RegionMatcher struct {
	region string
}

// NewRegionMatcher returns a matcher for region.
func NewRegionMatcher(region string) RegionMatcher {
	return RegionMatcher{region: region}
}

// Region returns the region code the matcher checks against.
func (m RegionMatcher) Region() string {
	return m.region
}

// MatchString reports whether s parses as a valid number of the region.
// Numbers written with a leading '+' are international, not national, and
// never match.
func (m RegionMatcher) MatchString(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.HasPrefix(trimmed, "+") {
		return false
	}

	number, err := phonenumbers.Parse(trimmed, m.region)
	if err != nil {
		return false
	}

	return phonenumbers.IsValidNumberForRegion(number, m.region)
}
