package countries

import (
	"fmt"

	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/phone"
)

// LibPhoneNumber is a registry over libphonenumber's region metadata. A
// value matches a country when it parses as a valid number of that region.
type LibPhoneNumber struct {
	regions []string
	known   map[string]struct{}
}

var _ phonenumber.Registry = (*LibPhoneNumber)(nil)

// NewLibPhoneNumber snapshots the supported regions.
func NewLibPhoneNumber() *LibPhoneNumber {
	regions := phone.SupportedRegions()
	known := make(map[string]struct{}, len(regions))
	for _, region := range regions {
		known[region] = struct{}{}
	}
	return &LibPhoneNumber{regions: regions, known: known}
}

func (r *LibPhoneNumber) HasCountry(id string) bool {
	_, ok := r.known[id]
	return ok
}

func (r *LibPhoneNumber) Pattern(id string) (phonenumber.Pattern, error) {
	if !r.HasCountry(id) {
		return nil, apperr.NotFound(fmt.Sprintf("country %q not found", id))
	}
	return phone.NewRegionMatcher(id), nil
}

func (r *LibPhoneNumber) Countries() []string {
	return append([]string(nil), r.regions...)
}
