package usecase

import "strings"

// Region is a supported store region and its currency
type Region struct {
	Code     string
	Currency string
}

// RegionAU is the only region served by Bunnings
var RegionAU = Region{Code: "AU", Currency: "AUD"}

var (
	exactTimezones = map[string]Region{
		"Pacific/Auckland": {Code: "NZ", Currency: "NZD"},
		"Pacific/Chatham":  {Code: "NZ", Currency: "NZD"},

		"Europe/London":  {Code: "GB", Currency: "GBP"},
		"Europe/Belfast": {Code: "GB", Currency: "GBP"},

		"Asia/Kolkata":  {Code: "IN", Currency: "INR"},
		"Asia/Calcutta": {Code: "IN", Currency: "INR"},

		"America/Toronto":   {Code: "CA", Currency: "CAD"},
		"America/Vancouver": {Code: "CA", Currency: "CAD"},
		"America/Edmonton":  {Code: "CA", Currency: "CAD"},
		"America/Winnipeg":  {Code: "CA", Currency: "CAD"},
		"America/Halifax":   {Code: "CA", Currency: "CAD"},
		"America/St_Johns":  {Code: "CA", Currency: "CAD"},
		"America/Regina":    {Code: "CA", Currency: "CAD"},
	}

	// checked in order after the exact lookup
	prefixTimezones = []struct {
		prefix string
		region Region
	}{
		{"Australia/", RegionAU},
		{"Canada/", Region{Code: "CA", Currency: "CAD"}},
		{"America/", Region{Code: "US", Currency: "USD"}},
		{"US/", Region{Code: "US", Currency: "USD"}},
		{"Europe/", Region{Code: "EU", Currency: "EUR"}},
	}
)

// RegionForTimezone maps an IANA timezone to a region. ok is false when
// the timezone is empty or unknown, in which case AU is returned.
func RegionForTimezone(timezone string) (Region, bool) {
	tz := strings.TrimSpace(timezone)
	if tz == "" {
		return RegionAU, false
	}
	if region, found := exactTimezones[tz]; found {
		return region, true
	}
	for _, p := range prefixTimezones {
		if strings.HasPrefix(tz, p.prefix) {
			return p.region, true
		}
	}
	return RegionAU, false
}

// IsBunningsRegion reports whether timezone explicitly resolves to Australia
func IsBunningsRegion(timezone string) bool {
	region, ok := RegionForTimezone(timezone)
	return ok && region.Code == RegionAU.Code
}
