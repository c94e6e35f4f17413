package locale

import "strings"

// InferCountryFromPhone matches the phone against every country prefix and
// returns the country with the longest match, so "+77012345678" resolves
// to KZ even though RU claims the shorter "+7". Returns nil when nothing
// matches.
func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)
	if normalized == "" {
		return nil
	}

	var best *Country
	bestLen := 0

	for code := range Countries {
		country := Countries[code]
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) && len(prefix) > bestLen {
				c := country
				best = &c
				bestLen = len(prefix)
			}
		}
	}

	return best
}

// InferTimezoneFromPhone returns the default timezone of the phone's
// country, or UTC when the number belongs to none of the supported
// markets. Downstream notifiers use it to pick send windows.
func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}
