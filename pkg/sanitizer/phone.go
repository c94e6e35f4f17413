package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// supportedRegions are the markets the platform operates in. They act as
// parsing hints for numbers written in a national format ("8 912 ...");
// numbers with an explicit +country prefix parse regardless of region.
var supportedRegions = []string{
	"RU",
	"KZ",
	"BY",
}

var reNonPhone = regexp.MustCompile(`[^0-9+]+`)

// SanitizePhone canonicalizes a phone number to E.164. Separators are
// stripped first, so "+7 (912) 345-67-89" and "89123456789" both come out
// as "+79123456789". Input that does not parse as a valid number for any
// supported region returns "", leaving rejection to the validator.
func SanitizePhone(phone string) string {
	phone = reNonPhone.ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
