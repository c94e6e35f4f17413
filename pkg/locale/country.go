package locale

const (
	DefaultTimezone = "UTC"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "RU", "KZ")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Phone prefixes, international and trunk forms
	DefaultTimezone string   // IANA timezone identifier (e.g., "Europe/Moscow")
}

// Countries covers the markets the platform operates in. RU and KZ share
// the +7 country code, so KZ lists the longer +77/87 mobile prefixes and
// detection picks the longest matching prefix.
var Countries = map[string]Country{
	"RU": {
		Code:            "RU",
		Name:            "Russia",
		PhonePrefixes:   []string{"+7", "7", "8"},
		DefaultTimezone: "Europe/Moscow",
	},
	"KZ": {
		Code:            "KZ",
		Name:            "Kazakhstan",
		PhonePrefixes:   []string{"+77", "77", "87"},
		DefaultTimezone: "Asia/Almaty",
	},
	"BY": {
		Code:            "BY",
		Name:            "Belarus",
		PhonePrefixes:   []string{"+375", "375", "80"},
		DefaultTimezone: "Europe/Minsk",
	},
}
