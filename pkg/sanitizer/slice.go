package sanitizer

// SanitizeSlice runs every element through the strategy, dropping empties
// and duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	if len(values) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(values))

	for _, v := range values {
		s := strategy(v)

		if s == "" {
			continue
		}

		if seen[s] {
			continue
		}

		seen[s] = true
		result = append(result, s)
	}

	return result
}
