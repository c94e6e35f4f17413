// Package sanitizer provides input normalization for client-submitted data.
//
// All functions are idempotent - applying them twice produces the same
// result. They handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors; rejecting bad values
// stays the job of the validator.
//
// The package is shared across services so every write path normalizes
// the same way:
//   - Phone numbers: canonicalize to E.164 (+[country][number])
//   - Names and car descriptions: collapse whitespace, strip control runes
//   - Descriptions: collapse whitespace per line, keep paragraph breaks
//   - Slugs: lowercase, non-alphanumeric runs become single hyphens
//   - Slices: drop duplicates and empties after normalization
package sanitizer
