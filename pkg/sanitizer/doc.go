// Package sanitizer normalizes guest-supplied reservation input before it is
// validated and stored.
//
// All functions are idempotent and never fail: input that cannot be
// normalized is returned as an empty string (phone) or left for the
// validator to reject.
//
// Normalization includes:
//   - Names and free text: collapse whitespace, trim leading/trailing spaces
//   - Emails: trim and lowercase
//   - Phone numbers: convert to E.164 format (+[country][number])
package sanitizer
