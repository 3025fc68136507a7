package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims s and collapses every run of whitespace, including
// tabs and newlines, into one space.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

var namePipeline = Pipeline{
	TrimAndNormalize,
}

func NormalizeName(name string) string {
	return namePipeline.Apply(name)
}

var codePipeline = Pipeline{
	TrimAndNormalize,
	strings.ToUpper,
	func(s string) string { return strings.ReplaceAll(s, " ", "_") },
}

// NormalizeCode turns an enum-like value such as " karaoke room" into
// "KARAOKE_ROOM".
func NormalizeCode(code string) string {
	return codePipeline.Apply(code)
}
