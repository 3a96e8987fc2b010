// Package charset guesses the text encoding of fetched markup and decodes it
// to UTF-8. hh.ru does not reliably announce a charset, so detection is
// statistical and every failure path degrades to treating the bytes as UTF-8.
package charset

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const fallback = "utf-8"

// Detect returns the best-guess encoding label for raw markup bytes.
// Empty or undetectable input yields the UTF-8 fallback rather than an error.
func Detect(raw []byte) string {
	if len(raw) == 0 {
		return fallback
	}
	result, err := chardet.NewHtmlDetector().DetectBest(raw)
	if err != nil || result == nil || result.Charset == "" {
		return fallback
	}
	return strings.ToLower(result.Charset)
}

// Decode converts raw bytes to a UTF-8 string using the given encoding label.
// An unknown label or a decode failure falls back to interpreting the bytes
// as UTF-8; a wrong guess degrades text quality but never fails.
func Decode(raw []byte, label string) string {
	if len(raw) == 0 {
		return ""
	}
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(label)))
	if err != nil || enc == nil {
		return string(raw)
	}
	if enc == unicode.UTF8 {
		return string(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
