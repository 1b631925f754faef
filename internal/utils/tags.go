package utils

import "regexp"

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	shortcodePattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// RemoveTags remove tags HTML e shortcodes no formato [...] de um texto.
// Exemplo: "<b>hi</b> [shortcode]" -> "hi "
func RemoveTags(text string) string {
	if text == "" {
		return ""
	}

	stripped := htmlTagPattern.ReplaceAllString(text, "")
	return shortcodePattern.ReplaceAllString(stripped, "")
}
