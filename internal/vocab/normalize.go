package vocab

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText is the single text rule used for ids, topic matching, answer
// comparison and distractor uniqueness.
func NormalizeText(value string) string {
	if value == "" {
		return ""
	}

	value = strings.ReplaceAll(value, "\uFEFF", "")
	value = norm.NFKC.String(value)
	value = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return ' '
		}
		return r
	}, value)

	return strings.Join(strings.Fields(value), " ")
}

func normalizeKey(value string) string {
	return strings.ToLower(NormalizeText(value))
}

func CardID(book BookKey, chapter, topic, word, meaning string) string {
	parts := []string{string(book), chapter, topic, word, meaning}
	for idx, part := range parts {
		parts[idx] = normalizeKey(part)
	}
	return strings.Join(parts, "|")
}
