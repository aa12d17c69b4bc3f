package vocab

import (
	"fmt"
	"sort"
)

type column int

const (
	colDayWord column = iota
	colDayMeaning
	colChapter
	colTopic
	colWord
	colMeaning
	colDerivativeWord
	colDerivativeMeaning
)

// Header aliases per logical column, in lookup order. Derivative entries are
// format templates taking the 1-based derivative index.
var columnAliases = map[column][]string{
	colDayWord:           {"단어", "word"},
	colDayMeaning:        {"의미", "meaning", "뜻"},
	colChapter:           {"chapter", "챕터", "대분류"},
	colTopic:             {"toc", "목차", "소분류"},
	colWord:              {"word", "단어"},
	colMeaning:           {"meaning", "의미", "뜻"},
	colDerivativeWord:    {"파생어%d", "파생어 %d", "derivative%d"},
	colDerivativeMeaning: {"파생어%d 뜻", "파생어 %d 뜻", "derivative%d meaning"},
}

func aliasesFor(col column, index int) []string {
	aliases := columnAliases[col]
	if col != colDerivativeWord && col != colDerivativeMeaning {
		return aliases
	}
	out := make([]string, len(aliases))
	for idx, alias := range aliases {
		out[idx] = fmt.Sprintf(alias, index)
	}
	return out
}

// rowView resolves logical columns against one raw row.
type rowView struct {
	raw        Row
	normalized map[string]string
}

func newRowView(raw Row) rowView {
	headers := make([]string, 0, len(raw))
	for header := range raw {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	normalized := make(map[string]string, len(raw))
	for _, header := range headers {
		key := normalizeKey(header)
		if _, ok := normalized[key]; !ok {
			normalized[key] = raw[header]
		}
	}
	return rowView{raw: raw, normalized: normalized}
}

func (v rowView) field(col column, index int) string {
	aliases := aliasesFor(col, index)
	for _, alias := range aliases {
		for _, header := range []string{alias, "\uFEFF" + alias} {
			if value := NormalizeText(v.raw[header]); value != "" {
				return value
			}
		}
	}
	for _, alias := range aliases {
		if value := NormalizeText(v.normalized[normalizeKey(alias)]); value != "" {
			return value
		}
	}
	return ""
}
