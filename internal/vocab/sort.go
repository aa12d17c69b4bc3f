package vocab

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	dayTopicPattern  = regexp.MustCompile(`(?i)^DAY\s*\d{1,2}$`)
	dayNumberPattern = regexp.MustCompile(`(?i)^DAY\s*0?(\d{1,2})$`)
)

// newCollator returns a Korean, numeric-aware collator. Collators keep
// internal buffers so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Korean, collate.Numeric)
}

func dayNumber(label string) int {
	match := dayNumberPattern.FindStringSubmatch(NormalizeText(label))
	if match == nil {
		return math.MaxInt
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return math.MaxInt
	}
	return n
}

func isDayTopic(label string) bool {
	return dayTopicPattern.MatchString(NormalizeText(label))
}

// SortLabels orders labels by locale-aware collation. The input is not modified.
func SortLabels(labels []string) []string {
	out := append([]string(nil), labels...)
	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(NormalizeText(out[i]), NormalizeText(out[j])) < 0
	})
	return out
}

// SortTopics puts DAY labels first in numeric order, then the rest by collation.
func SortTopics(labels []string) []string {
	out := append([]string(nil), labels...)
	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := dayNumber(out[i]), dayNumber(out[j])
		if a != b {
			return a < b
		}
		return col.CompareString(NormalizeText(out[i]), NormalizeText(out[j])) < 0
	})
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
