package vocab

import "fmt"

type BookKey string

const (
	BookEtymology BookKey = "etymology"
	BookBasic     BookKey = "basic"
	BookAdvanced  BookKey = "advanced"
)

var bookKeys = []BookKey{BookEtymology, BookBasic, BookAdvanced}

func BookKeys() []BookKey {
	out := make([]BookKey, len(bookKeys))
	copy(out, bookKeys)
	return out
}

func ParseBookKey(value string) (BookKey, error) {
	normalized := BookKey(normalizeKey(value))
	for _, key := range bookKeys {
		if key == normalized {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBook, value)
}

// SupportsDerivatives reports whether rows of this book carry derivative
// word/meaning columns. Only the day-based books do.
func (b BookKey) SupportsDerivatives() bool {
	return b == BookBasic || b == BookAdvanced
}

// HasChapters reports whether the chapter dimension is meaningful for scope
// selection.
func (b BookKey) HasChapters() bool {
	return b == BookEtymology
}
