package vocab

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "bom and padding", in: "\uFEFF  abduct  ", want: "abduct"},
		{name: "control characters", in: "ab\tc\x00d\x7fe", want: "ab c d e"},
		{name: "whitespace runs", in: "take \n\n  off", want: "take off"},
		{name: "fullwidth folds", in: "ｆｕｌｌ", want: "full"},
		{name: "korean untouched", in: "유괴하다", want: "유괴하다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Fatalf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	for _, in := range []string{" A  b ", "\uFEFFｆｕｌｌ\t", "유괴\r\n하다"} {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Fatalf("NormalizeText not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCardIDExample(t *testing.T) {
	got := CardID(BookEtymology, "ch1", "toc1", "Abduct", "유괴하다")
	want := "etymology|ch1|toc1|abduct|유괴하다"
	if got != want {
		t.Fatalf("CardID = %q, want %q", got, want)
	}
}

func TestCardIDIgnoresSpacingAndCase(t *testing.T) {
	a := CardID(BookBasic, "DAY", "DAY 01", "  Run ", "달리다")
	b := CardID(BookBasic, "day", "DAY  01", "run", "\uFEFF달리다")
	if a != b {
		t.Fatalf("expected equal ids, got %q and %q", a, b)
	}
}

func TestCardIDDistinctForDistinctTuples(t *testing.T) {
	books := []BookKey{BookEtymology, BookBasic, BookAdvanced}
	topics := []string{"접두사", "어근", "DAY 01", "DAY 12", "toc"}
	meanings := []string{"유괴하다", "고수하다", "삼가다", "행동", "형성하다, 만들다"}

	seen := make(map[string]string)
	for _, book := range books {
		for chapter := 0; chapter < 4; chapter++ {
			for topicIdx, topic := range topics {
				for word := 0; word < 20; word++ {
					for meaningIdx, meaning := range meanings {
						tuple := fmt.Sprintf("%s/%d/%d/%d/%d", book, chapter, topicIdx, word, meaningIdx)
						id := CardID(book, fmt.Sprintf("ch%d", chapter), topic, fmt.Sprintf("w%d", word), fmt.Sprintf("%s %d", meaning, word%3))
						if prev, ok := seen[id]; ok {
							t.Fatalf("id %q shared by %s and %s", id, prev, tuple)
						}
						seen[id] = tuple
					}
				}
			}
		}
	}
	if want := len(books) * 4 * len(topics) * 20 * len(meanings); len(seen) != want {
		t.Fatalf("got %d ids, want %d", len(seen), want)
	}
}

func TestParseBookKey(t *testing.T) {
	tests := []struct {
		in      string
		want    BookKey
		wantErr bool
	}{
		{in: "etymology", want: BookEtymology},
		{in: " Basic ", want: BookBasic},
		{in: "ADVANCED", want: BookAdvanced},
		{in: "toeic", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBookKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedBook) {
				t.Fatalf("ParseBookKey(%q) error = %v, want ErrUnsupportedBook", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBookKey(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBookKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortTopicsPutsDaysFirstNumerically(t *testing.T) {
	got := SortTopics([]string{"접두사", "DAY 10", "DAY 2", "어근", "DAY 01"})
	want := []string{"DAY 01", "DAY 2", "DAY 10", "어근", "접두사"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("SortTopics = %q, want %q", got, want)
	}
}

func TestSortLabelsNumericAware(t *testing.T) {
	got := SortLabels([]string{"Part 10", "Part 2", "Part 1"})
	want := []string{"Part 1", "Part 2", "Part 10"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("SortLabels = %q, want %q", got, want)
	}
}
