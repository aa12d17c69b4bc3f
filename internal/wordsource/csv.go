package wordsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"vocab-exam/internal/vocab"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a header row followed by data rows. Empty lines are skipped
// but rows of empty cells are kept, since day books index rows by position.
// Short rows leave the missing columns empty and extra cells are dropped.
func ParseCSV(r io.Reader) ([]vocab.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []vocab.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []vocab.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		row := make(vocab.Row, len(header))
		for idx, name := range header {
			if _, exists := row[name]; exists {
				continue
			}
			if idx < len(record) {
				row[name] = record[idx]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []vocab.Row{}
	}
	return rows, nil
}
