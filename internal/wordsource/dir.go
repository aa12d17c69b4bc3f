package wordsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vocab-exam/internal/vocab"
)

var fileNames = map[vocab.BookKey]string{
	vocab.BookEtymology: "root.csv",
	vocab.BookBasic:     "DB-basic.csv",
	vocab.BookAdvanced:  "DB-advanced.csv",
}

func FileName(book vocab.BookKey) (string, error) {
	name, ok := fileNames[book]
	if !ok {
		return "", fmt.Errorf("%w: %q", vocab.ErrUnsupportedBook, book)
	}
	return name, nil
}

// Dir reads book CSV files from a local directory.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) FetchRows(ctx context.Context, book vocab.BookKey) ([]vocab.Row, error) {
	name, err := FileName(book)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(f)
}
