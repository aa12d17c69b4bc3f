package quiz

import "io"

// ClipboardSink receives text the user asked to copy. It reports whether the
// copy succeeded.
type ClipboardSink interface {
	CopyText(text string) bool
}

// WriterSink "copies" by writing the text to W, one block per call.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) CopyText(text string) bool {
	if s.W == nil || text == "" {
		return false
	}
	_, err := io.WriteString(s.W, text+"\n")
	return err == nil
}
