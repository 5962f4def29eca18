// Package json writes converted pages as a JSON array.
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/fwojciec/wikitree"
)

// Indent is the indentation of every record.
const Indent = "    "

// Ensure RecordWriter implements wikitree.RecordWriter at compile time.
var _ wikitree.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes records as the elements of one JSON array:
//
//	[
//	{
//	    "<title>": {
//	        "id": "<id>",
//	        "ns": "<ns>",
//	        "content": {...}
//	    }
//	},
//	...
//	]
//
// A missing page id is written as null. Non-ASCII and HTML characters are
// written literally.
type RecordWriter struct {
	mu      sync.Mutex
	w       io.Writer
	opened  bool
	closed  bool
	records int
}

// NewRecordWriter returns a RecordWriter writing to w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: w}
}

type body struct {
	ID      *string               `json:"id"`
	NS      string                `json:"ns"`
	Content *wikitree.SectionTree `json:"content"`
}

// MarshalRecord returns the indented JSON object for rec, without a
// trailing newline.
func MarshalRecord(rec *wikitree.Record) ([]byte, error) {
	b := body{NS: rec.Page.Namespace, Content: rec.Content}
	if rec.Page.ID != "" {
		id := rec.Page.ID
		b.ID = &id
	}
	if b.Content == nil {
		b.Content = wikitree.NewSectionTree()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(map[string]body{rec.Page.Title: b}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteRecord appends rec to the array.
func (w *RecordWriter) WriteRecord(ctx context.Context, rec *wikitree.Record) error {
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return wikitree.Errorf(wikitree.EINVALID, "record writer is closed")
	}
	if err := w.open(); err != nil {
		return err
	}
	if w.records > 0 {
		if _, err := io.WriteString(w.w, ",\n"); err != nil {
			return err
		}
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.records++
	return nil
}

// Records returns the number of records written.
func (w *RecordWriter) Records() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records
}

// Close terminates the array. It does not close the underlying writer.
func (w *RecordWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if err := w.open(); err != nil {
		return err
	}
	footer := "]\n"
	if w.records > 0 {
		footer = "\n]\n"
	}
	if _, err := io.WriteString(w.w, footer); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *RecordWriter) open() error {
	if w.opened {
		return nil
	}
	if _, err := io.WriteString(w.w, "[\n"); err != nil {
		return err
	}
	w.opened = true
	return nil
}
