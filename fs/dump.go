// Package fs provides file access for dumps, outputs and error logs.
package fs

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"os"
	"sync/atomic"
)

// bzip2Magic starts every bzip2 stream.
var bzip2Magic = []byte("BZh")

// Dump is an opened dump file. Reads return decompressed XML; Offset and
// Size are measured on the file itself, so progress on a compressed dump
// tracks compressed bytes.
type Dump struct {
	f    *os.File
	r    io.Reader
	n    atomic.Int64
	size int64
}

// OpenDump opens the dump at path. Files starting with the bzip2 magic are
// decompressed on the fly.
func OpenDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	d := &Dump{f: f, size: info.Size()}
	br := bufio.NewReader(&countingReader{r: f, n: &d.n})
	magic, _ := br.Peek(len(bzip2Magic))
	if bytes.Equal(magic, bzip2Magic) {
		d.r = bzip2.NewReader(br)
	} else {
		d.r = br
	}
	return d, nil
}

// Read implements io.Reader.
func (d *Dump) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

// Offset returns the number of bytes read from the file so far.
func (d *Dump) Offset() int64 {
	return d.n.Load()
}

// Size returns the size of the file.
func (d *Dump) Size() int64 {
	return d.size
}

// Close closes the file.
func (d *Dump) Close() error {
	return d.f.Close()
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}
