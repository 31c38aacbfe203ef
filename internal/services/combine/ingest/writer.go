package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/services/combine/domain"
)

// DatasetWriter streams {"version","data":[...]} to path+".part" and renames it onto path on Close.
// Output bytes equal indenting the whole document with two spaces, no HTML escaping
// and U+2028/U+2029 kept literal like every other non-ASCII character
type DatasetWriter struct {
	path string
	tmp  string
	f    *os.File
	bw   *bufio.Writer

	buf bytes.Buffer
	enc *json.Encoder

	n    int
	done bool
}

// record indentation inside "data": [...]
const (
	itemPrefix = "    "
	indentUnit = "  "
)

// CreateDataset opens the temp file and writes the document header
func CreateDataset(path string) (*DatasetWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeIO, "mkdir %s", dir)
		}
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "create %s", tmp)
	}

	w := &DatasetWriter{path: path, tmp: tmp, f: f, bw: bufio.NewWriter(f)}
	w.enc = json.NewEncoder(&w.buf)
	w.enc.SetEscapeHTML(false)
	w.enc.SetIndent(itemPrefix, indentUnit)

	version, _ := json.Marshal(qa.DatasetVersion)
	if _, err := w.bw.WriteString("{\n" + indentUnit + `"version": ` + string(version) + ",\n" + indentUnit + `"data": [`); err != nil {
		_ = w.Abort()
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "write header")
	}
	return w, nil
}

// Write appends recs in order
func (w *DatasetWriter) Write(recs []qa.Record) error {
	if w.done {
		return perr.New(perr.ErrorCodeIO, "dataset writer closed")
	}
	for i := range recs {
		w.buf.Reset()
		if err := w.enc.Encode(&recs[i]); err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode record")
		}
		sep := ","
		if w.n == 0 {
			sep = ""
		}
		if _, err := w.bw.WriteString(sep + "\n" + itemPrefix); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write record")
		}
		if _, err := w.bw.Write(literalSeparators(bytes.TrimSuffix(w.buf.Bytes(), []byte("\n")))); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write record")
		}
		w.n++
	}
	return nil
}

// literalSeparators undoes encoding/json's \u2028 and \u2029 escapes. A
// backslash always opens an escape in encoder output, so pairs are skipped
// whole and an escaped backslash followed by "u2028" is left alone
func literalSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		switch seq := b[i:min(i+6, len(b))]; {
		case bytes.Equal(seq, []byte(`\u2028`)):
			out = append(out, "\u2028"...)
			i += 5
			continue
		case bytes.Equal(seq, []byte(`\u2029`)):
			out = append(out, "\u2029"...)
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// Count returns the records written so far
func (w *DatasetWriter) Count() int { return w.n }

// Close writes the footer, syncs and renames the temp file onto the output path
func (w *DatasetWriter) Close() error {
	if w.done {
		return nil
	}
	footer := "]\n}\n"
	if w.n > 0 {
		footer = "\n" + indentUnit + footer
	}
	if _, err := w.bw.WriteString(footer); err != nil {
		_ = w.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "write footer")
	}
	if err := w.bw.Flush(); err != nil {
		_ = w.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "flush")
	}
	if err := w.f.Sync(); err != nil {
		_ = w.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "sync")
	}
	if err := w.f.Close(); err != nil {
		_ = w.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "close")
	}
	w.done = true
	if err := os.Rename(w.tmp, w.path); err != nil {
		_ = os.Remove(w.tmp)
		return perr.Wrapf(err, perr.ErrorCodeIO, "rename onto %s", w.path)
	}
	return nil
}

// Abort drops the temp file; the previous output, if any, is left untouched
func (w *DatasetWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	_ = w.f.Close()
	if err := os.Remove(w.tmp); err != nil && !os.IsNotExist(err) {
		return perr.Wrap(err, perr.ErrorCodeIO, "remove temp")
	}
	return nil
}

// Files creates DatasetWriters
type Files struct{}

// Create implements domain.WriterFactory
func (Files) Create(path string) (domain.RecordWriter, error) {
	w, err := CreateDataset(path)
	if err != nil {
		return nil, err
	}
	return w, nil
}
