// Package parquet encodes projected rows as a snappy-compressed parquet file
package parquet

import (
	"bytes"
	"io"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"

	pq "github.com/parquet-go/parquet-go"
)

// Columns lists the file's columns in schema order
var Columns = []string{"question", "context", "answers"}

// Encode writes rows as one parquet file to w
func Encode(w io.Writer, rows []qa.Row) error {
	pw := pq.NewGenericWriter[qa.Row](w, pq.Compression(&pq.Snappy))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			_ = pw.Close()
			return perr.Wrap(err, perr.ErrorCodeIO, "parquet write")
		}
	}
	if err := pw.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "parquet close")
	}
	return nil
}

// EncodeBytes returns the parquet file for rows, built in memory
func EncodeBytes(rows []qa.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads every row of a parquet file
func Decode(r io.ReaderAt, size int64) ([]qa.Row, error) {
	rows, err := pq.Read[qa.Row](r, size)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "parquet read")
	}
	return rows, nil
}

// DecodeBytes is Decode over an in-memory file
func DecodeBytes(b []byte) ([]qa.Row, error) {
	return Decode(bytes.NewReader(b), int64(len(b)))
}
