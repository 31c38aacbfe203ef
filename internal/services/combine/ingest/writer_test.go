package ingest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"qabundle/internal/core/qa"
	kit "qabundle/internal/platform/testkit"
)

// indentWhole renders the document in one shot for comparison
func indentWhole(t *testing.T, recs []qa.Record) string {
	t.Helper()
	if recs == nil {
		recs = []qa.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(qa.Dataset{Version: qa.DatasetVersion, Data: recs}); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func writeAll(t *testing.T, path string, batches ...[]qa.Record) {
	t.Helper()
	w, err := CreateDataset(path)
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	for _, b := range batches {
		if err := w.Write(b); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDatasetWriter_MatchesWholeDocumentIndent(t *testing.T) {
	a := []qa.Record{
		{ID: "a1", Title: "Chapter <One> & Two", Context: "Arthur", Question: "Who?", Answers: []string{"Arthur", "the king"}},
		{ID: "a2", Context: "Þórr", Question: "Welcher Gott?", Answers: []string{"Þórr"}},
	}
	b := []qa.Record{{ID: "1", Context: "A1", Question: "Q1?", Answers: []string{"A1"}}}

	path := filepath.Join(t.TempDir(), "out", "combined.json")
	writeAll(t, path, a, nil, b)

	got := kit.ReadFile(t, path)
	want := indentWhole(t, append(append([]qa.Record{}, a...), b...))
	if got != want {
		t.Fatalf("streamed output differs\n--- got\n%s\n--- want\n%s", got, want)
	}
	kit.MustContain(t, got, "Þórr")
	kit.MustContain(t, got, "<One> & Two")
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestDatasetWriter_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.json")
	writeAll(t, path)
	got := kit.ReadFile(t, path)
	if got != indentWhole(t, nil) {
		t.Fatalf("empty output = %q", got)
	}
	kit.MustContain(t, got, `"data": []`)
}

func TestDatasetWriter_AbortKeepsPreviousOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.json")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := CreateDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]qa.Record{{ID: "x", Answers: []string{"y"}}}); err != nil {
		t.Fatal(err)
	}
	if w.Count() != 1 {
		t.Fatalf("Count = %d", w.Count())
	}
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if got := kit.ReadFile(t, path); got != "previous" {
		t.Fatalf("previous output clobbered: %q", got)
	}
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
	if err := w.Write(nil); err == nil {
		t.Fatalf("write after abort should fail")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close after Abort should be a no-op: %v", err)
	}
}

func TestDatasetWriter_RoundTrip(t *testing.T) {
	recs := []qa.Record{
		{ID: "q1", Context: "C", Question: "Q?", Answers: []string{"A", "B", "C"}},
		{ID: "q2", Title: "T", Context: "", Question: "", Answers: []string{""}},
	}
	path := filepath.Join(t.TempDir(), "combined.json")
	writeAll(t, path, recs)

	var ds qa.Dataset
	if err := json.Unmarshal([]byte(kit.ReadFile(t, path)), &ds); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ds.Version != "1.0" || ds.Len() != 2 {
		t.Fatalf("ds = %+v", ds)
	}
	for i := range recs {
		got, want := ds.Data[i], recs[i]
		if got.ID != want.ID || got.Title != want.Title || got.Context != want.Context || got.Question != want.Question {
			t.Fatalf("record %d = %+v, want %+v", i, got, want)
		}
		if len(got.Answers) != len(want.Answers) {
			t.Fatalf("record %d answers = %v", i, got.Answers)
		}
		for j := range want.Answers {
			if got.Answers[j] != want.Answers[j] {
				t.Fatalf("record %d answer order = %v", i, got.Answers)
			}
		}
	}
}

func TestFiles_CreateError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := Files{}.Create(filepath.Join(blocker, "sub", "out.json"))
	if err == nil || w != nil {
		t.Fatalf("expected create error, got %v %v", w, err)
	}
}

func TestDatasetWriter_LineSeparatorsStayLiteral(t *testing.T) {
	recs := []qa.Record{
		{ID: "s1", Context: "a\u2028b", Question: "para\u2029graph?", Answers: []string{"x"}},
		{ID: "s2", Context: `keep \u2028 text`, Question: "Q?", Answers: []string{"y"}},
	}
	path := filepath.Join(t.TempDir(), "combined.json")
	writeAll(t, path, recs)

	got := kit.ReadFile(t, path)
	kit.MustContain(t, got, "\"a\u2028b\"")
	kit.MustContain(t, got, "\"para\u2029graph?\"")
	kit.MustNotContain(t, got, `a\u2028b`)
	kit.MustContain(t, got, `"keep \\u2028 text"`)

	var back qa.Dataset
	if err := json.Unmarshal([]byte(got), &back); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for i := range recs {
		if back.Data[i].Context != recs[i].Context || back.Data[i].Question != recs[i].Question {
			t.Fatalf("record %d = %+v, want %+v", i, back.Data[i], recs[i])
		}
	}
}

func TestLiteralSeparators(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"plain"`, `"plain"`},
		{`"a\u2028b\u2029"`, "\"a\u2028b\u2029\""},
		{`"a\\u2028"`, `"a\\u2028"`},
		{`"a\\\u2029"`, "\"a\\\\\u2029\""},
		{`"tail\u202`, `"tail\u202`},
	}
	for _, c := range cases {
		if got := string(literalSeparators([]byte(c.in))); got != c.want {
			t.Fatalf("literalSeparators(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
