// Package qa holds the unified question-answering shapes shared by the combine and publish tools
package qa

// DatasetVersion is stamped into every merged dataset document
const DatasetVersion = "1.0"

// Record is one question/answer unit after extraction.
// Context may be synthesized from the first answer when a source has no passage.
// Answers is never empty for records produced by the extractors
type Record struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Context  string   `json:"context"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Dataset is the merged document written by the combiner and read by the publisher
type Dataset struct {
	Version string   `json:"version"`
	Data    []Record `json:"data"`
}

// Len returns the number of records
func (d Dataset) Len() int { return len(d.Data) }

// Row is the single-answer shape used for tabular publishing
type Row struct {
	Question string `json:"question" parquet:"question"`
	Context  string `json:"context" parquet:"context"`
	Answers  string `json:"answers" parquet:"answers"`
}

// Project flattens a record into a row keeping only the first answer.
// Additional answers are dropped
func Project(r Record) Row {
	row := Row{Question: r.Question, Context: r.Context}
	if len(r.Answers) > 0 {
		row.Answers = r.Answers[0]
	}
	return row
}

// ProjectAll projects records in order, one row per record
func ProjectAll(rs []Record) []Row {
	out := make([]Row, len(rs))
	for i := range rs {
		out[i] = Project(rs[i])
	}
	return out
}
