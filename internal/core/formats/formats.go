// Package formats classifies source documents and extracts unified records from each known shape
package formats

import (
	"strconv"

	"qabundle/internal/core/jsondoc"
	"qabundle/internal/core/qa"

	"github.com/tidwall/gjson"
)

// Format is the closed set of source shapes the combiner understands
type Format uint8

const (
	// Unknown is never routed to; it exists so the zero value is not a real format
	Unknown Format = iota

	// NestedTitled is data[].{title, paragraphs[].qas[].{id, question, answers[].text}}.
	// Context is synthesized from the first answer
	NestedTitled

	// FlatContext is data[].{context, qas[].{id, question, answers[].text}}
	FlatContext

	// IDAnswers is data[].{id, question, answers[]string}.
	// Context is synthesized from the first answer
	IDAnswers

	// QAList is a top-level list of {question, answer}; ids are 1-based positions
	QAList

	// QAData is data[].{question, answer}; ids are 1-based positions
	QAData
)

var formatNames = [...]string{
	Unknown:      "unknown",
	NestedTitled: "nested_titled",
	FlatContext:  "flat_context",
	IDAnswers:    "id_answers",
	QAList:       "qa_list",
	QAData:       "qa_data",
}

// String implements fmt.Stringer
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return formatNames[Unknown]
}

// Valid reports whether f is one of the extractable formats
func (f Format) Valid() bool { return f > Unknown && int(f) < len(formatNames) }

// Extract returns the records of doc read as format f.
// Missing fields read as empty values; a document of the wrong overall shape yields no records
func (f Format) Extract(doc gjson.Result) []qa.Record {
	switch f {
	case NestedTitled:
		return extractNestedTitled(doc)
	case FlatContext:
		return extractFlatContext(doc)
	case IDAnswers:
		return extractIDAnswers(doc)
	case QAList:
		return extractPairs(doc)
	case QAData:
		return extractPairs(jsondoc.Field(doc, "data"))
	default:
		return nil
	}
}

func extractNestedTitled(doc gjson.Result) []qa.Record {
	var out []qa.Record
	for _, article := range jsondoc.Items(jsondoc.Field(doc, "data")) {
		title := jsondoc.Text(jsondoc.Field(article, "title"))
		for _, para := range jsondoc.Items(jsondoc.Field(article, "paragraphs")) {
			for _, q := range jsondoc.Items(jsondoc.Field(para, "qas")) {
				answers := answerTexts(jsondoc.Field(q, "answers"))
				if len(answers) == 0 {
					continue
				}
				out = append(out, qa.Record{
					ID:       idString(jsondoc.Field(q, "id")),
					Title:    title,
					Context:  answers[0],
					Question: jsondoc.Text(jsondoc.Field(q, "question")),
					Answers:  answers,
				})
			}
		}
	}
	return out
}

func extractFlatContext(doc gjson.Result) []qa.Record {
	var out []qa.Record
	for _, para := range jsondoc.Items(jsondoc.Field(doc, "data")) {
		context := jsondoc.Text(jsondoc.Field(para, "context"))
		for _, q := range jsondoc.Items(jsondoc.Field(para, "qas")) {
			answers := answerTexts(jsondoc.Field(q, "answers"))
			if len(answers) == 0 {
				continue
			}
			out = append(out, qa.Record{
				ID:       idString(jsondoc.Field(q, "id")),
				Context:  context,
				Question: jsondoc.Text(jsondoc.Field(q, "question")),
				Answers:  answers,
			})
		}
	}
	return out
}

func extractIDAnswers(doc gjson.Result) []qa.Record {
	var out []qa.Record
	for _, item := range jsondoc.Items(jsondoc.Field(doc, "data")) {
		answers := plainAnswers(jsondoc.Field(item, "answers"))
		if len(answers) == 0 {
			continue
		}
		out = append(out, qa.Record{
			ID:       idString(jsondoc.Field(item, "id")),
			Context:  answers[0],
			Question: jsondoc.Text(jsondoc.Field(item, "question")),
			Answers:  answers,
		})
	}
	return out
}

// extractPairs reads a list of {question, answer}; position is counted over the whole list
func extractPairs(list gjson.Result) []qa.Record {
	var out []qa.Record
	for i, item := range jsondoc.Items(list) {
		if !item.IsObject() {
			continue
		}
		answer := jsondoc.Text(item.Get("answer"))
		out = append(out, qa.Record{
			ID:       strconv.Itoa(i + 1),
			Context:  answer,
			Question: jsondoc.Text(item.Get("question")),
			Answers:  []string{answer},
		})
	}
	return out
}

// answerTexts collects answers[].text; entries without text are skipped
func answerTexts(list gjson.Result) []string {
	var out []string
	for _, a := range jsondoc.Items(list) {
		t := jsondoc.Field(a, "text")
		if !t.Exists() {
			continue
		}
		out = append(out, jsondoc.Text(t))
	}
	return out
}

// plainAnswers collects a list of answer strings.
// Numbers keep their literal text, objects contribute their text field, anything else is skipped
func plainAnswers(list gjson.Result) []string {
	var out []string
	for _, a := range jsondoc.Items(list) {
		switch a.Type {
		case gjson.String:
			out = append(out, a.Str)
		case gjson.Number:
			out = append(out, a.Raw)
		case gjson.JSON:
			if t := jsondoc.Field(a, "text"); t.Exists() {
				out = append(out, jsondoc.Text(t))
			}
		}
	}
	return out
}

// idString renders an id of any scalar type; missing and null are ""
func idString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Null:
		return ""
	default:
		return r.Raw
	}
}
