package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"qabundle/internal/core/formats"
	"qabundle/internal/core/repair"
	perr "qabundle/internal/platform/errors"
	kit "qabundle/internal/platform/testkit"
	"qabundle/internal/services/combine/domain"
)

func src(dir, name string) domain.Source {
	return domain.Source{Path: filepath.Join(dir, name), Name: name}
}

func TestLoader_Plain(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{"book2.json": `{"data":[]}`})
	doc, err := NewLoader().Load(context.Background(), src(dir, "book2.json"), formats.Rule{Format: formats.FlatContext})
	if err != nil || !doc.IsObject() {
		t.Fatalf("Load: %v %s", err, doc.Raw)
	}
}

func TestLoader_JSONError(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{"bad.json": `{"data": [`})
	_, err := NewLoader().Load(context.Background(), src(dir, "bad.json"), formats.Rule{Format: formats.IDAnswers})
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("err = %v, want json", err)
	}
	if e, ok := perr.As(err); !ok || e.Op() != "bad.json" {
		t.Fatalf("op not set: %v", err)
	}
}

func TestLoader_ReadError(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), src(t.TempDir(), "gone.json"), formats.Rule{})
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v, want io", err)
	}
}

func TestLoader_Repair(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{
		"book1.json": "{\"data\": [{\"title\": \"T\",\n\t\t\"paragraphs\": []},\n\t\t]}",
		"fixed.json": "{\"data\": {\"title\": \"T\"},\n\t\t}",
	})
	rule := formats.Rule{Format: formats.NestedTitled, Repair: repair.TrailingCommaTab}

	// broken beyond what the strategy fixes
	_, err := NewLoader().Load(context.Background(), src(dir, "book1.json"), rule)
	if !perr.IsCode(err, perr.ErrorCodeRepair) {
		t.Fatalf("err = %v, want repair", err)
	}

	doc, err := NewLoader().Load(context.Background(), src(dir, "fixed.json"), rule)
	if err != nil || doc.Get("data.title").String() != "T" {
		t.Fatalf("Load: %v %s", err, doc.Raw)
	}
}
