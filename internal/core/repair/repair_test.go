package repair

import (
	"testing"

	perr "qabundle/internal/platform/errors"
	kit "qabundle/internal/platform/testkit"
)

// trailing comma after the last member of a tab-indented object
const broken = "{\n\t\"data\": [{\n\t\t\"title\": \"T\",\n\t\t\"paragraphs\": {\"qas\": []},\n\t\t}]\n}"

func TestTrailingCommaTab_DetectApply(t *testing.T) {
	s := TrailingCommaTab
	if s.Name() != "trailing-comma-tab" {
		t.Fatalf("Name = %q", s.Name())
	}
	if !s.Detect([]byte(broken)) {
		t.Fatalf("expected signature to be detected")
	}
	if s.Detect([]byte(`{"data":[]}`)) {
		t.Fatalf("clean doc should not match")
	}
	got := string(s.Apply([]byte("a},\n\t\t}b},\n\t\t}c")))
	if got != "a}\n\t\t}b}\n\t\t}c" {
		t.Fatalf("Apply replaced wrong: %q", got)
	}
}

func TestRepair_FixesKnownDefect(t *testing.T) {
	doc, ok, err := Repair(TrailingCommaTab, []byte(broken))
	if !ok || err != nil {
		t.Fatalf("Repair ok=%v err=%v", ok, err)
	}
	if doc.Get("data.0.title").String() != "T" {
		t.Fatalf("unexpected doc: %s", doc.Raw)
	}
}

func TestRepair_CleanInputParses(t *testing.T) {
	doc, ok, err := Repair(TrailingCommaTab, []byte(`{"data":[{"title":"x"}]}`))
	if !ok || err != nil {
		t.Fatalf("Repair ok=%v err=%v", ok, err)
	}
	if doc.Get("data.0.title").String() != "x" {
		t.Fatalf("unexpected doc: %s", doc.Raw)
	}
}

func TestRepair_StillBroken(t *testing.T) {
	_, ok, err := Repair(TrailingCommaTab, []byte("{\"a\": [1,},\n\t\t}"))
	if ok {
		t.Fatalf("expected failure")
	}
	if !perr.IsCode(err, perr.ErrorCodeRepair) {
		t.Fatalf("code = %v, want repair", perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), "still malformed")

	_, ok, err = Repair(TrailingCommaTab, []byte(`{"a":`))
	if ok || !perr.IsCode(err, perr.ErrorCodeRepair) {
		t.Fatalf("expected repair error, got ok=%v err=%v", ok, err)
	}
	kit.MustContain(t, err.Error(), "defect not present")
}

func TestLiteral_Custom(t *testing.T) {
	s := Literal("smart-quote", "“", `"`)
	if !s.Detect([]byte("“x")) || string(s.Apply([]byte("“x"))) != `"x` {
		t.Fatalf("custom literal strategy misbehaved")
	}
}
