package version

import "testing"

func TestInfo(t *testing.T) {
	b := Info("qabundle-publish")
	if b.Service != "qabundle-publish" || b.Version != "dev" || b.Commit != "none" || b.Date != "unknown" {
		t.Fatalf("Info = %+v", b)
	}
	if got := b.String(); got != "qabundle-publish dev (none, unknown)" {
		t.Fatalf("String = %q", got)
	}
	if got := b.Tag(); got != "qabundle-publish/dev" {
		t.Fatalf("Tag = %q", got)
	}
}
