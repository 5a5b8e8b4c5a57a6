package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateIncludesCommit(t *testing.T) {
	old := Commit
	Commit = "abc123"
	defer func() { Commit = old }()

	if got := Template(); !strings.Contains(got, "commit: abc123") {
		t.Errorf("Template() = %q, want commit line", got)
	}
	if got := String(); !strings.HasPrefix(got, "version: ") {
		t.Errorf("String() = %q, want version prefix", got)
	}
}
