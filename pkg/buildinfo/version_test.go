package buildinfo

import (
	"strings"
	"testing"
)

func TestStringUsesLdflagValues(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	defer func() { Version, Commit, Date = old[0], old[1], old[2] }()

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-01"
	if got := String(); got != "version: v1.2.3\ncommit: abc123\nbuilt: 2026-01-01" {
		t.Errorf("String() = %q", got)
	}
	if got := Get(); got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01"}) {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}
