package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v9.9.9"
	if !strings.Contains(String(), "version: v9.9.9") {
		t.Errorf("String() = %q", String())
	}
	if got := Get().Version; got != "v9.9.9" {
		t.Errorf("Get().Version = %q", got)
	}
	if !strings.Contains(Template(), "{{.Name}} version v9.9.9") {
		t.Errorf("Template() = %q", Template())
	}
}
