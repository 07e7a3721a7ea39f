package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	defer func(v string) { Version = v }(Version)
	Version = "v1.2.3"

	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} v1.2.3 ") {
		t.Errorf("Template() = %q", got)
	}
	if Get().Version != "v1.2.3" {
		t.Errorf("Get().Version = %q, want v1.2.3", Get().Version)
	}
}
