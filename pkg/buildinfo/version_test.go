package buildinfo

import (
	"strings"
	"testing"
)

func TestGetPrefersLdflags(t *testing.T) {
	info := Get()
	if Version != "dev" && info.Version != Version {
		t.Errorf("Version = %q, want ldflags value %q", info.Version, Version)
	}
	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("Get() left fields empty: %+v", info)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "upgrader/") {
		t.Errorf("UserAgent() = %q", ua)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} ") || !strings.Contains(tmpl, "commit: ") {
		t.Errorf("Template() = %q", tmpl)
	}
}
