package versions

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func releases(vs ...string) []Release {
	out := make([]Release, len(vs))
	for i, v := range vs {
		out[i] = Release{Version: v, Date: UnknownDate}
	}
	return out
}

func TestClassify(t *testing.T) {
	stable := releases("2.1.0", "2.0.0", "1.3.1", "1.2.0", "1.0.0")
	withThree := releases("3.0.0", "2.1.0", "2.0.0", "1.3.1", "1.2.0", "1.0.0")

	tests := []struct {
		name      string
		current   string
		stable    []Release
		wantMinor string
		wantMajor string
	}{
		{"minor and major", "1.0.0", stable, "1.3.1", "2.1.0"},
		{"already latest minor", "1.3.1", stable, "", "2.1.0"},
		{"patch only", "1.3.0", stable, "1.3.1", "2.1.0"},
		{"nearest major wins", "1.0.0", withThree, "1.3.1", "2.1.0"},
		{"top of newest line", "2.1.0", stable, "", ""},
		{"below all lines", "0.5.0", stable, "", "1.3.1"},
		{"ahead of registry", "9.0.0", stable, "", ""},
		{"empty history", "1.0.0", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minor, major := Classify(semver.MustParse(tt.current), tt.stable)
			if minor != tt.wantMinor {
				t.Errorf("minor = %q, want %q", minor, tt.wantMinor)
			}
			if major != tt.wantMajor {
				t.Errorf("major = %q, want %q", major, tt.wantMajor)
			}
		})
	}
}

func TestClassifyNilCurrent(t *testing.T) {
	minor, major := Classify(nil, releases("1.0.0"))
	if minor != "" || major != "" {
		t.Errorf("Classify(nil) = %q, %q, want empty", minor, major)
	}
}

func TestClassifySkipsInvalid(t *testing.T) {
	minor, _ := Classify(semver.MustParse("1.0.0"), releases("1.nope", "1.1.0"))
	if minor != "1.1.0" {
		t.Errorf("minor = %q, want 1.1.0", minor)
	}
}
