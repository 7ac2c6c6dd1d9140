package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

func TestFilterSection(t *testing.T) {
	deps := manifest.Parse(`{"dependencies": {"a": "1"}, "devDependencies": {"b": "2", "c": "3"}}`)

	tests := []struct {
		section string
		want    []string
		wantErr bool
	}{
		{"", []string{"a", "b", "c"}, false},
		{"dependencies", []string{"a"}, false},
		{"devDependencies", []string{"b", "c"}, false},
		{"peerDependencies", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			in := append([]manifest.Dependency(nil), deps...)
			got, err := filterSection(in, tt.section)
			if tt.wantErr {
				if !upgerr.Is(err, upgerr.ErrCodeInvalidInput) {
					t.Fatalf("filterSection() error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("filterSection() error = %v", err)
			}
			var names []string
			for _, d := range got {
				names = append(names, d.Name)
			}
			if len(names) != len(tt.want) {
				t.Fatalf("got %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("got %v, want %v", names, tt.want)
				}
			}
		})
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(`{"dependencies": {}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	text, mode, err := readManifest(path)
	if err != nil {
		t.Fatalf("readManifest() error = %v", err)
	}
	if text != `{"dependencies": {}}` {
		t.Errorf("text = %q", text)
	}
	if mode != 0o600 {
		t.Errorf("mode = %v, want 0600", mode)
	}

	_, _, err = readManifest(filepath.Join(dir, "missing.json"))
	if !upgerr.Is(err, upgerr.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"total": 3}); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["total"] != 3 {
		t.Errorf("total = %d", got["total"])
	}
}
