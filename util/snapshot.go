package util

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateSnapshots = flag.Bool("update-snapshots", false, "update testdata snapshots")

// Snapshot compares v, marshalled as indented JSON, against testdata/<test name>.json.
// Run with -update-snapshots to (re)write the file.
func Snapshot[V any](t *testing.T, v V) {
	t.Helper()
	NamedSnapshot(t, strings.ReplaceAll(t.Name(), "/", "_"), v)
}

func NamedSnapshot[V any](t *testing.T, name string, v V) {
	t.Helper()
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %s (%v)", err, v)
	}
	p, actual := filepath.Join("testdata", name+".json"), string(bs)
	if *updateSnapshots {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata: %s", err)
		} else if err := os.WriteFile(p, []byte(actual+"\n"), 0644); err != nil {
			t.Fatalf("failed to write snapshot: %s", err)
		}
	} else if bs, err := os.ReadFile(p); err != nil {
		t.Fatalf("failed to read snapshot: %s", err)
	} else if expected := strings.TrimSuffix(string(bs), "\n"); actual != expected {
		t.Fatalf("snapshot %s does not match (actual != expected):\n%s\n----------\n%s", p, actual, expected)
	}
}
