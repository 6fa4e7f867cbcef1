package util

import (
	"context"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	w := &strings.Builder{}
	lines := []string{}
	ctx := WithLogger(context.Background(), WithLvl(WARN, WriterSink(w, "iso9075")))
	ctx = WithLogger(ctx, func(lvl Lvl, msg string) { lines = append(lines, lvl.String()+" "+msg) })
	Debugf(ctx, "debug %d", 1)
	Warnf(ctx, "warn %d", 2)
	Errorf(ctx, "error %d\n", 3)
	Infof(context.Background(), "dropped")

	if expected := "WARN  iso9075: warn 2\nERROR iso9075: error 3\n"; w.String() != expected {
		t.Errorf("got %q, expected %q", w.String(), expected)
	}
	if expected := []string{"DEBUG debug 1", "WARN warn 2", "ERROR error 3\n"}; strings.Join(lines, "|") != strings.Join(expected, "|") {
		t.Errorf("got %q, expected %q", lines, expected)
	}
}

func TestParseLvl(t *testing.T) {
	for s, expected := range map[string]Lvl{"error": ERROR, "WARN": WARN, "Info": INFO, "": DEBUG, "debug": DEBUG} {
		if lvl, err := ParseLvl(s); err != nil || lvl != expected {
			t.Errorf("ParseLvl(%q): got %v %v, expected %v", s, lvl, err, expected)
		}
	}
	if _, err := ParseLvl("verbose"); err == nil {
		t.Errorf("expected error")
	}
}
