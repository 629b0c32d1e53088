package logging

import "testing"

func TestOrNop(t *testing.T) {
	var l *Logger
	if l.OrNop() == nil {
		t.Fatal("expected no-op logger for nil receiver")
	}

	real := NewNop()
	if real.OrNop() != real {
		t.Error("expected OrNop to return the receiver when set")
	}
}

func TestWithKeepsWrapper(t *testing.T) {
	child := NewLogger(false).With("run_id", "abc")
	if child == nil || child.SugaredLogger == nil {
		t.Fatal("expected child logger")
	}
	child.Infow("child logger works", "lang", "en")
}
