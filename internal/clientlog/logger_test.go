package clientlog

import "testing"

func TestNopLogger_NeverPanics(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("x")
	l.Info("x", "k", "v")
	l.Warn("x")
	l.Error("x")
	l2 := l.With("request_id", "r1")
	l2.Info("still fine")
}

func TestSlogLogger_ImplementsLogger(t *testing.T) {
	var _ Logger = NewSlogLogger("debug", "json")
	var _ Logger = NewSlogLogger("info", "text")
}
