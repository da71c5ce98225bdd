package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func newTestLogger() (*Logger, *bytes.Buffer) {
	l := New("foons", "basearg", 1)
	c := DefaultConfig()
	c.Formatter = "json"
	c.JSONFormat.DisableTimestamp = true
	l.Configure(c)

	var b bytes.Buffer
	l.SetOutput(&b)
	return l, &b
}

func TestLog(t *testing.T) {
	l, b := newTestLogger()
	l.Info("test")

	expect := `{"basearg":1,"level":"info","msg":"test","ns":"foons"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestContextLog(t *testing.T) {
	l, b := newTestLogger()

	ctx := WithTask(context.Background(), "task-1")
	l.Info("test", ctx)

	expect := `{"basearg":1,"level":"info","msg":"test","ns":"foons","task":"task-1"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestErrorFieldLog(t *testing.T) {
	l, b := newTestLogger()

	err := errors.New("fooerr")
	l.Info("test", err)

	expect := `{"basearg":1,"error":"fooerr","level":"info","msg":"test","ns":"foons"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestWarnAndSubLogger(t *testing.T) {
	l, b := newTestLogger()

	sub := l.NewSubLogger("sub", "k", "v")
	sub.Warn("careful", "count", 2)

	expect := `{"basearg":1,"count":2,"k":"v","level":"warning","msg":"careful","ns":"sub"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestLevelFilter(t *testing.T) {
	l, b := newTestLogger()
	l.SetLevel("error")

	l.Info("hidden")
	l.Warn("hidden")
	if b.Len() != 0 {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Info("nothing happens")
	if l.WithFields("a", 1) != nil {
		t.Fatal("expected nil logger")
	}
}
