package kfmt

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	specs := []struct {
		input string
		exp   string
	}{
		{
			"",
			"",
		},
		{
			"\n",
			"[smp] \n",
		},
		{
			"cpu0: online",
			"[smp] cpu0: online",
		},
		{
			"cpu0: online\n",
			"[smp] cpu0: online\n",
		},
		{
			"\ncpu0: online\ncpu1: online\ncpu2",
			"[smp] \n[smp] cpu0: online\n[smp] cpu1: online\n[smp] cpu2",
		},
	}

	var buf bytes.Buffer

	for specIndex, spec := range specs {
		buf.Reset()
		w := PrefixWriter{Sink: &buf, Prefix: []byte("[smp] ")}

		wrote, err := w.Write([]byte(spec.input))
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		}

		if expLen := len(spec.input); expLen != wrote {
			t.Errorf("[spec %d] expected writer to write %d bytes; wrote %d", specIndex, expLen, wrote)
		}

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected output:\n%q\ngot:\n%q", specIndex, spec.exp, got)
		}
	}
}

func TestPrefixWriterAcrossWrites(t *testing.T) {
	var (
		buf bytes.Buffer
		w   = PrefixWriter{Sink: &buf, Prefix: []byte("[smp] ")}
	)

	Fprintf(&w, "cpu%d: ", 1)
	Fprintf(&w, "online\n")
	Fprintf(&w, "cpu%d: online\n", 2)

	if exp, got := "[smp] cpu1: online\n[smp] cpu2: online\n", buf.String(); got != exp {
		t.Fatalf("expected output:\n%q\ngot:\n%q", exp, got)
	}
}

func TestPrefixWriterErrors(t *testing.T) {
	expErr := errors.New("write failed")

	specs := []struct {
		sink *failingWriter
	}{
		// prefix write fails
		{&failingWriter{err: expErr, failAt: 0}},
		// line write fails
		{&failingWriter{err: expErr, failAt: 1}},
	}

	for specIndex, spec := range specs {
		w := PrefixWriter{Sink: spec.sink, Prefix: []byte("[smp] ")}
		if _, err := w.Write([]byte("cpu0\ncpu1\n")); err != expErr {
			t.Errorf("[spec %d] expected error: %v; got %v", specIndex, expErr, err)
		}
	}
}

type failingWriter struct {
	err    error
	failAt int
	calls  int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	defer func() { w.calls++ }()
	if w.calls == w.failAt {
		return 0, w.err
	}
	return len(p), nil
}

func TestPrefixWriterNilSink(t *testing.T) {
	defer SetOutputSink(nil)
	SetOutputSink(io.Discard) // drain leftovers
	SetOutputSink(nil)

	w := PrefixWriter{Prefix: []byte("[smp] ")}
	Fprintf(&w, "cpu%d: online\n", 0)

	var buf bytes.Buffer
	SetOutputSink(&buf)

	if exp, got := "[smp] cpu0: online\n", buf.String(); got != exp {
		t.Fatalf("expected early buffer to hold:\n%q\ngot:\n%q", exp, got)
	}
}
