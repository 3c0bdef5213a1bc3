package kfmt

import (
	"bytes"
	"io"
)

// PrefixWriter is an io.Writer that tags every line written through it with
// Prefix before forwarding it to Sink. The prefix is emitted lazily, when the
// first byte of a new line arrives. A nil Sink selects the early ring buffer,
// like Printf does while no output sink is attached.
type PrefixWriter struct {
	Sink   io.Writer
	Prefix []byte

	midLine bool
}

// Write forwards p to the sink, injecting the prefix at the start of each
// line. The returned count does not include prefix bytes.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for len(p) > 0 {
		if !w.midLine {
			if _, err := sinkWrite(w.Sink, w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		end := len(p)
		if nl := bytes.IndexByte(p, '\n'); nl != -1 {
			end = nl + 1
		}

		n, err := sinkWrite(w.Sink, p[:end])
		written += n
		if err != nil {
			return written, err
		}

		if p[end-1] == '\n' {
			w.midLine = false
		}
		p = p[end:]
	}

	return written, nil
}

func sinkWrite(w io.Writer, p []byte) (int, error) {
	if w == nil {
		return earlyBuf.Write(p)
	}
	return w.Write(p)
}
