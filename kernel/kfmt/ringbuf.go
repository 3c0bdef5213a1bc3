package kfmt

import "io"

// ringBufferSize is large enough to hold a full 80x25 text console. It must
// be a power of 2.
const ringBufferSize = 2048

// ringBuffer stores the most recent ringBufferSize-1 bytes written to it.
// Once full, each write discards the oldest byte.
type ringBuffer struct {
	data       [ringBufferSize]byte
	head, tail int
}

// Write appends p to the buffer, overwriting the oldest data if needed.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[rb.tail] = b
		rb.tail = (rb.tail + 1) & (ringBufferSize - 1)
		if rb.tail == rb.head {
			rb.head = (rb.head + 1) & (ringBufferSize - 1)
		}
	}

	return len(p), nil
}

// Read copies buffered data into p. Data that wraps around the end of the
// backing array is returned by a subsequent call. Read returns io.EOF once
// the buffer is empty.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.head == rb.tail {
		return 0, io.EOF
	}

	end := rb.tail
	if rb.tail < rb.head {
		end = ringBufferSize
	}

	n := copy(p, rb.data[rb.head:end])
	rb.head = (rb.head + n) & (ringBufferSize - 1)
	return n, nil
}
