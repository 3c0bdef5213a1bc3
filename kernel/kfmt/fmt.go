// Package kfmt provides formatted output for the kernel. Everything in this
// package must work before the Go allocator is initialized, so none of it may
// allocate memory.
package kfmt

import (
	"io"
	"unsafe"
)

// numBufSize is the capacity of the scratch buffer used for formatting
// integers, including any padding and sign.
const numBufSize = 32

var (
	errMissingArg   = []byte("%!(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	digits = "0123456789abcdef"

	numBuf  [numBufSize]byte
	oneByte = []byte{0}

	// earlyBuf keeps Printf output produced before a sink is attached.
	earlyBuf ringBuffer

	// sink receives Printf output. While nil, output goes to earlyBuf.
	sink io.Writer
)

// SetOutputSink makes w the target of Printf and replays any output that was
// buffered while no sink was attached.
func SetOutputSink(w io.Writer) {
	sink = w
	if w != nil {
		io.Copy(w, &earlyBuf)
	}
}

// GetOutputSink returns the writer that currently receives Printf output.
func GetOutputSink() io.Writer {
	return sink
}

// Printf writes formatted output to the active output sink. It supports a
// subset of the fmt verbs:
//
//	%s  string or []byte
//	%d  integer, base 10
//	%o  integer, base 8
//	%x  integer, base 16 (lower-case)
//	%t  bool
//	%%  a literal percent sign
//
// A decimal width may precede the verb. Strings and base-10 integers are
// padded with spaces; base-8 and base-16 integers are padded with zeroes.
//
// Printf does not support %v or %p and does not check for fmt.Stringer: both
// need reflection, which makes the compiler emit allocating conversions at
// every call site.
func Printf(format string, args ...interface{}) {
	Fprintf(sink, format, args...)
}

// Fprintf behaves like Printf but sends its output to w. A nil w selects the
// early ring buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var argIndex int

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		width := 0
		for i++; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			write(w, errNoVerb)
			break
		}

		verb := format[i]
		switch verb {
		case '%':
			writeByte(w, '%')
			continue
		case 'd', 'o', 'x', 's', 't':
		default:
			write(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			write(w, errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 's':
			fmtString(w, arg, width)
		case 't':
			fmtBool(w, arg)
		}
	}

	for ; argIndex < len(args); argIndex++ {
		write(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		write(w, errWrongArgType)
	case b:
		write(w, trueValue)
	default:
		write(w, falseValue)
	}
}

func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		pad(w, ' ', width-len(s))
		// string to []byte conversions allocate
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		pad(w, ' ', width-len(s))
		write(w, s)
	default:
		write(w, errWrongArgType)
	}
}

func pad(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt formats any built-in integer type in the given base. The number is
// assembled right-to-left at the end of numBuf. For base 10 the sign is part
// of the padded width; for the zero-padded bases it is written ahead of the
// padding. Padding that does not fit in numBuf is written straight to w.
func fmtInt(w io.Writer, v interface{}, base uint64, width int) {
	var (
		val uint64
		neg bool
	)

	switch n := v.(type) {
	case uint8:
		val = uint64(n)
	case uint16:
		val = uint64(n)
	case uint32:
		val = uint64(n)
	case uint64:
		val = n
	case uint:
		val = uint64(n)
	case uintptr:
		val = uint64(n)
	case int8:
		val, neg = abs(int64(n))
	case int16:
		val, neg = abs(int64(n))
	case int32:
		val, neg = abs(int64(n))
	case int64:
		val, neg = abs(n)
	case int:
		val, neg = abs(int64(n))
	default:
		write(w, errWrongArgType)
		return
	}

	var extra int
	if width > numBufSize-1 {
		extra, width = width-(numBufSize-1), numBufSize-1
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}

	pos := numBufSize
	for {
		pos--
		numBuf[pos] = digits[val%base]
		if val /= base; val == 0 {
			break
		}
	}

	if neg && padCh == ' ' {
		pos--
		numBuf[pos] = '-'
	}

	for numBufSize-pos < width {
		pos--
		numBuf[pos] = padCh
	}

	if neg && padCh == '0' {
		writeByte(w, '-')
	}

	pad(w, padCh, extra)
	write(w, numBuf[pos:])
}

func abs(n int64) (uint64, bool) {
	if n < 0 {
		return uint64(-n), true
	}
	return uint64(n), false
}

func writeByte(w io.Writer, b byte) {
	oneByte[0] = b
	write(w, oneByte)
}

// write hides p from escape analysis before handing it to w. Passing p
// straight to an interface method makes the compiler assume it escapes, so
// every Printf call site would heap-allocate its arguments.
func write(w io.Writer, p []byte) {
	emit(w, noEscape(unsafe.Pointer(&p)))
}

func emit(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w == nil {
		earlyBuf.Write(p)
		return
	}
	w.Write(p)
}

// noEscape is the runtime.noescape trick from runtime/stubs.go.
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
