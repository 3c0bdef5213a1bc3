// Package mm contains the memory size primitives shared by the kernel.
package mm

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
)

// Pages returns the number of pages needed to hold a block of size s.
func (s Size) Pages() uint64 {
	return uint64((s + PageSize - 1) >> PageShift)
}
