// Package cpu exposes the raw amd64 instructions that the rest of the kernel
// builds on. All functions are implemented in assembly.
package cpu

// Flags is a snapshot of the RFLAGS register.
type Flags uint64

const (
	// FlagIF is the interrupt-enable bit of RFLAGS. Maskable interrupts are
	// only delivered while it is set.
	FlagIF Flags = 1 << 9
)

// Has returns true if all bits of flag are set in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// MSRGSBase is the model specific register that holds the base address of
// the GS segment (IA32_GS_BASE).
const MSRGSBase = uint32(0xc0000101)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// ReadFlags returns the current value of the RFLAGS register.
func ReadFlags() Flags

// WriteMSR stores value into the requested model specific register.
func WriteMSR(msr uint32, value uint64)

// ReadGS64 loads the 64-bit value found at the given offset from the base
// of the GS segment.
func ReadGS64(offset uintptr) uint64
