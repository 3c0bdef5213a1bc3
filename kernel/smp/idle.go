package smp

import "kestrel/kernel/cpu"

var (
	// overridden by tests
	haltFn = cpu.Halt
)

// Idle parks the executing core. It halts until the next interrupt, forever;
// control only leaves Idle when an interrupt handler switches to another
// thread. Interrupts must be enabled by the caller, otherwise the core never
// wakes up. The argument is ignored and only exists so that Idle can serve
// as a thread entry point.
func Idle(_ uintptr) {
	for {
		haltFn()
	}
}
