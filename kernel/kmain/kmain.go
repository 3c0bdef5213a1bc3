// Package kmain contains the Go entry point of the kernel.
package kmain

import (
	"kestrel/kernel"
	"kestrel/kernel/irq"
	"kestrel/kernel/smp"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// overridden by tests
	smpInitFn   = smp.Init
	irqEnableFn = irq.Enable
	idleFn      = smp.Idle
)

// bootCPU is the ordinal of the processor that runs the rt0 code.
const bootCPU smp.ID = 0

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. The rt0 code invokes it on the boot processor with
// interrupts masked, after setting up a GDT and a minimal g0 that lets Go code
// run on the 4K stack allocated by the assembly code.
//
// Kmain brings up the boot processor and then parks the boot context in the
// idle path of that core. It is not expected to return. If it does, the rt0
// code will halt the CPU.
//
// No console driver is attached yet, so kfmt output (including panic
// reports) stays in the kfmt early ring buffer until something calls
// kfmt.SetOutputSink, which replays it.
//
//go:noinline
func Kmain() {
	// A console driver would call kfmt.SetOutputSink here.
	smpInitFn(bootCPU)

	// The idle path relies on interrupts to wake up.
	irqEnableFn()
	idleFn(0)

	// Use panic with a *kernel.Error value so the redirected panic path
	// prints the module that failed.
	panic(errKmainReturned)
}
