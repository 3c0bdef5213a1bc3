package kfmt

import (
	"kestrel/kernel"
	"kestrel/kernel/cpu"
)

var (
	// overridden by tests
	cpuHaltFn              = cpu.Halt
	cpuDisableInterruptsFn = cpu.DisableInterrupts

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints e (if not nil) to the console, masks interrupts and halts the
// CPU. It never returns on real hardware. Calls to the built-in panic are
// redirected here, which is how fatal errors raised with panic(err) reach the
// console.
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	cpuDisableInterruptsFn()
	cpuHaltFn()
}

// panicString is the redirect target for runtime.throw.
//
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
