package smp

import (
	"kestrel/kernel/irq"
	"kestrel/kernel/task"
	"unsafe"
)

var (
	// anchors holds a reference to every Local block that has been
	// published. The base register is invisible to the garbage collector
	// so without this a block would be reclaimed as soon as Init returns.
	// Each core only writes its own slot and lookups never go through
	// here.
	anchors [MaxCPUs]*Local

	// overridden by tests
	criticalFn = irq.Critical
)

// Local is the per-core state of a processor. Exactly one Local exists for
// each core that ran Init; it is never moved or freed.
type Local struct {
	// self holds the address of this block. It must remain the first
	// field: gsBase.Lookup loads it from GS:[0].
	self uintptr

	// CPU identifies the core that owns this block.
	CPU *CPU

	// Scheduler manages the threads of the owning core.
	Scheduler task.Scheduler
}

// Current returns the Local block of the executing core in constant time.
// Init must already have run on this core; calling Current earlier returns
// whatever the base register happens to contain.
//
// The returned block is not reference counted. Updates that an interrupt
// handler on the same core might observe should be made through Critical.
func Current() *Local {
	return current(baseReg)
}

func current(reg BaseRegister) *Local {
	return (*Local)(unsafe.Pointer(reg.Lookup()))
}

// Critical runs fn with the executing core's Local block while maskable
// interrupts are disabled. The previous interrupt state is restored when fn
// returns.
func Critical(fn func(*Local)) {
	criticalFn(func() {
		fn(Current())
	})
}
