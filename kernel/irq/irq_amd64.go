// Package irq controls the delivery of maskable interrupts on the executing
// core. Masking interrupts is the only mutual exclusion primitive available
// to per-core state: code that must not be observed half-way by an interrupt
// handler on the same core wraps itself in Critical (or a Disable/Enable
// pair). Masking offers no protection against other cores.
package irq

import "kestrel/kernel/cpu"

var (
	// overridden by tests
	disableFn   = cpu.DisableInterrupts
	enableFn    = cpu.EnableInterrupts
	readFlagsFn = cpu.ReadFlags
)

// Disable clears the interrupt-enable flag of the executing core. Maskable
// interrupts stay pending until Enable is called. Calls do not nest: a single
// Enable undoes any number of Disable calls, and a missing Enable leaves the
// core deaf to interrupts.
func Disable() {
	disableFn()
}

// Enable sets the interrupt-enable flag of the executing core, allowing
// pending and future maskable interrupts to be delivered.
func Enable() {
	enableFn()
}

// Enabled reports whether the executing core currently accepts maskable
// interrupts. It does not modify any state.
func Enabled() bool {
	return readFlagsFn().Has(cpu.FlagIF)
}

// Critical runs fn with maskable interrupts disabled on the executing core.
// The interrupt-enable state in effect on entry is restored once fn returns
// or panics, so Critical sections may nest; an inner section never re-enables
// interrupts that an outer one masked.
func Critical(fn func()) {
	if !Enabled() {
		fn()
		return
	}

	Disable()
	defer Enable()
	fn()
}
