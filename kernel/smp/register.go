package smp

// BaseRegister is a per-core register that anchors a core's Local block.
// Each value stands for the register of exactly one core; code running on
// another core cannot reach it.
type BaseRegister interface {
	// Publish stores the address of the core's Local block.
	Publish(addr uintptr)

	// Lookup returns the address stored by Publish. Its result is
	// undefined if Publish was never called on this core.
	Lookup() uintptr
}
