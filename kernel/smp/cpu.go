// Package smp brings up processor cores and gives each of them a private
// Local block that code running on the core can reach in constant time,
// without locks and without any help from an operating system.
//
// Init publishes the address of a core's Local block into a per-core base
// register; Current reads it back. Each core only ever touches its own block,
// so the only concurrency to guard against is an interrupt handler running on
// the same core. Use Critical (or the irq package directly) around updates
// that must not be observed half-way.
package smp

// MaxCPUs is the number of cores the kernel can bring up.
const MaxCPUs = 64

// ID is the ordinal of a physical core. The platform start-up code assigns
// IDs starting at 0 and guarantees they are distinct.
type ID uint32

// CPU identifies one physical core.
type CPU struct {
	id ID
}

// ID returns the ordinal assigned to the core.
func (c *CPU) ID() ID {
	return c.id
}
