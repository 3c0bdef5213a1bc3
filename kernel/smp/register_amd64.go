package smp

import (
	"kestrel/kernel/cpu"
	"unsafe"
)

var (
	// baseReg is the register used by Init and Current.
	baseReg BaseRegister = gsBase{}

	// overridden by tests
	writeMSRFn = cpu.WriteMSR
	readGS64Fn = cpu.ReadGS64
)

// selfOffset is the offset of Local.self from the start of the block.
const selfOffset = unsafe.Offsetof(Local{}.self)

// gsBase anchors Local blocks in the GS segment base of the executing core.
// The IA32_GS_BASE model specific register is reserved for this purpose and
// must not be written by anything else.
//
// Publishing writes the block address into IA32_GS_BASE. Since the block
// stores its own address in its first word, a single GS-relative load
// (MOV reg, GS:[0]) recovers it without an RDMSR.
type gsBase struct{}

func (gsBase) Publish(addr uintptr) {
	writeMSRFn(cpu.MSRGSBase, uint64(addr))
}

func (gsBase) Lookup() uintptr {
	return uintptr(readGS64Fn(selfOffset))
}
