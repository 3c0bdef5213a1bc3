// Package task contains the thread and scheduler types that each core's
// local state is built around. Only the pieces needed to seed a core's
// scheduler live here; run queues and context switching belong elsewhere.
package task

import (
	"kestrel/kernel"
	"kestrel/kernel/mm"
)

// State describes the execution state of a thread.
type State uint8

const (
	// Runnable threads may be picked by the scheduler.
	Runnable State = iota

	// Running marks the thread currently executing on its core.
	Running

	// Suspended threads are never picked until something resumes them.
	Suspended

	// Exited threads have returned from their entry point.
	Exited
)

// String implements fmt.Stringer for State.
func (s State) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// EntryFn is the signature of a thread entry point.
type EntryFn func(arg uintptr)

// MaxStackSize is the largest stack a thread may request.
const MaxStackSize = 64 * mm.Kb

var (
	// ErrStackExhausted is returned when no memory is left for a thread stack.
	ErrStackExhausted = &kernel.Error{Module: "task", Message: "unable to allocate thread stack"}

	// ErrStackTooLarge is returned for stack sizes above MaxStackSize.
	ErrStackTooLarge = &kernel.Error{Module: "task", Message: "requested stack size exceeds MaxStackSize"}

	// overridden by tests
	allocStackFn = allocStack
)

// Thread is a schedulable execution context.
type Thread struct {
	// State is updated by the scheduler and by the code that creates the
	// thread.
	State State

	stackSize mm.Size
	stack     []byte
	entry     EntryFn
	arg       uintptr
}

// NewThread creates a Runnable thread that will start executing entry(arg).
// A stackSize of 0 describes a thread that runs on a stack it already owns
// (for example the boot stack of the code that creates it) so no stack is
// allocated. Other sizes are rounded up to a whole number of pages.
func NewThread(stackSize mm.Size, entry EntryFn, arg uintptr) (*Thread, *kernel.Error) {
	if stackSize > MaxStackSize {
		return nil, ErrStackTooLarge
	}

	t := &Thread{
		State:     Runnable,
		stackSize: stackSize,
		entry:     entry,
		arg:       arg,
	}

	if stackSize != 0 {
		stack, err := allocStackFn(stackSize.Pages())
		if err != nil {
			return nil, err
		}
		t.stack = stack
	}

	return t, nil
}

// StackSize returns the stack size requested when the thread was created.
func (t *Thread) StackSize() mm.Size { return t.stackSize }

// Stack returns the memory backing the thread stack. It is nil for threads
// created with a zero stack size.
func (t *Thread) Stack() []byte { return t.stack }

// Entry returns the thread entry point.
func (t *Thread) Entry() EntryFn { return t.entry }

// Arg returns the argument passed to the entry point.
func (t *Thread) Arg() uintptr { return t.arg }

// allocStack backs thread stacks with Go heap memory until a physical page
// allocator exists.
func allocStack(pages uint64) ([]byte, *kernel.Error) {
	return make([]byte, pages<<mm.PageShift), nil
}
