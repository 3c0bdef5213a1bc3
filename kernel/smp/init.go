package smp

import (
	"kestrel/kernel"
	"kestrel/kernel/kfmt"
	"kestrel/kernel/mm"
	"kestrel/kernel/task"
	"unsafe"
)

// idleStackSize is the stack size of each core's idle thread.
const idleStackSize = mm.PageSize

var (
	errInvalidCPU = &kernel.Error{Module: "smp", Message: "cpu id exceeds MaxCPUs"}

	logPrefix = []byte("[smp] ")

	// overridden by tests
	newThreadFn = task.NewThread
)

// Init brings up the executing core, identified by id. It creates the
// core's Local block, seeds the block's scheduler with a suspended bootstrap
// thread standing for the caller and a runnable idle thread, and publishes
// the block so that Current can find it.
//
// Init must run exactly once per core, on that core, with a distinct id. It
// does not return on failure: a core that cannot build its own scheduling
// state has nothing to fall back to, so errors cause a kernel panic.
func Init(id ID) {
	if _, err := bringUp(id, baseReg); err != nil {
		panic(err)
	}

	w := kfmt.PrefixWriter{Sink: kfmt.GetOutputSink(), Prefix: logPrefix}
	kfmt.Fprintf(&w, "cpu%d: online\n", uint32(id))
}

// bringUp builds and publishes the Local block for core id through reg.
// Nothing is published unless every step succeeds.
func bringUp(id ID, reg BaseRegister) (*Local, *kernel.Error) {
	if id >= MaxCPUs {
		return nil, errInvalidCPU
	}

	cpu := &CPU{id: id}

	// The bootstrap thread is the context that is running Init right now.
	// It already has a stack and will be resumed by the scheduler, so it
	// must never be started from scratch.
	bootstrap, err := newThreadFn(0, Idle, 0)
	if err != nil {
		return nil, err
	}
	bootstrap.State = task.Suspended

	idleThread, err := newThreadFn(idleStackSize, Idle, 0)
	if err != nil {
		return nil, err
	}

	local := &Local{
		CPU:       cpu,
		Scheduler: task.NewScheduler(bootstrap, idleThread),
	}
	local.self = uintptr(unsafe.Pointer(local))

	anchors[id] = local
	reg.Publish(local.self)

	return local, nil
}
