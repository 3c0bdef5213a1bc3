package task

// Scheduler owns the threads of a single core. A core's scheduler always
// knows two threads: the one it is currently running and the idle thread it
// falls back to when nothing else is runnable.
type Scheduler struct {
	current *Thread
	idle    *Thread
}

// NewScheduler returns a scheduler whose current thread is current and whose
// fallback is idle.
func NewScheduler(current, idle *Thread) Scheduler {
	return Scheduler{
		current: current,
		idle:    idle,
	}
}

// Current returns the thread the scheduler considers to be executing.
func (s *Scheduler) Current() *Thread { return s.current }

// Idle returns the thread that runs when no other thread is runnable.
func (s *Scheduler) Idle() *Thread { return s.idle }
