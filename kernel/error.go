// Package kernel contains types shared by all kernel subsystems.
package kernel

// Error describes a kernel error. Kernel errors must be declared as global
// variables holding pointers to Error values: code that reports them may run
// before the Go allocator is available, so errors.New cannot be used.
type Error struct {
	// The subsystem that raised the error.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
