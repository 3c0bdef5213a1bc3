package main

import "kestrel/kernel/kmain"

// main makes a dummy call to the actual kernel entry point. It keeps the Go
// compiler from optimizing away the kernel code, since the compiler cannot see
// the rt0 code that calls kmain.Kmain on real hardware.
func main() {
	kmain.Kmain()
}
