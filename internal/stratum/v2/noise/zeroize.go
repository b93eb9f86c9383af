package noise

import "runtime"

// zeroize overwrites b with zeros before it becomes garbage. Go has no
// direct equivalent of Rust's ptr::write_volatile, so this relies on the
// loop being opaque to the compiler (no-inline, plus a KeepAlive so the
// write isn't proven dead and eliminated) rather than a single bulk clear,
// which the compiler is free to optimize away if it can show b is unused
// afterward.
//
//go:noinline
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
