//go:build !pprof

package profile

// Enabled reports whether the binary was built with tag pprof.
const Enabled = false

// Modes returns nil unless built with tag pprof.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
