package profile

// Tag is the build tag that enables profiling and the name of the
// subdirectory profiles are written to by default.
const Tag = "pprof"

// Stopper stops a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode names the profile to record. See [Modes].
	Mode string
	// Path is the output directory. The current directory is used if empty.
	Path string
	// Quiet suppresses the messages pkg/profile prints on start and stop.
	Quiet bool
}

// Start begins recording and returns a [Stopper] for the session.
//
// If the binary was built without tag pprof, or Mode is empty or unknown,
// Start returns a no-op Stopper. Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Valid reports whether mode is one of [Modes].
func Valid(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
