// Package profile provides optional runtime profiling for the argot command.
//
// Profiling is compiled in only with the pprof build tag, which imports
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers:
//
//	go build -tags pprof -o argot .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// A session is described by a [Profiler] and started with [Profiler.Start]:
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are named after the mode (cpu.pprof, mem.pprof, ...) and can
// be inspected with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The argot command writes profiles to the pprof subdirectory of its cache
// directory unless --pprof-dir is given.
package profile
