// Package profile provides optional runtime profiling for the stash
// interpreter.
//
// # Overview
//
// Profiling is built on [github.com/pkg/profile] and is compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o stash .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// [Stopper], so callers never need to check how the binary was built.
//
// # Modes
//
// With the tag, the supported modes are allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread and trace. Profile files are written to the
// configured directory with names matching the mode (cpu.pprof, mem.pprof).
//
//	cfg := profile.New(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer cfg.Start().Stop()
//
// # Analysis
//
//	go tool pprof ./stash $XDG_CACHE_HOME/stash/pprof/cpu.pprof
//	go tool pprof -http=: cpu.pprof
//
// The tagged build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux] under /debug/pprof/ for programs that serve it.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
