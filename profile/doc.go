// Package profile provides optional runtime profiling for the confstr
// command using [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof .
//	confstr --pprof-mode=cpu parse 'http::host=localhost;'
//
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Profiles are written to [Profiler.Path] and can
// be inspected with
//
//	go tool pprof -http=: <path>/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
