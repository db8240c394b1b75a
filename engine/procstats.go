package engine

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/process"
)

// procStats caches a handle to the running process so the periodic
// stage-progress log line can report host resource use without
// re-resolving the pid on every call, the way a long-running akita
// simulator logs its own memory footprint during a multi-hour run.
var (
	procOnce sync.Once
	proc     *process.Process
)

// selfMemRSSMiB reports this process's resident set size in MiB, or 0
// if it could not be read (e.g. /proc unavailable on the host
// platform). Logged as a best-effort field, never an error: progress
// logging must never fail the run it is reporting on.
func selfMemRSSMiB() float64 {
	procOnce.Do(func() {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err == nil {
			proc = p
		}
	})
	if proc == nil {
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return float64(info.RSS) / (1024 * 1024)
}
