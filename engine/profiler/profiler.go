package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/clock"
)

// Profiler tracks the rate of a repeating event (simulation ticks, render frames) along with
// memory statistics. Outputs stats to the log at a configurable interval.
// A Profiler is not safe for concurrent use; each driver owns its own.
type Profiler struct {
	name           string
	clock          clock.Clock
	count          int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// detail is appended to each report when set.
	detail func() string

	// lastRate is the rate computed by the most recent report.
	lastRate float64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second and the clock to the system clock.
//
// Parameters:
//   - name: label for the counted event in log output (e.g. "TPS", "FPS")
//   - options: functional options for profiler configuration
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(name string, options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		name:           name,
		clock:          clock.System(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock.Now()
	return p
}

// Tick should be called once per counted event.
// Logs statistics when the update interval has elapsed: the event rate, heap usage,
// allocation rate, GC count/pause times and total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.count++
	currentTime := p.clock.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	p.lastRate = float64(p.count) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	line := fmt.Sprintf("[Profiler] %s: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.name, p.lastRate, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)
	if p.detail != nil {
		line += " | " + p.detail()
	}
	log.Print(line)

	p.count = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Rate returns the events per second computed at the last report, or 0 before the first one.
func (p *Profiler) Rate() float64 {
	return p.lastRate
}
