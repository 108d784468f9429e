package main

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

// ProbeRSS reports the resident set size of the current process.
type ProbeRSS struct {
	process *process.Process
}

func NewProbeRSS() (*ProbeRSS, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProbeRSS{process: p}, nil
}

func (p *ProbeRSS) Name() string { return "rss" }
func (p *ProbeRSS) Usage() (uint64, error) {
	info, err := p.process.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

// ProbeHeap reports live heap bytes from the Go runtime. It does not see
// memory allocated by cgo code such as the sqlite driver.
type ProbeHeap struct{}

func (p ProbeHeap) Name() string { return "heap" }
func (p ProbeHeap) Usage() (uint64, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc, nil
}

func DefaultProbe() MemoryProbe {
	probe, err := NewProbeRSS()
	if err != nil {
		Logger.Warnf("rss probe unavailable, fallback to heap: %v", err)
		return ProbeHeap{}
	}
	return probe
}

func ProbeByName(name string) MemoryProbe {
	if name == "heap" {
		return ProbeHeap{}
	}
	return DefaultProbe()
}
