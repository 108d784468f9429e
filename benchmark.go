package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Measurement is the outcome of a single load. Memory is the growth of the
// probe's counter across the load clamped at zero: an approximation, since
// the collector and allocator reuse are not attributed to any load.
type Measurement struct {
	Format   Format        `json:"format" yaml:"format"`
	Rows     int           `json:"rows" yaml:"rows"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	Memory   uint64        `json:"memory" yaml:"memory"`
	FileSize int64         `json:"file_size" yaml:"file_size"`
}

// Throughput returns loaded rows per second.
func (m Measurement) Throughput() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return float64(m.Rows) / m.Elapsed.Seconds()
}

// Benchmark measures one load at a time: concurrent loads would share the
// process memory counter.
type Benchmark struct {
	Probe       MemoryProbe
	Warmup      int
	ClearCaches bool
}

func clearCaches() error {
	switch runtime.GOOS {
	case "linux":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("sh", "-c", "echo 3 | sudo tee /proc/sys/vm/drop_caches").Run(); err != nil {
			return err
		}
		return nil
	case "darwin":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("purge").Run(); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unable to clear caches for platform '%v'", runtime.GOOS)
}

func (b *Benchmark) clearCachesIfNeeded() error {
	if !b.ClearCaches {
		return nil
	}
	Logger.Info("clear caches")
	return clearCaches()
}

func (b *Benchmark) probe() MemoryProbe {
	if b.Probe == nil {
		return DefaultProbe()
	}
	return b.Probe
}

func (b *Benchmark) WarmupLoad(ctx context.Context, loader Loader, path string) error {
	for i := 0; i < b.Warmup; i++ {
		Logger.Infof("running warmup #%v/%v load %v of %v", i+1, b.Warmup, loader.Format(), path)
		_, err := loader.Load(ctx, path)
		if err != nil && !errors.Is(err, ErrEmptyFile) {
			return fmt.Errorf("warmup #%v failed: %w", i, err)
		}
	}
	return nil
}

// Measure runs the loader once and reports its cost. A failed load yields no
// measurement; an empty file yields a zero-row measurement along with ErrEmptyFile.
func (b *Benchmark) Measure(ctx context.Context, loader Loader, path string) (*Dataset, *Measurement, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	if err := b.clearCachesIfNeeded(); err != nil {
		Logger.Warnf("failed to clear fs caches: %v", err)
	}

	probe := b.probe()
	before, err := probe.Usage()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %v memory usage: %w", probe.Name(), err)
	}

	start := time.Now()
	dataset, loadErr := loader.Load(ctx, path)
	elapsed := time.Since(start)

	after, err := probe.Usage()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %v memory usage: %w", probe.Name(), err)
	}

	if loadErr != nil && !errors.Is(loadErr, ErrEmptyFile) {
		return nil, nil, loadErr
	}
	rows := 0
	if dataset != nil {
		rows = len(dataset.Rows)
	}
	measurement := &Measurement{
		Format:   loader.Format(),
		Rows:     rows,
		Elapsed:  elapsed,
		Memory:   memoryDelta(before, after),
		FileSize: stat.Size(),
	}
	return dataset, measurement, loadErr
}

func memoryDelta(before, after uint64) uint64 {
	if after < before {
		return 0
	}
	return after - before
}
