package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

const Version = "v1"

var ErrLocked = errors.New("files are locked by another process")

// System loads the sibling files <dir>/<stem>.<ext> of every format, one at a time.
type System struct {
	storage     *Storage
	benchmark   Benchmark
	comparison  *Comparison
	dir         string
	stem        string
	attempts    int
	loadTimeout time.Duration
}

func NewSystem(config Config, comparison *Comparison) *System {
	var storage *Storage
	if config.ResultsUrl != "" {
		storage = &Storage{Url: config.ResultsUrl}
	}
	return &System{
		storage: storage,
		benchmark: Benchmark{
			Probe:       ProbeByName(config.Probe),
			Warmup:      config.Warmup,
			ClearCaches: config.ClearCaches,
		},
		comparison:  comparison,
		dir:         config.Dir,
		stem:        config.Stem,
		attempts:    max(1, config.Attempts),
		loadTimeout: config.LoadTimeout,
	}
}

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	totalFreq := 0.0
	for _, cpu := range cpuStat {
		totalFreq += cpu.Mhz
	}
	info := SysInfo{Arch: runtime.GOARCH, CPUCount: len(cpuStat)}
	if hostStat != nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if len(cpuStat) > 0 {
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	if vmStat != nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

// Lock takes an exclusive lock on the stem inside dir so that two processes
// never write or measure the same files at once.
func Lock(dir string, stem string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fileLock := flock.New(filepath.Join(dir, fmt.Sprintf(".%v.lock", stem)))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("%w: %v", ErrLocked, fileLock.Path())
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			Logger.Warnf("failed to release lock %v: %v", fileLock.Path(), err)
		}
	}, nil
}

// Loaded is the outcome of one pass over all formats.
type Loaded struct {
	Datasets map[Format]*Dataset
	Errors   map[Format]error
}

// LoadFormat loads and measures one format, updating the comparison table.
// Failed formats are removed from the table instead of being recorded as zero.
func (s *System) LoadFormat(ctx context.Context, format Format, path string) (*Dataset, *Measurement, error) {
	loader, err := LoaderFor(format)
	if err != nil {
		return nil, nil, err
	}
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}
	if err := s.benchmark.WarmupLoad(ctx, loader, path); err != nil {
		s.comparison.Remove(format)
		return nil, nil, err
	}
	dataset, measurement, err := s.benchmark.Measure(ctx, loader, path)
	if measurement == nil {
		s.comparison.Remove(format)
		return nil, nil, err
	}
	s.comparison.Put(*measurement)
	return dataset, measurement, err
}

func (s *System) LoadAll(ctx context.Context) Loaded {
	loaded := Loaded{Datasets: make(map[Format]*Dataset), Errors: make(map[Format]error)}
	for _, format := range Formats {
		path := s.pathFor(format)
		Logger.Infof("started loading %v from %v", format, path)
		dataset, measurement, err := s.LoadFormat(ctx, format, path)
		if err != nil {
			loaded.Errors[format] = err
		}
		if measurement == nil {
			Logger.Errorf("failed to load %v: %v", format, err)
			continue
		}
		if err != nil {
			Logger.Warnf("loaded %v with warning: %v", format, err)
		}
		loaded.Datasets[format] = dataset
		Logger.Infof(
			"finished loading %v: rows=%v elapsed=%v memory=%v size=%v",
			format, measurement.Rows, measurement.Elapsed, measurement.Memory, measurement.FileSize,
		)
	}
	return loaded
}

// pathFor picks the first existing file among the format's extensions.
func (s *System) pathFor(format Format) string {
	for _, ext := range format.Extensions() {
		path := filepath.Join(s.dir, s.stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return PathFor(s.dir, s.stem, format)
}

// Run executes all attempts and returns the ranking of the last one.
func (s *System) Run(ctx context.Context) (Report, Loaded, error) {
	Logger.Infof("start benchmark of %v/%v", s.dir, s.stem)
	unlock, err := Lock(s.dir, s.stem)
	if err != nil {
		return Report{}, Loaded{}, err
	}
	defer unlock()

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	var results *resultsSink
	if s.storage != nil {
		results, err = s.openResults(info)
		if err != nil {
			return Report{}, Loaded{}, err
		}
		defer results.Close()
	}

	var loaded Loaded
	for attempt := 0; attempt < s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Report{}, loaded, err
		}
		Logger.Infof("running attempt #%v/%v", attempt+1, s.attempts)
		loaded = s.LoadAll(ctx)
		if results != nil {
			err := results.storage.UpdateBenchmarkDb(results.db, results.run, attempt, s.comparison.Measurements())
			if err != nil {
				return Report{}, loaded, fmt.Errorf("failed to update benchmark results: %w", err)
			}
		}
	}
	return NewReport(s.comparison.Ranking(), loaded.Errors), loaded, nil
}

type resultsSink struct {
	storage *Storage
	db      *sql.DB
	run     string
}

func (r *resultsSink) Close() error { return r.db.Close() }

func (s *System) openResults(info SysInfo) (*resultsSink, error) {
	db, err := s.storage.ConnectDb()
	if err != nil {
		return nil, fmt.Errorf("unable to connect to the results db: %w", err)
	}
	run := fmt.Sprintf("benchmark-%v-%v-%v-%v", Version, s.stem, time.Now().Unix(), rand.Intn(1000))
	err = s.storage.InitResultsDb(db, map[string]any{
		"run":      run,
		"stem":     s.stem,
		"arch":     info.Arch,
		"hostname": info.Hostname,
		"platform": info.Platform,
		"ram":      info.RAM,
		"cpu":      info.CPUCount,
		"freq":     info.CPUFreq,
		"probe":    s.benchmark.probe().Name(),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize benchmark results db: %w", err)
	}
	return &resultsSink{storage: s.storage, db: db, run: run}, nil
}
