package main

import (
	"cmp"
	"slices"
	"sync"
)

func compareMeasurements(a, b Measurement) int {
	return cmp.Or(
		cmp.Compare(a.Elapsed, b.Elapsed),
		cmp.Compare(a.Memory, b.Memory),
		cmp.Compare(a.FileSize, b.FileSize),
		cmp.Compare(a.Format, b.Format),
	)
}

// Rank orders measurements from fastest to slowest. The input is left untouched.
func Rank(measurements []Measurement) []Measurement {
	ranked := slices.Clone(measurements)
	slices.SortStableFunc(ranked, compareMeasurements)
	return ranked
}

func Fastest(measurements []Measurement) (Measurement, bool) {
	if len(measurements) == 0 {
		return Measurement{}, false
	}
	return slices.MinFunc(measurements, compareMeasurements), true
}

func Slowest(measurements []Measurement) (Measurement, bool) {
	if len(measurements) == 0 {
		return Measurement{}, false
	}
	return slices.MaxFunc(measurements, compareMeasurements), true
}

// Comparison holds the latest measurement per format. The benchmark loop is
// the only writer; readers take snapshots.
type Comparison struct {
	lock         sync.RWMutex
	measurements map[Format]Measurement
}

func NewComparison() *Comparison {
	return &Comparison{measurements: make(map[Format]Measurement)}
}

func (c *Comparison) Put(measurement Measurement) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.measurements[measurement.Format] = measurement
}

func (c *Comparison) Remove(format Format) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.measurements, format)
}

func (c *Comparison) Get(format Format) (Measurement, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	m, ok := c.measurements[format]
	return m, ok
}

func (c *Comparison) Measurements() []Measurement {
	c.lock.RLock()
	defer c.lock.RUnlock()
	result := make([]Measurement, 0, len(c.measurements))
	for _, m := range c.measurements {
		result = append(result, m)
	}
	return result
}

func (c *Comparison) Ranking() []Measurement {
	return Rank(c.Measurements())
}
