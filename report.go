package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type ReportEntry struct {
	Rank       int     `json:"rank" yaml:"rank"`
	Format     Format  `json:"format" yaml:"format"`
	Rows       int     `json:"rows" yaml:"rows"`
	Elapsed    string  `json:"elapsed" yaml:"elapsed"`
	Memory     uint64  `json:"memory" yaml:"memory"`
	FileSize   int64   `json:"file_size" yaml:"file_size"`
	Throughput float64 `json:"throughput" yaml:"throughput"`
	Label      string  `json:"label,omitempty" yaml:"label,omitempty"`
}

type Report struct {
	Entries []ReportEntry     `json:"entries" yaml:"entries"`
	Errors  map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func NewReport(ranked []Measurement, failures map[Format]error) Report {
	report := Report{Entries: make([]ReportEntry, 0, len(ranked))}
	for i, m := range ranked {
		entry := ReportEntry{
			Rank:       i + 1,
			Format:     m.Format,
			Rows:       m.Rows,
			Elapsed:    m.Elapsed.Round(time.Microsecond).String(),
			Memory:     m.Memory,
			FileSize:   m.FileSize,
			Throughput: m.Throughput(),
		}
		if i == 0 {
			entry.Label = "fastest"
		} else if i == len(ranked)-1 {
			entry.Label = "slowest"
		}
		report.Entries = append(report.Entries, entry)
	}
	if len(failures) > 0 {
		report.Errors = make(map[string]string, len(failures))
		for format, err := range failures {
			report.Errors[format.String()] = err.Error()
		}
	}
	return report
}

func (r Report) Write(w io.Writer, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return encoder.Close()
	case "text", "":
		return r.writeText(w)
	}
	return fmt.Errorf("unknown output %q", output)
}

func (r Report) writeText(w io.Writer) error {
	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "RANK\tFORMAT\tROWS\tELAPSED\tMEMORY\tSIZE\tROWS/S\t")
	for _, e := range r.Entries {
		fmt.Fprintf(
			table, "%v\t%v\t%v\t%v\t%v\t%v\t%.0f\t%v\n",
			e.Rank, e.Format, e.Rows, e.Elapsed, HumanBytes(e.Memory), HumanBytes(uint64(e.FileSize)), e.Throughput, e.Label,
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}
	formats := make([]string, 0, len(r.Errors))
	for format := range r.Errors {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	for _, format := range formats {
		if _, err := fmt.Fprintf(w, "%v: %v\n", format, r.Errors[format]); err != nil {
			return err
		}
	}
	return nil
}

func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
