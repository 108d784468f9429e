package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatRelational Format = iota
	FormatCSV
	FormatStructuredText
	FormatToon
)

var Formats = []Format{FormatRelational, FormatCSV, FormatStructuredText, FormatToon}

func (f Format) String() string {
	switch f {
	case FormatRelational:
		return "sqlite"
	case FormatCSV:
		return "csv"
	case FormatStructuredText:
		return "json"
	case FormatToon:
		return "toon"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extensions lists recognised file extensions, the first one is used when writing.
func (f Format) Extensions() []string {
	switch f {
	case FormatRelational:
		return []string{".sqlite", ".db"}
	case FormatCSV:
		return []string{".csv"}
	case FormatStructuredText:
		return []string{".json", ".jsonl"}
	case FormatToon:
		return []string{".toon"}
	}
	return nil
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if strings.EqualFold(format.String(), name) {
			return format, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range Formats {
		for _, known := range format.Extensions() {
			if ext == known {
				return format, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: extension %q of %v", ErrUnsupportedFormat, ext, path)
}

// PathFor returns the sibling file for the format: <dir>/<stem><ext>.
func PathFor(dir, stem string, format Format) string {
	return filepath.Join(dir, stem+format.Extensions()[0])
}

func LoaderFor(format Format) (Loader, error) {
	switch format {
	case FormatRelational:
		return &LoaderSqlite{}, nil
	case FormatCSV:
		return &LoaderCSV{}, nil
	case FormatStructuredText:
		return &LoaderJSON{}, nil
	case FormatToon:
		return &LoaderToon{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
}
