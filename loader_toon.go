package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

type LoaderToon struct{}

func (l *LoaderToon) Format() Format { return FormatToon }
func (l *LoaderToon) Load(ctx context.Context, path string) (*Dataset, error) {
	return loadFile(ctx, path, DecodeToon)
}

// loadFile opens path and hands it to decode. Open failures are reported as ErrUnreadableFile.
func loadFile(ctx context.Context, path string, decode streamDecoder) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer file.Close()

	dataset, err := decode(ctx, bufio.NewReaderSize(file, 1<<20))
	if err != nil {
		return dataset, fmt.Errorf("failed to load %v: %w", path, err)
	}
	return dataset, nil
}
