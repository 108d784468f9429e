package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string
	Dir         string
	Stem        string
	Rows        int
	Seed        int64
	Warmup      int
	Attempts    int
	ClearCaches bool
	LoadTimeout time.Duration
	ResultsUrl  string
	Probe       string
}

// LoadConfig reads the environment, with values from the optional dotenv files
// filling in variables that are not already set.
func LoadConfig(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return Config{
		LogLevel:    StringEnv("LOG_LEVEL", "INFO"),
		Dir:         StringEnv("BENCH_DIR", "."),
		Stem:        StringEnv("BENCH_STEM", "data"),
		Rows:        IntEnv("BENCH_ROWS", 1000),
		Seed:        int64(IntEnv("BENCH_SEED", 1)),
		Warmup:      IntEnv("BENCH_WARMUP", 0),
		Attempts:    IntEnv("BENCH_ATTEMPTS", 1),
		ClearCaches: BoolEnv("BENCH_CLEAR_CACHES", false),
		LoadTimeout: DurationEnv("BENCH_LOAD_TIMEOUT", 0),
		ResultsUrl:  StringEnv("BENCH_RESULTS_URL", ""),
		Probe:       StringEnv("BENCH_MEMORY_PROBE", "rss"),
	}, nil
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func DurationEnv(key string, def time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
