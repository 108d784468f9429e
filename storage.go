package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage persists measurements into a results database: a remote libsql
// database for libsql/http(s)/ws(s) urls, a local SQLite file otherwise.
type Storage struct {
	Url string
}

type StoredMeasurement struct {
	Run         string
	Attempt     int
	Format      string
	Measurement string
	Value       float64
}

func (s *Storage) Driver() string {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s.Url, scheme) {
			return "libsql"
		}
	}
	return "sqlite3"
}

func (s *Storage) ConnectDb() (*sql.DB, error) {
	return sql.Open(s.Driver(), s.Url)
}

func (s *Storage) InitResultsDb(db *sql.DB, meta map[string]any) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		parameters = append(parameters, key, fmt.Sprintf("%v", meta[key]))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?)"}, len(parameters)/2), ", ")
	_, err = db.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		run TEXT,
		attempt INTEGER,
		format TEXT,
		measurement TEXT,
		value REAL,
		PRIMARY KEY (run, attempt, format, measurement)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized database for benchmark results with meta %v", meta)
	return nil
}

func (s *Storage) Parameters(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT name, value FROM parameters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make(map[string]string, 0)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		results[name] = value
	}
	return results, rows.Err()
}

func (s *Storage) UpdateBenchmarkDb(db *sql.DB, run string, attempt int, measurements []Measurement) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, m := range measurements {
		values := []struct {
			name  string
			value float64
		}{
			{"rows", float64(m.Rows)},
			{"elapsed", m.Elapsed.Seconds()},
			{"memory", float64(m.Memory)},
			{"file_size", float64(m.FileSize)},
			{"throughput", m.Throughput()},
		}
		for _, v := range values {
			_, err = tx.Exec(
				"INSERT INTO measurements VALUES (?, ?, ?, ?, ?)",
				run,
				attempt,
				m.Format.String(),
				v.name,
				v.value,
			)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *Storage) StoredMeasurements(db *sql.DB, run string) ([]StoredMeasurement, error) {
	rows, err := db.Query(
		"SELECT run, attempt, format, measurement, value FROM measurements WHERE run = ? ORDER BY attempt, format, measurement",
		run,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make([]StoredMeasurement, 0)
	for rows.Next() {
		var m StoredMeasurement
		if err := rows.Scan(&m.Run, &m.Attempt, &m.Format, &m.Measurement, &m.Value); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
