// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"liyu1981.xyz/telemetry-service/pkg/db"
)

const TestAPIKey = "5588"

// NewMemoryDB opens a migrated in-memory database private to the test.
func NewMemoryDB(t testing.TB) *db.DB {
	t.Helper()

	instance, err := db.Open(db.UseMemorySqliteDialector())
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	t.Cleanup(func() { _ = instance.Close() })

	return instance
}

// ParseLogs decodes JSON log lines written by a capture logger, skipping
// anything that is not JSON.
func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

// FindLog returns the first entry for which match is true.
func FindLog(logs []map[string]any, match func(map[string]any) bool) (map[string]any, bool) {
	for _, l := range logs {
		if match(l) {
			return l, true
		}
	}
	return nil, false
}
