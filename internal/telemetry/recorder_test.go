package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecosim-server/internal/engine"
)

func TestRecorderFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	rec := NewRecorder(path)

	rec.Record(engine.Stats{Turn: 1, Time: engine.TimeDay, Season: engine.SeasonSpring, Grazers: 3, MeanEnergy: 120})
	rec.Record(engine.Stats{Turn: 2, Time: engine.TimeDay, Season: engine.SeasonSpring, Grazers: 2, DeadUnits: 1})

	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read stats file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "turn") || !strings.Contains(lines[0], "mean_energy") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,day,spring") {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
}

func TestRecorderFlushWithoutPath(t *testing.T) {
	rec := NewRecorder("")
	rec.Record(engine.Stats{Turn: 1})
	// Без пути сброс - no-op, не ошибка
	if err := rec.Flush(); err != nil {
		t.Errorf("Flush without path must be a no-op, got %v", err)
	}
}
