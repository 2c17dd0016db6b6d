package storage

import (
	"math/rand"
	"path/filepath"
	"testing"

	"ecosim-server/internal/config"
	"ecosim-server/internal/domain"
	"ecosim-server/internal/engine"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
)

// newSampleLoop собирает маленький мир: два юнита, растение, препятствие.
func newSampleLoop(t *testing.T) *engine.GameLoop {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	board := domain.NewBoard(10, 10, false, rng)
	pm := plants.NewManager(board, rng, plants.Settings{MaxCount: 5, MinEnergy: 1})
	loop := engine.NewGameLoop(board, pm, rng, 10, 100)

	pred := units.New(units.RolePredator, "pred", domain.Position{X: 1, Y: 1}, units.DefaultTuning())
	board.PlaceObject(pred, 1, 1)
	loop.AddUnit(pred)

	grazer := units.New(units.RoleGrazer, "graz", domain.Position{X: 8, Y: 8}, units.DefaultTuning())
	board.PlaceObject(grazer, 8, 8)
	loop.AddUnit(grazer)

	p := plants.New("basic", domain.Position{X: 4, Y: 4})
	board.PlaceObject(p, 4, 4)
	pm.Adopt(p)

	board.PlaceObject(domain.NewObstacle("rock_1"), 6, 6)
	return loop
}

func TestSaveLoadRoundTrip(t *testing.T) {
	loop := newSampleLoop(t)
	snap := Capture(loop)

	path := filepath.Join(t.TempDir(), "save.json")
	if err := Save(path, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Turn != snap.Turn || loaded.Season != snap.Season {
		t.Errorf("Environment state mismatch: %+v vs %+v", loaded, snap)
	}
	if len(loaded.Units) != len(snap.Units) || len(loaded.Plants) != len(snap.Plants) {
		t.Errorf("Occupant counts mismatch")
	}
}

func TestSaveLoadCompressed(t *testing.T) {
	loop := newSampleLoop(t)
	snap := Capture(loop)

	path := filepath.Join(t.TempDir(), "save.json.zst")
	if err := Save(path, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of compressed save failed: %v", err)
	}
	if loaded.Turn != snap.Turn {
		t.Errorf("Expected turn %d, got %d", snap.Turn, loaded.Turn)
	}
}

func TestRestoreRebuildsWorld(t *testing.T) {
	loop := newSampleLoop(t)
	loop.ProcessTurn()
	snap := Capture(loop)

	restored, err := Restore(snap, config.Default())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Turn != loop.Turn {
		t.Errorf("Expected turn %d, got %d", loop.Turn, restored.Turn)
	}
	if restored.Season != loop.Season || restored.Time != loop.Time {
		t.Error("Environment cycles must survive the round trip")
	}
	if restored.Board.Width != loop.Board.Width {
		t.Error("Board dimensions must survive the round trip")
	}
	if len(restored.Units) != len(loop.Units) {
		t.Errorf("Expected %d units, got %d", len(loop.Units), len(restored.Units))
	}

	// Юниты возвращаются на свои клетки с теми же статами
	for _, orig := range loop.Units {
		var match *units.Unit
		for _, ru := range restored.Units {
			if ru.ID == orig.ID {
				match = ru
				break
			}
		}
		if match == nil {
			t.Fatalf("Unit %s lost in restore", orig.ID)
		}
		if match.Pos != orig.Pos {
			t.Errorf("Unit %s position %v != %v", orig.ID, match.Pos, orig.Pos)
		}
		if match.HP != orig.HP || match.Energy != orig.Energy {
			t.Errorf("Unit %s vitals mismatch", orig.ID)
		}
		if match.IsAlive() != orig.IsAlive() {
			t.Errorf("Unit %s liveness mismatch", orig.ID)
		}
		if restored.Board.ObjectAt(match.Pos.X, match.Pos.Y) != match {
			t.Errorf("Unit %s must occupy its cell on the restored board", orig.ID)
		}
	}
}

func TestRestoreAppliesConfigTuning(t *testing.T) {
	loop := newSampleLoop(t)
	snap := Capture(loop)

	cfg := config.Default()
	cfg.Units.MoveCost = 2.5
	cfg.Units.AttackCost = 5
	cfg.Units.RestingExitRatio = 0.6

	restored, err := Restore(snap, cfg)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(restored.Units) == 0 {
		t.Fatal("Expected restored units")
	}
	// Настройки берутся из конфигурации, а не из умолчаний
	for _, u := range restored.Units {
		if u.Tuning.Costs.Move != 2.5 {
			t.Errorf("Unit %s move cost %v, want 2.5", u.ID, u.Tuning.Costs.Move)
		}
		if u.Tuning.Costs.Attack != 5 {
			t.Errorf("Unit %s attack cost %v, want 5", u.ID, u.Tuning.Costs.Attack)
		}
		if u.Tuning.RestingExitRatio != 0.6 {
			t.Errorf("Unit %s resting exit ratio %v, want 0.6", u.ID, u.Tuning.RestingExitRatio)
		}
	}
}

func TestListOrdersByModTime(t *testing.T) {
	dir := t.TempDir()
	loop := newSampleLoop(t)
	snap := Capture(loop)

	if err := Save(filepath.Join(dir, "a.json"), snap); err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(dir, "b.json.zst"), snap); err != nil {
		t.Fatal(err)
	}

	saves, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(saves) != 2 {
		t.Errorf("Expected 2 saves, got %d", len(saves))
	}
}
