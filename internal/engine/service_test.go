package engine

import (
	"errors"
	"testing"

	"ecosim-server/internal/config"
	"ecosim-server/pkg/api"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(config.Default())

	in, err := r.Create(api.CreateGameRequest{Width: 10, Height: 10, Seed: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := r.Get(in.ID)
	if err != nil || got != in {
		t.Errorf("Expected to find created game, got %v err %v", got, err)
	}

	// Дефолтные популяции: 2 + 3 + 5 юнитов и 15 растений
	if len(in.Loop.Units) != 10 {
		t.Errorf("Expected 10 units, got %d", len(in.Loop.Units))
	}
	if len(in.Loop.Plants.All()) != 15 {
		t.Errorf("Expected 15 plants, got %d", len(in.Loop.Plants.All()))
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Get("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(config.Default())
	in, _ := r.Create(api.CreateGameRequest{Seed: 1})

	if err := r.Delete(in.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.Get(in.ID); !errors.Is(err, ErrGameNotFound) {
		t.Error("Deleted game must not be found")
	}
	if err := r.Delete(in.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Second delete must fail, got %v", err)
	}
}

func TestRegistryCreateRejectsBadBoard(t *testing.T) {
	r := NewRegistry(config.Default())
	if _, err := r.Create(api.CreateGameRequest{Width: 3, Height: 10}); err == nil {
		t.Error("Expected error for board below minimum size")
	}
	if _, err := r.Create(api.CreateGameRequest{Width: 10, Height: 200}); err == nil {
		t.Error("Expected error for board above maximum size")
	}
}

func TestInstanceStepTurn(t *testing.T) {
	r := NewRegistry(config.Default())
	in, _ := r.Create(api.CreateGameRequest{Seed: 7})

	st := in.StepTurn()
	if st.Turn != 1 {
		t.Errorf("Expected turn 1 after step, got %d", st.Turn)
	}
	st = in.StepTurn()
	if st.Turn != 2 {
		t.Errorf("Expected turn 2 after second step, got %d", st.Turn)
	}
}

func TestExplicitPlacements(t *testing.T) {
	r := NewRegistry(config.Default())
	req := api.CreateGameRequest{
		Width: 10, Height: 10, Seed: 3,
		Placements: []api.Placement{
			{Type: "predator", Name: "alpha", X: 2, Y: 2},
			{Type: "plant", Kind: "energy_rich", X: 4, Y: 4},
			{Type: "obstacle", X: 6, Y: 6},
		},
	}
	in, err := r.Create(req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if obj := in.Loop.Board.ObjectAt(2, 2); obj == nil || obj.Symbol() != "P" {
		t.Error("Expected predator at (2,2)")
	}
	if obj := in.Loop.Board.ObjectAt(4, 4); obj == nil || obj.Symbol() != "%" {
		t.Error("Expected energy_rich plant at (4,4)")
	}
	if obj := in.Loop.Board.ObjectAt(6, 6); obj == nil || obj.Symbol() != "#" {
		t.Error("Expected obstacle at (6,6)")
	}

	// Конфликт размещения - ошибка создания
	req.Placements = append(req.Placements, api.Placement{Type: "grazer", X: 2, Y: 2})
	if _, err := r.Create(req); err == nil {
		t.Error("Expected error for conflicting placement")
	}
}

func TestCreateWithoutRandomSpawn(t *testing.T) {
	r := NewRegistry(config.Default())
	in, err := r.Create(api.CreateGameRequest{
		Width: 10, Height: 10, Seed: 4,
		NoRandomSpawn: true,
		Placements: []api.Placement{
			{Type: "grazer", Name: "solo", X: 2, Y: 2},
			{Type: "plant", X: 4, Y: 4},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Мир собирается строго из placements, без случайного расселения
	if len(in.Loop.Units) != 1 {
		t.Errorf("Expected exactly 1 unit, got %d", len(in.Loop.Units))
	}
	if len(in.Loop.Plants.All()) != 1 {
		t.Errorf("Expected exactly 1 plant, got %d", len(in.Loop.Plants.All()))
	}
}

func TestInstanceEntityLookup(t *testing.T) {
	r := NewRegistry(config.Default())
	in, _ := r.Create(api.CreateGameRequest{Seed: 5})

	u := in.Loop.Units[0]
	resp, err := in.Entity(u.ID)
	if err != nil {
		t.Fatalf("Entity lookup failed: %v", err)
	}
	if resp.Unit == nil || resp.Unit.ID != u.ID {
		t.Errorf("Expected unit detail for %s, got %+v", u.ID, resp)
	}
	if resp.Unit.VisibleCells == 0 {
		t.Error("Alive unit must see at least its own surroundings")
	}

	p := in.Loop.Plants.All()[0]
	resp, err = in.Entity(p.ID)
	if err != nil || resp.Plant == nil || resp.Plant.ID != p.ID {
		t.Errorf("Expected plant detail for %s, got %+v err %v", p.ID, resp, err)
	}

	if _, err := in.Entity("missing"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Expected ErrEntityNotFound, got %v", err)
	}
}

func TestSnapshotContainsOccupants(t *testing.T) {
	r := NewRegistry(config.Default())
	in, _ := r.Create(api.CreateGameRequest{Width: 10, Height: 10, Seed: 9})

	board := in.Snapshot()
	if board.Width != 10 || board.Height != 10 {
		t.Errorf("Expected 10x10 board, got %dx%d", board.Width, board.Height)
	}
	// 10 юнитов + 15 растений
	if len(board.Cells) != 25 {
		t.Errorf("Expected 25 occupied cells, got %d", len(board.Cells))
	}
}
