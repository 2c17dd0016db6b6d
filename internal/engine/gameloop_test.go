package engine

import (
	"math/rand"
	"testing"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
)

func newTestLoop(t *testing.T) *GameLoop {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	board := domain.NewBoard(10, 10, false, rng)
	pm := plants.NewManager(board, rng, plants.Settings{MaxCount: 10, MinEnergy: 1})
	return NewGameLoop(board, pm, rng, 10, 1000)
}

func addUnit(t *testing.T, loop *GameLoop, role string, x, y int) *units.Unit {
	t.Helper()
	u := units.New(role, role, domain.Position{X: x, Y: y}, units.DefaultTuning())
	if !loop.Board.PlaceObject(u, x, y) {
		t.Fatalf("Failed to place %s at (%d,%d)", role, x, y)
	}
	loop.AddUnit(u)
	return u
}

func TestDayNightCycle(t *testing.T) {
	loop := newTestLoop(t)

	// Первые cycle_length ходов - день
	for i := 0; i < 9; i++ {
		loop.ProcessTurn()
	}
	if loop.Time != TimeDay {
		t.Errorf("Expected day at turn %d, got %s", loop.Turn, loop.Time)
	}

	// Ход 10 переключает на ночь
	loop.ProcessTurn()
	if loop.Time != TimeNight {
		t.Errorf("Expected night at turn %d, got %s", loop.Turn, loop.Time)
	}

	// Ход 20 возвращает день
	for i := 0; i < 10; i++ {
		loop.ProcessTurn()
	}
	if loop.Time != TimeDay {
		t.Errorf("Expected day at turn %d, got %s", loop.Turn, loop.Time)
	}
}

func TestSeasonRoundRobin(t *testing.T) {
	loop := newTestLoop(t)

	if loop.Season != SeasonSpring {
		t.Errorf("Expected spring at start, got %s", loop.Season)
	}

	// Сезон длится 4 x cycle_length = 40 ходов
	for i := 0; i < 40; i++ {
		loop.ProcessTurn()
	}
	if loop.Season != SeasonSummer {
		t.Errorf("Expected summer at turn 40, got %s", loop.Season)
	}

	for i := 0; i < 40; i++ {
		loop.ProcessTurn()
	}
	if loop.Season != SeasonAutumn {
		t.Errorf("Expected autumn at turn 80, got %s", loop.Season)
	}

	// Полный круг: 4 сезона по 40 ходов
	for i := 0; i < 80; i++ {
		loop.ProcessTurn()
	}
	if loop.Season != SeasonSpring {
		t.Errorf("Expected spring again at turn 160, got %s", loop.Season)
	}
}

func TestTurnCounterAndStop(t *testing.T) {
	loop := newTestLoop(t)
	loop.MaxTurns = 5

	for i := 0; i < 5; i++ {
		loop.ProcessTurn()
	}
	if loop.Turn != 5 {
		t.Errorf("Expected 5 turns, got %d", loop.Turn)
	}
	if loop.Running() {
		t.Error("Loop must stop itself at max turns")
	}
}

func TestCorpseLifecycleInLoop(t *testing.T) {
	loop := newTestLoop(t)
	u := addUnit(t, loop, units.RoleGrazer, 5, 5)

	u.HP = 0

	// Ход первый: фиксация смерти
	loop.ProcessTurn()
	if u.IsAlive() {
		t.Fatal("Unit must be dead after its update")
	}

	// Труп разлагается и в конце концов снимается с доски и из списка
	for i := 0; i < 12; i++ {
		loop.ProcessTurn()
	}
	if !u.Removed {
		t.Error("Corpse must be removed after full decay")
	}
	if loop.Board.ObjectAt(5, 5) != nil {
		t.Error("Board cell must be free after corpse removal")
	}
	for _, rest := range loop.Units {
		if rest == u {
			t.Error("Removed unit must be pruned from the actor list")
		}
	}
}

func TestPlantsGrowBySeason(t *testing.T) {
	loop := newTestLoop(t)
	p := plants.New("basic", domain.Position{X: 3, Y: 3})
	loop.Board.PlaceObject(p, 3, 3)
	loop.Plants.Adopt(p)

	p.Consume(50) // Съедено, начинает отрастать

	loop.ProcessTurn()
	// Весна: 0.08 * 1.2
	want := 0.08 * 1.2
	if diff := p.State.GrowthStage - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected growth %v after one spring turn, got %v", want, p.State.GrowthStage)
	}
}

func TestCollectStats(t *testing.T) {
	loop := newTestLoop(t)
	addUnit(t, loop, units.RolePredator, 1, 1)
	addUnit(t, loop, units.RoleGrazer, 3, 3)
	g := addUnit(t, loop, units.RoleGrazer, 5, 5)
	g.HP = 0
	loop.ProcessTurn()

	st := loop.CollectStats()
	if st.Predators != 1 {
		t.Errorf("Expected 1 predator, got %d", st.Predators)
	}
	if st.Grazers != 1 {
		t.Errorf("Expected 1 live grazer, got %d", st.Grazers)
	}
	if st.DeadUnits != 1 {
		t.Errorf("Expected 1 dead unit, got %d", st.DeadUnits)
	}
	if st.Turn != 1 {
		t.Errorf("Expected turn 1, got %d", st.Turn)
	}
}
