package units

import (
	"math"
	"math/rand"
	"testing"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
)

func newTestBoard(t *testing.T) *domain.Board {
	t.Helper()
	return domain.NewBoard(10, 10, false, rand.New(rand.NewSource(42)))
}

func newTestUnit(t *testing.T, b *domain.Board, x, y int, stats Stats) *Unit {
	t.Helper()
	u := NewFromStats("test", domain.Position{X: x, Y: y}, stats, DefaultTuning())
	if !b.PlaceObject(u, x, y) {
		t.Fatalf("Failed to place unit at (%d,%d)", x, y)
	}
	return u
}

func TestMoveStepAndEnergyCost(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})

	if !u.Move(b, 1, 0) {
		t.Fatal("Expected move to succeed")
	}
	if u.Pos != (domain.Position{X: 6, Y: 5}) {
		t.Errorf("Expected position (6,5), got %v", u.Pos)
	}
	// Цена хода по умолчанию 1
	if u.Energy != 99 {
		t.Errorf("Expected energy 99 after move, got %v", u.Energy)
	}
}

func TestMoveRejections(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})

	// Диагональ на кардинальной доске
	if u.Move(b, 1, 1) {
		t.Error("Expected diagonal move to fail on cardinal board")
	}
	if u.Pos != (domain.Position{X: 5, Y: 5}) {
		t.Errorf("Position must be unchanged, got %v", u.Pos)
	}

	// Занятая клетка
	newTestUnit(t, b, 6, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})
	if u.Move(b, 1, 0) {
		t.Error("Expected move into occupied cell to fail")
	}

	// Нехватка энергии
	u.Energy = 0.5
	if u.Move(b, -1, 0) {
		t.Error("Expected move without energy to fail")
	}

	// Запрещенные состояния
	u.Energy = 100
	for _, st := range []State{StateResting, StateFeeding, StateDead, StateDecaying} {
		u.State = st
		if u.Move(b, -1, 0) {
			t.Errorf("Expected move to fail in state %s", st)
		}
	}
}

func TestAttackPlainDamage(t *testing.T) {
	b := newTestBoard(t)
	attacker := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 100, Strength: 15, Speed: 1, Vision: 5})
	defender := newTestUnit(t, b, 2, 1, Stats{HP: 50, Energy: 100, Strength: 5, Speed: 1, Vision: 5})

	// Без модификаторов состояния урон равен силе
	if !attacker.Attack(defender) {
		t.Fatal("Expected attack to succeed")
	}
	if defender.HP != 35 {
		t.Errorf("Expected defender hp 35, got %v", defender.HP)
	}
	// Цена удара по умолчанию 2
	if attacker.Energy != 98 {
		t.Errorf("Expected attacker energy 98, got %v", attacker.Energy)
	}
}

func TestAttackStateMultipliers(t *testing.T) {
	b := newTestBoard(t)
	attacker := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})
	defender := newTestUnit(t, b, 2, 1, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 5})

	attacker.State = StateHunting
	attacker.Attack(defender)
	if defender.HP != 85 {
		t.Errorf("Hunting attack must deal 15, defender hp = %v", defender.HP)
	}

	attacker.State = StateFleeing
	attacker.Attack(defender)
	if defender.HP != 80 {
		t.Errorf("Fleeing attack must deal 5, defender hp = %v", defender.HP)
	}
}

func TestAttackRejections(t *testing.T) {
	b := newTestBoard(t)
	attacker := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 1, Strength: 10, Speed: 1, Vision: 5})
	defender := newTestUnit(t, b, 2, 1, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 5})

	// Энергии меньше цены удара: ни урона, ни списания
	if attacker.Attack(defender) {
		t.Error("Expected attack to fail without energy")
	}
	if defender.HP != 100 || attacker.Energy != 1 {
		t.Error("Failed attack must not touch hp or energy")
	}

	// Кормящийся не атакует
	attacker.Energy = 100
	attacker.State = StateFeeding
	if attacker.Attack(defender) {
		t.Error("Expected attack to fail while feeding")
	}
}

func TestAttackKillsDefender(t *testing.T) {
	b := newTestBoard(t)
	attacker := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 100, Strength: 20, Speed: 1, Vision: 5})
	defender := newTestUnit(t, b, 2, 1, Stats{HP: 10, Energy: 60, Strength: 5, Speed: 1, Vision: 5})

	attacker.Attack(defender)
	if defender.HP != 0 {
		t.Errorf("HP must clamp to 0, got %v", defender.HP)
	}
	if defender.IsAlive() {
		t.Error("Defender must be dead")
	}
	if defender.State != StateDead {
		t.Errorf("Expected dead state, got %s", defender.State)
	}
	// Запас энергии трупа равен энергии на момент смерти
	if defender.DecayEnergy != 60 {
		t.Errorf("Expected decay energy 60, got %v", defender.DecayEnergy)
	}
}

func TestDeathTransitionIsIdempotent(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 3, 3, Stats{HP: 10, Energy: 80, Strength: 5, Speed: 1, Vision: 5})

	u.HP = 0
	u.Update(b)
	if u.IsAlive() || u.State != StateDead {
		t.Fatal("Expected dead transition on first update")
	}
	if u.DecayStage != 0 || u.DecayEnergy != 80 {
		t.Errorf("Expected decay_stage 0 and decay_energy 80, got %d / %v", u.DecayStage, u.DecayEnergy)
	}

	// Повторные обновления только продвигают разложение
	u.Update(b)
	if u.DecayStage != 1 {
		t.Errorf("Expected decay stage 1, got %d", u.DecayStage)
	}
	if u.State != StateDead {
		t.Errorf("Second update must not re-run the death transition, state %s", u.State)
	}
}

func TestDecayPipeline(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 3, 3, Stats{HP: 10, Energy: 100, Strength: 5, Speed: 1, Vision: 5})

	u.HP = 0
	u.Update(b) // Переход в dead, decay_energy = 100

	// Три хода разложения: 100 * 0.9^3
	for i := 0; i < 3; i++ {
		u.Update(b)
	}
	if math.Abs(u.DecayEnergy-72.9) > 0.001 {
		t.Errorf("Expected decay energy ~72.9, got %v", u.DecayEnergy)
	}

	// После стадии 5 труп переходит в decaying
	for u.DecayStage <= 5 {
		u.Update(b)
	}
	if u.State != StateDecaying {
		t.Errorf("Expected decaying state after stage 5, got %s", u.State)
	}

	// На стадии 11 труп снимается с доски
	for u.DecayStage < 11 {
		u.Update(b)
	}
	if !u.Removed {
		t.Error("Unit must be marked removed at decay stage 11")
	}
	if b.ObjectAt(3, 3) != nil {
		t.Error("Corpse must be removed from the board")
	}
}

func TestEatPlant(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 5})
	u.Energy = 70

	p := plants.New("basic", domain.Position{X: 2, Y: 1})
	b.PlaceObject(p, 2, 1)

	if !u.Eat(p) {
		t.Fatal("Expected eating a live plant to succeed")
	}
	// Запрошено 30 (до максимума), растение отдало 30
	if u.Energy != 100 {
		t.Errorf("Expected energy 100, got %v", u.Energy)
	}
	if u.State != StateFeeding {
		t.Errorf("Expected feeding state, got %s", u.State)
	}

	// Сытый юнит не ест
	if u.Eat(p) {
		t.Error("Expected eating at full energy to fail")
	}
}

func TestEatCorpseAbsorption(t *testing.T) {
	b := newTestBoard(t)
	eater := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 5})
	corpse := newTestUnit(t, b, 2, 1, Stats{HP: 10, Energy: 50, Strength: 5, Speed: 1, Vision: 5})

	corpse.HP = 0
	corpse.Update(b) // Фиксация смерти, decay_energy = 50
	eater.Energy = 60

	if !eater.Eat(corpse) {
		t.Fatal("Expected eating a corpse to succeed")
	}
	// Затребовано min(50, 40) = 40, усвоено 40 * 0.8 = 32
	if eater.Energy != 92 {
		t.Errorf("Expected energy 92, got %v", eater.Energy)
	}
	// Труп теряет затребованное, а не усвоенное
	if corpse.DecayEnergy != 10 {
		t.Errorf("Expected corpse decay energy 10, got %v", corpse.DecayEnergy)
	}
}

func TestEatRejectsLiveUnit(t *testing.T) {
	b := newTestBoard(t)
	eater := newTestUnit(t, b, 1, 1, Stats{HP: 100, Energy: 50, Strength: 5, Speed: 1, Vision: 5})
	alive := newTestUnit(t, b, 2, 1, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 5})

	if eater.Eat(alive) {
		t.Error("Expected eating a live unit to fail")
	}
	if eater.Eat(nil) {
		t.Error("Expected eating nil to fail")
	}
}

func TestLookUsesEuclideanRange(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 3})

	// Диагональное смещение (2,2): евклидово ~2.83 в радиусе 3,
	// хотя манхэттенское расстояние равно 4
	corpse := newTestUnit(t, b, 7, 7, Stats{HP: 10, Energy: 50, Strength: 5, Speed: 1, Vision: 3})
	corpse.HP = 0
	corpse.Update(b)

	// А это уже за пределами радиуса
	far := newTestUnit(t, b, 9, 9, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 3})

	found := u.Look(b)
	sawCorpse, sawFar := false, false
	for _, c := range found {
		if c.Occupant == corpse {
			sawCorpse = true
		}
		if c.Occupant == far {
			sawFar = true
		}
	}
	if !sawCorpse {
		t.Error("Corpse at euclidean distance 2.83 must be visible with vision 3")
	}
	if sawFar {
		t.Error("Unit at euclidean distance 5.66 must be out of vision 3")
	}
}

func TestLookReturnsUnitsNotPlants(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 3})

	p := plants.New("basic", domain.Position{X: 6, Y: 5})
	b.PlaceObject(p, 6, 5)
	other := newTestUnit(t, b, 5, 7, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 3})

	sawUnit := false
	for _, c := range u.Look(b) {
		if c.Occupant == p {
			t.Error("Look must not return plants")
		}
		if c.Occupant == other {
			sawUnit = true
		}
	}
	if !sawUnit {
		t.Error("Expected the other unit in look results")
	}
}

func TestLookPlantsSensesThroughObstacles(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 5, Speed: 1, Vision: 3})

	b.PlaceObject(domain.NewObstacle("rock_1"), 6, 5)
	p := plants.New("basic", domain.Position{X: 7, Y: 5})
	b.PlaceObject(p, 7, 5)
	corpse := newTestUnit(t, b, 8, 5, Stats{HP: 10, Energy: 50, Strength: 5, Speed: 1, Vision: 3})
	corpse.HP = 0
	corpse.Update(b)

	// Растение за камнем чуется: квадратный скан без линии обзора
	sawPlant := false
	for _, c := range u.LookPlants(b) {
		if c.Occupant == p {
			sawPlant = true
		}
	}
	if !sawPlant {
		t.Error("Plant behind an obstacle must be sensed")
	}

	// Труп за камнем не виден: юнитам нужна линия обзора
	for _, c := range u.Look(b) {
		if c.Occupant == corpse {
			t.Error("Corpse behind an obstacle must not be visible")
		}
	}
}

func TestStateTransitionPriority(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 2, Vision: 5})

	// Энергия <= 20% -> отдых
	u.Energy = 15
	u.Update(b)
	if u.State != StateResting {
		t.Errorf("Expected resting at low energy, got %s", u.State)
	}

	// Низкое hp при достатке энергии -> бегство с ускорением
	u.Energy = 100
	u.State = StateIdle
	u.HP = 20
	u.Update(b)
	if u.State != StateFleeing {
		t.Errorf("Expected fleeing at low hp, got %s", u.State)
	}
	// 1.5 * 2 + 1 = 4
	if u.Speed != 4 {
		t.Errorf("Expected boosted speed 4, got %d", u.Speed)
	}

	// Энергия <= 40% при здоровом hp -> кормежка
	u.HP = 100
	u.Energy = 35
	u.State = StateIdle
	u.Update(b)
	if u.State != StateFeeding {
		t.Errorf("Expected feeding at 35%% energy, got %s", u.State)
	}
}

func TestRestingRegeneratesEnergy(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})

	u.Energy = 10
	u.Update(b)
	if u.State != StateResting {
		t.Fatalf("Expected resting, got %s", u.State)
	}
	// +2 за ход отдыха
	if u.Energy != 12 {
		t.Errorf("Expected energy 12 after resting tick, got %v", u.Energy)
	}
}

func TestNightVisionScale(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 6})

	u.EnvVisionScale = 0.5
	u.Update(b)
	if u.Vision != 3 {
		t.Errorf("Expected vision 3 at night, got %d", u.Vision)
	}
}

func TestHuntingStatModifiers(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 6})

	u.State = StateHunting
	u.lastState = StateHunting
	u.Update(b)
	// Охота: сила x1.2, зрение x1.5 поверх базы хода
	if u.Strength != 12 {
		t.Errorf("Expected strength 12 while hunting, got %d", u.Strength)
	}
	if u.Vision != 9 {
		t.Errorf("Expected vision 9 while hunting, got %d", u.Vision)
	}
}

func TestPassiveCost(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 10, Strength: 10, Speed: 1, Vision: 5})

	u.ApplyPassiveCost(false)
	if u.Energy != 9.5 {
		t.Errorf("Expected energy 9.5 after day cost, got %v", u.Energy)
	}
	u.ApplyPassiveCost(true)
	if math.Abs(u.Energy-8.75) > 1e-9 {
		t.Errorf("Expected energy 8.75 after night cost, got %v", u.Energy)
	}

	u.Energy = 0.1
	u.ApplyPassiveCost(true)
	if u.Energy != 0 {
		t.Errorf("Passive cost must floor at zero, got %v", u.Energy)
	}
}

func TestGainExperienceAndLevelUp(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})
	u.HP = 50
	u.Energy = 50

	u.GainExperience(ActionCombat, 4)
	if u.Level != 1 {
		t.Errorf("4 experience must not level up, level %d", u.Level)
	}

	// Порог первого уровня - 10 опыта
	u.GainExperience(ActionCombat, 6)
	if u.Level != 2 {
		t.Fatalf("Expected level 2, got %d", u.Level)
	}
	// Доминирует combat: сила растет на 10% x (2-1)
	if u.BaseStrength != 11 {
		t.Errorf("Expected base strength 11, got %d", u.BaseStrength)
	}
	if !u.hasTrait("battle_hardened") {
		t.Errorf("Expected battle_hardened trait, got %v", u.Traits)
	}
	// Полное восстановление
	if u.HP != u.MaxHP || u.Energy != u.MaxEnergy {
		t.Error("Level up must fully restore hp and energy")
	}
}

func TestLevelBoostFromOriginalStats(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})

	u.GainExperience(ActionCombat, 10)
	u.GainExperience(ActionCombat, 10)
	if u.Level != 3 {
		t.Fatalf("Expected level 3 after 20 experience, got %d", u.Level)
	}
	// 10 x (1 + 0.1 x 2) = 12: бонус от исходной силы,
	// а не сложный процент от уже подросшей
	if u.BaseStrength != 12 {
		t.Errorf("Expected base strength 12 at level 3, got %d", u.BaseStrength)
	}
}

func TestStuckStateForcesWandering(t *testing.T) {
	b := newTestBoard(t)
	u := newTestUnit(t, b, 5, 5, Stats{HP: 100, Energy: 100, Strength: 10, Speed: 1, Vision: 5})

	u.State = StateHunting
	u.lastState = StateHunting
	u.StateDuration = 11
	u.Update(b)
	if u.State != StateWandering {
		t.Errorf("Expected forced wandering after being stuck, got %s", u.State)
	}
	if u.StateDuration != 0 {
		t.Errorf("Expected reset state duration, got %d", u.StateDuration)
	}
}
