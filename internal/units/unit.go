package units

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/systems"
	"ecosim-server/pkg/logger"
)

// Behavior - ролевая стратегия поведения юнита. Вызывается после
// общего обновления ядра, когда юнит жив и не отдыхает.
type Behavior interface {
	Role() string
	Act(u *Unit, b *domain.Board)
}

// Unit - актор симуляции: хищник, падальщик или травоядное.
// Текущие strength/speed/vision - однократные переопределения на ход,
// сбрасываемые к базовым в начале каждого обновления.
type Unit struct {
	ID   string
	Name string
	Pos  domain.Position

	HP        float64
	MaxHP     float64
	Energy    float64
	MaxEnergy float64

	Strength     int
	BaseStrength int
	Speed        int
	BaseSpeed    int
	Vision       int
	BaseVision   int

	// Шаблонные значения на момент создания - точка отсчета бонусов
	// за уровни. Сами по себе никогда не меняются.
	initialStrength int
	initialEnergy   float64
	initialSpeed    int
	initialVision   int

	State         State
	StateDuration int
	lastState     State
	alive         bool

	DecayStage  int
	DecayEnergy float64

	Experience   float64
	Level        int
	Traits       []string
	ActionCounts map[string]int

	// EnvVisionScale - множитель зрения от времени суток.
	// Выставляется оркестратором перед обновлением.
	EnvVisionScale float64

	// Removed выставляется после полного разложения, когда труп
	// снят с доски. Оркестратор убирает такого юнита из списка.
	Removed bool

	Behavior Behavior
	Patrol   systems.PatrolState
	Tuning   Tuning

	log *logrus.Entry
}

// --- Способности для доски ---

func (u *Unit) EntityID() string { return u.ID }

func (u *Unit) IsAlive() bool { return u.alive }

func (u *Unit) MaxStep() int { return u.Speed }

func (u *Unit) Position() domain.Position { return u.Pos }

func (u *Unit) SetPosition(x, y int) { u.Pos = domain.Position{X: x, Y: y} }

func (u *Unit) Symbol() string {
	switch {
	case u.State == StateDecaying:
		return "x"
	case !u.alive:
		return "X"
	case u.Behavior != nil:
		return roleSymbol(u.Behavior.Role())
	default:
		return "U"
	}
}

// --- Обновление ядра ---

// Update выполняет один ход юнита: общее обновление ядра, затем
// ролевую логику, если она задана и юнит дееспособен.
func (u *Unit) Update(b *domain.Board) {
	u.coreUpdate(b)
	if u.Behavior != nil && u.alive && u.State != StateResting {
		u.Behavior.Act(u, b)
	}
}

func (u *Unit) coreUpdate(b *domain.Board) {
	// Смерть фиксируется ровно один раз.
	if u.alive && u.HP <= 0 {
		u.die()
		return
	}

	// Разложение трупа.
	if !u.alive {
		u.DecayStage++
		u.DecayEnergy *= 1 - u.Tuning.DecayRate
		if u.DecayStage > 5 {
			u.State = StateDecaying
		}
		if u.DecayStage >= 11 && !u.Removed {
			b.RemoveObject(u.Pos.X, u.Pos.Y)
			u.Removed = true
			u.logEntry().Debug("Corpse fully decayed, removed from board")
		}
		return
	}

	// Сброс характеристик к базовым. Ночной штраф к зрению входит
	// в базу этого хода, модификаторы состояний ложатся поверх.
	u.Strength = u.BaseStrength
	u.Speed = u.BaseSpeed
	scale := u.EnvVisionScale
	if scale == 0 {
		scale = 1.0
	}
	u.Vision = int(float64(u.BaseVision) * scale)

	// Защита от залипания в одном состоянии.
	if u.StateDuration > 10 && !stuckExempt(u.State) &&
		u.Energy > 0.4*u.MaxEnergy && u.HP > 0.3*u.MaxHP {
		u.State = StateWandering
		u.StateDuration = 0
		u.lastState = u.State
		return
	}

	if u.State == u.lastState {
		u.StateDuration++
	} else {
		u.StateDuration = 0
		u.lastState = u.State
	}

	// Приоритетная цепочка переходов, срабатывает первое условие.
	switch {
	case u.Energy <= 0.2*u.MaxEnergy:
		u.State = StateResting
	case u.HP < 0.3*u.MaxHP:
		u.State = StateFleeing
		u.Speed = int(1.5*float64(u.BaseSpeed)) + 1
	case u.Energy <= 0.4*u.MaxEnergy:
		u.State = StateFeeding
	case u.State == StateResting && u.Energy > u.Tuning.RestingExitRatio*u.MaxEnergy:
		u.State = StateWandering
	case u.State == StateFeeding && u.Energy > 0.9*u.MaxEnergy:
		u.State = StateWandering
	}

	// Нетерпение: слишком долгий отдых прерывается, если энергии
	// уже достаточно для дел.
	if u.State == StateResting && u.StateDuration >= u.Tuning.MaxRestingTurns &&
		u.Energy > u.Tuning.MinRestExitRatio*u.MaxEnergy {
		u.State = StateWandering
		u.StateDuration = 0
	}

	// Модификаторы активного состояния.
	switch u.State {
	case StateHunting:
		u.Strength = int(float64(u.BaseStrength) * 1.2)
		u.Vision = int(float64(u.Vision) * 1.5)
	case StateResting:
		u.Energy = math.Min(u.Energy+2, u.MaxEnergy)
	}
}

func stuckExempt(s State) bool {
	return s == StateDead || s == StateDecaying || s == StateResting || s == StateWandering
}

func (u *Unit) die() {
	u.alive = false
	u.State = StateDead
	u.StateDuration = 0
	u.lastState = StateDead
	u.DecayStage = 0
	u.DecayEnergy = u.Energy
	u.logEntry().WithField("decay_energy", u.DecayEnergy).Info("Unit died")
}

// ApplyPassiveCost снимает пассивный расход энергии за ход.
// Ночью расход полуторный. Энергия не уходит ниже нуля.
func (u *Unit) ApplyPassiveCost(night bool) {
	cost := u.Tuning.Costs.Passive
	if night {
		cost *= 1.5
	}
	u.Energy -= cost
	if u.Energy < 0 {
		u.Energy = 0
	}
}

// --- Действия ---

// Move смещает юнита на (dx,dy) через доску. Ложь - ход не состоялся:
// неподходящее состояние, занятая клетка или нехватка энергии.
func (u *Unit) Move(b *domain.Board, dx, dy int) bool {
	switch u.State {
	case StateDead, StateDecaying, StateResting, StateFeeding:
		return false
	}

	// Ход не должен увести энергию в минус. Страховой запас в один
	// балл требуется только когда он у юнита и так есть, поэтому
	// фактический отказ - нехватка энергии на сам шаг.
	cost := u.Tuning.Costs.Move
	if u.Energy < cost {
		return false
	}

	target := u.Pos.Shift(dx, dy)
	if !b.MoveObject(u.Pos.X, u.Pos.Y, target.X, target.Y, false) {
		return false
	}
	u.Energy -= cost
	return true
}

// MoveTo - перемещение в конкретную клетку, для ролевых алгоритмов.
func (u *Unit) MoveTo(b *domain.Board, to domain.Position) bool {
	return u.Move(b, to.X-u.Pos.X, to.Y-u.Pos.Y)
}

// Look осматривает окрестности: юниты (включая трупы) в евклидовом
// радиусе зрения с линией обзора. Радиус зависит от состояния:
// охота x1.5, бегство x1.2. Результат отсортирован по манхэттенскому
// расстоянию. Осмотр стоит энергии, энергия не уходит ниже нуля.
func (u *Unit) Look(b *domain.Board) []systems.Candidate {
	if !u.alive {
		return nil
	}

	u.Energy -= u.Tuning.Costs.Look
	if u.Energy < 0 {
		u.Energy = 0
	}

	return u.collect(b, b.UnitsInRange(u.Pos.X, u.Pos.Y, u.lookRange()))
}

// LookPlants ищет растения квадратным сканом без линии обзора:
// юниты помнят, где растет трава, даже за камнями. Отдельной цены
// нет - за восприятие уже заплачено в Look.
func (u *Unit) LookPlants(b *domain.Board) []systems.Candidate {
	if !u.alive {
		return nil
	}
	return u.collect(b, b.PlantsInRange(u.Pos.X, u.Pos.Y, u.lookRange()))
}

// lookRange - текущий радиус восприятия с множителем состояния.
func (u *Unit) lookRange() int {
	rng := float64(u.Vision)
	switch u.State {
	case StateHunting:
		rng *= 1.5
	case StateFleeing:
		rng *= 1.2
	}
	return int(rng)
}

func (u *Unit) collect(b *domain.Board, objs []domain.Occupant) []systems.Candidate {
	var found []systems.Candidate
	for _, obj := range objs {
		pos, ok := b.ObjectPosition(obj)
		if !ok {
			continue
		}
		found = append(found, systems.Candidate{Occupant: obj, Pos: pos})
	}
	sort.Slice(found, func(i, j int) bool {
		return u.Pos.ManhattanTo(found[i].Pos) < u.Pos.ManhattanTo(found[j].Pos)
	})
	return found
}

// Eat кормит юнита от цели: живого растения или разлагающегося трупа.
// Труп отдает энергию с коэффициентом усвоения 0.8, причем его запас
// уменьшается на затребованное количество, а не на усвоенное.
func (u *Unit) Eat(target domain.Occupant) bool {
	if u.State.Terminal() || target == nil || u.Energy >= u.MaxEnergy {
		return false
	}

	capacity := u.MaxEnergy - u.Energy
	var gained float64

	switch t := target.(type) {
	case domain.Consumable:
		gained = t.Consume(capacity)
	case *Unit:
		if t.alive || t.DecayEnergy <= 0 {
			return false
		}
		attempted := math.Min(t.DecayEnergy, capacity)
		gained = attempted * 0.8
		t.DecayEnergy -= attempted
	default:
		return false
	}

	if gained <= 0 {
		return false
	}
	u.Energy = math.Min(u.Energy+gained, u.MaxEnergy)
	u.State = StateFeeding
	u.GainExperience(ActionFeeding, 1)
	return true
}

// Attack наносит цели урон max(1, strength) с множителем состояния:
// охота x1.5, бегство x0.5. Стоит энергии; без энергии удара нет.
func (u *Unit) Attack(target *Unit) bool {
	if target == nil || !u.alive || !target.alive {
		return false
	}
	switch u.State {
	case StateDead, StateDecaying, StateFeeding:
		return false
	}

	cost := u.Tuning.Costs.Attack
	if u.Energy < cost {
		return false
	}

	damage := math.Max(1, float64(u.Strength))
	switch u.State {
	case StateHunting:
		damage *= 1.5
	case StateFleeing:
		damage *= 0.5
	}

	u.Energy -= cost
	target.HP -= damage
	if target.HP <= 0 {
		target.HP = 0
		target.die()
	}

	u.logEntry().WithFields(logrus.Fields{
		"target": target.ID,
		"damage": damage,
	}).Debug("Attack landed")
	u.GainExperience(ActionCombat, 2)
	return true
}

// --- Опыт и уровни ---

// GainExperience засчитывает успешное действие и копит общий опыт.
// Порог нового уровня - level x 10.
func (u *Unit) GainExperience(action string, amount float64) {
	if u.ActionCounts == nil {
		u.ActionCounts = make(map[string]int)
	}
	u.ActionCounts[action]++
	u.Experience += amount
	for u.Experience >= float64(u.Level*10) {
		u.levelUp()
	}
}

// levelUp повышает уровень, усиливает базовую характеристику
// доминирующей специализации до initial x (1 + 10% x (уровень-1)),
// выдает черту специализации и полностью восстанавливает юнита.
// Бонус считается от шаблонного значения, а не от текущего, иначе
// рост стал бы сложным процентом.
func (u *Unit) levelUp() {
	u.Level++

	dominant := actionOrder[0]
	best := -1
	for _, a := range actionOrder {
		if c := u.ActionCounts[a]; c > best {
			dominant, best = a, c
		}
	}

	boost := 1 + 0.1*float64(u.Level-1)
	switch dominant {
	case ActionCombat:
		u.BaseStrength = int(float64(u.initialStrength) * boost)
	case ActionFeeding:
		u.MaxEnergy = u.initialEnergy * boost
	case ActionFleeing:
		u.BaseSpeed = int(float64(u.initialSpeed) * boost)
	case ActionHunting:
		u.BaseVision = int(float64(u.initialVision) * boost)
	}

	if trait := traitByAction[dominant]; trait != "" && !u.hasTrait(trait) {
		u.Traits = append(u.Traits, trait)
	}

	u.HP = u.MaxHP
	u.Energy = u.MaxEnergy

	u.logEntry().WithFields(logrus.Fields{
		"level":    u.Level,
		"dominant": dominant,
	}).Info("Unit leveled up")
}

func (u *Unit) hasTrait(name string) bool {
	for _, t := range u.Traits {
		if t == name {
			return true
		}
	}
	return false
}

func (u *Unit) Role() string {
	if u.Behavior != nil {
		return u.Behavior.Role()
	}
	return "unit"
}

func roleSymbol(role string) string {
	switch role {
	case RolePredator:
		return "P"
	case RoleScavenger:
		return "S"
	case RoleGrazer:
		return "G"
	default:
		return "U"
	}
}

func (u *Unit) logEntry() *logrus.Entry {
	if u.log == nil {
		u.log = newUnitLog(u.ID, u.Role())
	}
	return u.log
}

func newUnitLog(id, role string) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "unit",
		"unit_id":   id,
		"role":      role,
	})
}
