package units

import (
	"ecosim-server/internal/domain"
	"ecosim-server/pkg/utils"
)

// Stats - явный набор характеристик для фабрики.
type Stats struct {
	HP       float64
	Energy   float64
	Strength int
	Speed    int
	Vision   int
}

// Ролевые шаблоны: хищник силен, но близорук на фоне падальщика;
// травоядное живучее и медленное.
var roleStats = map[string]Stats{
	RolePredator:  {HP: 100, Energy: 120, Strength: 15, Speed: 2, Vision: 6},
	RoleScavenger: {HP: 80, Energy: 100, Strength: 8, Speed: 3, Vision: 8},
	RoleGrazer:    {HP: 120, Energy: 150, Strength: 5, Speed: 1, Vision: 4},
}

var roleBehaviors = map[string]Behavior{
	RolePredator:  predatorBehavior{},
	RoleScavenger: scavengerBehavior{},
	RoleGrazer:    grazerBehavior{},
}

// New создает юнита по ролевому шаблону. Неизвестная роль дает
// юнита без поведения со статами травоядного.
func New(role, name string, pos domain.Position, tuning Tuning) *Unit {
	stats, ok := roleStats[role]
	if !ok {
		stats = roleStats[RoleGrazer]
	}
	u := NewFromStats(name, pos, stats, tuning)
	u.Behavior = roleBehaviors[role]
	u.log = newUnitLog(u.ID, role)
	return u
}

// RestoreVitals восстанавливает жизненное состояние юнита при
// загрузке сохранения, включая посмертные поля.
func (u *Unit) RestoreVitals(state State, stateDuration, decayStage int, decayEnergy float64) {
	u.State = state
	u.lastState = state
	u.StateDuration = stateDuration
	u.alive = !state.Terminal()
	u.DecayStage = decayStage
	u.DecayEnergy = decayEnergy
}

// NewFromStats создает юнита с явными характеристиками, без ролевого
// поведения.
func NewFromStats(name string, pos domain.Position, stats Stats, tuning Tuning) *Unit {
	u := &Unit{
		ID:           "unit_" + utils.GenerateID(),
		Name:         name,
		Pos:          pos,
		HP:           stats.HP,
		MaxHP:        stats.HP,
		Energy:       stats.Energy,
		MaxEnergy:    stats.Energy,
		Strength:     stats.Strength,
		BaseStrength: stats.Strength,
		Speed:        stats.Speed,
		BaseSpeed:    stats.Speed,
		Vision:       stats.Vision,
		BaseVision:   stats.Vision,

		initialStrength: stats.Strength,
		initialEnergy:   stats.Energy,
		initialSpeed:    stats.Speed,
		initialVision:   stats.Vision,
		State:        StateIdle,
		lastState:    StateIdle,
		alive:        true,
		Level:        1,
		ActionCounts: make(map[string]int),
		Tuning:       tuning,
	}
	u.log = newUnitLog(u.ID, "unit")
	return u
}
