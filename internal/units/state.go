package units

// State - состояние конечного автомата юнита.
type State string

const (
	StateIdle       State = "idle"
	StateWandering  State = "wandering"
	StateHunting    State = "hunting"
	StateFleeing    State = "fleeing"
	StateFeeding    State = "feeding"
	StateResting    State = "resting"
	StateScavenging State = "scavenging"
	StateGrazing    State = "grazing"
	StateHungry     State = "hungry"
	StateCombat     State = "combat"
	StateDead       State = "dead"
	StateDecaying   State = "decaying"
)

// Terminal возвращает true для посмертных состояний.
func (s State) Terminal() bool {
	return s == StateDead || s == StateDecaying
}

// Типы действий для счетчиков опыта.
const (
	ActionCombat  = "combat"
	ActionFeeding = "feeding"
	ActionFleeing = "fleeing"
	ActionHunting = "hunting"
)

// actionOrder задает детерминированный порядок разрешения ничьих
// при выборе доминирующей специализации.
var actionOrder = []string{ActionCombat, ActionFeeding, ActionFleeing, ActionHunting}

// Черты, получаемые при повышении уровня, по специализациям.
var traitByAction = map[string]string{
	ActionCombat:  "battle_hardened",
	ActionFeeding: "efficient_digestion",
	ActionFleeing: "swift_escape",
	ActionHunting: "keen_senses",
}
