package units

import (
	"ecosim-server/internal/domain"
)

// scavengerBehavior - падальщик. Кормится трупами, при их отсутствии
// добирает энергию растениями; от хищников держится подальше.
type scavengerBehavior struct{}

func (scavengerBehavior) Role() string { return RoleScavenger }

func (scavengerBehavior) Act(u *Unit, b *domain.Board) {
	switch {
	case u.Energy <= 0.3*u.MaxEnergy:
		u.State = StateHungry
	case u.HP < 0.3*u.MaxHP:
		u.State = StateFleeing
	default:
		u.State = StateScavenging
	}

	visible := u.Look(b)
	switch u.State {
	case StateFleeing:
		fleeFrom(u, b, predators(visible, u.ID))
	case StateHungry, StateScavenging:
		// Трупы в приоритете, растения - запасной рацион.
		targets := corpses(visible)
		if len(targets) == 0 {
			targets = livePlants(u.LookPlants(b))
		}
		seekAndEat(u, b, targets)
	}
}
