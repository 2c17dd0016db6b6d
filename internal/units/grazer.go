package units

import (
	"ecosim-server/internal/domain"
)

// grazerBehavior - травоядное. Первым делом спасается от хищников,
// потом уже думает о еде.
type grazerBehavior struct{}

func (grazerBehavior) Role() string { return RoleGrazer }

func (grazerBehavior) Act(u *Unit, b *domain.Board) {
	switch {
	case u.HP < 0.3*u.MaxHP:
		u.State = StateFleeing
	case u.Energy <= 0.3*u.MaxEnergy:
		u.State = StateHungry
	default:
		u.State = StateGrazing
	}

	visible := u.Look(b)
	switch u.State {
	case StateFleeing:
		fleeFrom(u, b, predators(visible, u.ID))
	case StateHungry, StateGrazing:
		seekAndEat(u, b, livePlants(u.LookPlants(b)))
	}
}
