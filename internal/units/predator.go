package units

import (
	"ecosim-server/internal/domain"
)

// predatorBehavior - охотник. Голодный добирает энергию с трупов,
// раненый убегает от чужих хищников, в остальное время охотится
// на живую добычу.
type predatorBehavior struct{}

func (predatorBehavior) Role() string { return RolePredator }

func (predatorBehavior) Act(u *Unit, b *domain.Board) {
	switch {
	case u.Energy <= 0.3*u.MaxEnergy:
		u.State = StateHungry
	case u.HP < 0.3*u.MaxHP:
		u.State = StateFleeing
	default:
		u.State = StateHunting
	}

	visible := u.Look(b)
	switch u.State {
	case StateHungry:
		seekAndEat(u, b, corpses(visible))
	case StateFleeing:
		fleeFrom(u, b, predators(visible, u.ID))
	case StateHunting:
		seekAndAttack(u, b, livePrey(visible))
	}
}
