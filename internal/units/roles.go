package units

import (
	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/systems"
)

// Имена ролей. Используются шаблонами, символами на доске и API.
const (
	RolePredator  = "predator"
	RoleScavenger = "scavenger"
	RoleGrazer    = "grazer"
)

// --- Общие предикаты отбора целей ---

// livePrey - живые юниты, кроме хищников: добыча для охоты.
func livePrey(visible []systems.Candidate) []systems.Candidate {
	var out []systems.Candidate
	for _, c := range visible {
		if t, ok := c.Occupant.(*Unit); ok && t.alive && t.Role() != RolePredator {
			out = append(out, c)
		}
	}
	return out
}

// corpses - разлагающиеся тела с остатком энергии.
func corpses(visible []systems.Candidate) []systems.Candidate {
	var out []systems.Candidate
	for _, c := range visible {
		if t, ok := c.Occupant.(*Unit); ok && !t.alive && t.DecayEnergy > 0 {
			out = append(out, c)
		}
	}
	return out
}

// livePlants - живые растения с энергией.
func livePlants(visible []systems.Candidate) []systems.Candidate {
	var out []systems.Candidate
	for _, c := range visible {
		if p, ok := c.Occupant.(*plants.Plant); ok && p.State.Alive && p.State.EnergyContent > 0 {
			out = append(out, c)
		}
	}
	return out
}

// predators - живые хищники, кроме самого спрашивающего.
func predators(visible []systems.Candidate, selfID string) []systems.Candidate {
	var out []systems.Candidate
	for _, c := range visible {
		if t, ok := c.Occupant.(*Unit); ok && t.alive && t.Role() == RolePredator && t.ID != selfID {
			out = append(out, c)
		}
	}
	return out
}

// --- Общие действия ---

// fleeFrom уводит юнита от ближайшей угрозы, начисляя опыт бегства
// за удавшийся ход.
func fleeFrom(u *Unit, b *domain.Board, threats []systems.Candidate) {
	systems.Flee(b, u.Pos, threats, func(to domain.Position) bool {
		if u.MoveTo(b, to) {
			u.GainExperience(ActionFleeing, 1)
			return true
		}
		return false
	})
}

// seekAndEat ищет съедобные цели: соседнюю ест, к дальней идет.
func seekAndEat(u *Unit, b *domain.Board, targets []systems.Candidate) {
	systems.Seek(b, u.Pos, targets, &u.Patrol,
		func(c systems.Candidate) bool { return u.Eat(c.Occupant) },
		func(to domain.Position) bool { return u.MoveTo(b, to) },
	)
}

// seekAndAttack ищет добычу: по соседней бьет, к дальней подкрадывается.
func seekAndAttack(u *Unit, b *domain.Board, targets []systems.Candidate) {
	systems.Seek(b, u.Pos, targets, &u.Patrol,
		func(c systems.Candidate) bool {
			t, ok := c.Occupant.(*Unit)
			return ok && u.Attack(t)
		},
		func(to domain.Position) bool {
			if u.MoveTo(b, to) {
				u.GainExperience(ActionHunting, 1)
				return true
			}
			return false
		},
	)
}
