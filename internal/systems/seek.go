package systems

import (
	"sort"

	"ecosim-server/internal/domain"
)

// Candidate - видимая цель с ее позицией на доске.
type Candidate struct {
	Occupant domain.Occupant
	Pos      domain.Position
}

// scoredMove - ход с оценкой приближения к цели.
type scoredMove struct {
	pos   domain.Position
	score int
}

// Seek - общий алгоритм поиска цели для всех ролей. Роли различаются
// только предикатом отбора целей и действием над соседней целью.
//
// Порядок: сначала немедленное действие по цели в соседней клетке
// (Чебышёв <= 1), затем ход к ближайшей по Манхэттену цели, принимая
// только строго улучшающие ходы, и наконец патрульное перемещение.
// Возвращает true, если юнит что-то сделал в этот ход.
func Seek(
	b *domain.Board,
	self domain.Position,
	candidates []Candidate,
	patrol *PatrolState,
	act func(Candidate) bool,
	move func(domain.Position) bool,
) bool {
	// Шаг 1: действие по соседней цели всегда важнее перемещения.
	for _, c := range candidates {
		if self.ChebyshevTo(c.Pos) <= 1 {
			if act(c) {
				return true
			}
		}
	}

	moves := b.AvailableMoves(self.X, self.Y)

	// Шаг 2: движение к ближайшей цели.
	if len(candidates) > 0 && len(moves) > 0 {
		target := nearestByManhattan(self, candidates)
		if best, ok := bestMoveToward(self, target, moves, false); ok {
			if move(best) {
				return true
			}
		}
	}

	// Шаг 3: патрулирование, когда целей нет или к ним не подойти.
	if patrol == nil || len(moves) == 0 {
		return false
	}
	target := patrol.Advance(b, self)
	for _, m := range moves {
		if m == target {
			return move(m)
		}
	}
	// Патрульная точка занята или недостижима напрямую - идем в ее
	// сторону, на этот раз допуская нулевой прогресс.
	if best, ok := bestMoveToward(self, target, moves, true); ok {
		return move(best)
	}
	return false
}

func nearestByManhattan(self domain.Position, candidates []Candidate) domain.Position {
	best := candidates[0].Pos
	bestDist := self.ManhattanTo(best)
	for _, c := range candidates[1:] {
		if d := self.ManhattanTo(c.Pos); d < bestDist {
			best, bestDist = c.Pos, d
		}
	}
	return best
}

// bestMoveToward оценивает ходы по сокращению манхэттенского
// расстояния до цели. При allowTies принимаются и ходы без прогресса.
func bestMoveToward(self, target domain.Position, moves []domain.Position, allowTies bool) (domain.Position, bool) {
	before := self.ManhattanTo(target)
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		scored = append(scored, scoredMove{pos: m, score: before - m.ManhattanTo(target)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) == 0 {
		return domain.Position{}, false
	}
	best := scored[0]
	if best.score > 0 || (allowTies && best.score >= 0) {
		return best.pos, true
	}
	return domain.Position{}, false
}
