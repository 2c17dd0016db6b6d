package systems

import (
	"sort"

	"ecosim-server/internal/domain"
)

// Flee уводит юнита от ближайшей угрозы. Оценка хода обратная к
// охотничьей: расстояние после минус расстояние до, чем больше - тем
// лучше. Лучший ход принимается даже с отрицательной оценкой: зажатый
// в угол юнит выбирает наименее плохой вариант.
// Возвращает true при успешном перемещении.
func Flee(
	b *domain.Board,
	self domain.Position,
	threats []Candidate,
	move func(domain.Position) bool,
) bool {
	if len(threats) == 0 {
		return false
	}
	threat := nearestByManhattan(self, threats)

	moves := b.AvailableMoves(self.X, self.Y)
	if len(moves) == 0 {
		return false
	}

	before := self.ManhattanTo(threat)
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		scored = append(scored, scoredMove{pos: m, score: m.ManhattanTo(threat) - before})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return move(scored[0].pos)
}
