package systems

import (
	"ecosim-server/internal/domain"
)

// Кардинальные направления в порядке по часовой стрелке.
var clockwise = []domain.Position{
	{X: 1, Y: 0},  // восток
	{X: 0, Y: 1},  // юг
	{X: -1, Y: 0}, // запад
	{X: 0, Y: -1}, // север
}

// PatrolState - состояние квадрантного патруля одного юнита.
// Доска делится по высоте на четыре полосы, каждой полосе назначено
// свое направление обхода; юнит идет по направлению, пока не пройдет
// высоту полосы или не упрется в край, после чего поворачивает.
type PatrolState struct {
	dirIndex int
	traveled int
	started  bool
}

// Advance вычисляет следующую патрульную точку и продвигает состояние.
func (s *PatrolState) Advance(b *domain.Board, pos domain.Position) domain.Position {
	band := b.Height / 4
	if band < 1 {
		band = 1
	}

	if !s.started {
		s.dirIndex = (pos.Y / band) % len(clockwise)
		s.started = true
	}
	if s.traveled >= band {
		s.rotate()
	}

	dir := clockwise[s.dirIndex]
	target := pos.Shift(dir.X, dir.Y)
	if !b.IsValidPosition(target.X, target.Y) {
		// Сначала пробуем перпендикулярные направления, потом
		// просто поворачиваем дальше по часовой.
		for _, d := range perpendicular(dir) {
			cand := pos.Shift(d.X, d.Y)
			if b.IsValidPosition(cand.X, cand.Y) {
				s.setDirection(d)
				s.traveled++
				return cand
			}
		}
		s.rotate()
		dir = clockwise[s.dirIndex]
		target = pos.Shift(dir.X, dir.Y)
	}

	s.traveled++
	return target
}

func (s *PatrolState) rotate() {
	s.dirIndex = (s.dirIndex + 1) % len(clockwise)
	s.traveled = 0
}

func (s *PatrolState) setDirection(d domain.Position) {
	for i, c := range clockwise {
		if c == d {
			s.dirIndex = i
			break
		}
	}
	s.traveled = 0
}

func perpendicular(dir domain.Position) []domain.Position {
	if dir.X != 0 {
		return []domain.Position{{X: 0, Y: 1}, {X: 0, Y: -1}}
	}
	return []domain.Position{{X: 1, Y: 0}, {X: -1, Y: 0}}
}
