package domain

import "math"

// Position представляет неизменяемую точку на доске.
// Используется и как значение для запросов, и как ключ обратного индекса.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo возвращает точное евклидово расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanTo возвращает манхэттенское расстояние (сумма осей)
func (p Position) ManhattanTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// ChebyshevTo возвращает расстояние Чебышёва (максимум по осям)
func (p Position) ChebyshevTo(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением, не меняя текущую
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
