package domain

import "math"

// Запросы видимости. Обратите внимание на две разные метрики:
// UnitsInRange фильтрует по евклидову расстоянию, FieldOfView - по
// манхэттенскому. Это не ошибка, а поведение, на котором построен
// баланс симуляции.

// UnitsInRange возвращает всех носителей способности Alive в радиусе
// range от точки (включая трупы - падальщики ищут именно их).
// Сканируется расширенный квадрат, чтобы не терять диагональные края;
// требуется чистая линия обзора. Сам наблюдатель исключается.
// Порядок результата - порядок обхода, сортировки нет.
func (b *Board) UnitsInRange(x, y, rng int) []Occupant {
	if rng <= 0 {
		return nil
	}

	searchRange := int(1.5 * float64(rng))
	center := Position{X: x, Y: y}

	var found []Occupant
	for dy := -searchRange; dy <= searchRange; dy++ {
		for dx := -searchRange; dx <= searchRange; dx++ {
			cx, cy := x+dx, y+dy
			if !b.IsValidPosition(cx, cy) {
				continue
			}
			if float64(dx*dx+dy*dy) > float64(rng*rng) {
				continue
			}

			obj := b.grid[cy][cx]
			if obj == nil {
				continue
			}
			if _, ok := obj.(Alive); !ok {
				continue
			}
			// Наблюдатель сам стоит в центре
			if cx == x && cy == y {
				continue
			}
			if b.hasLineOfSight(center, Position{X: cx, Y: cy}) {
				found = append(found, obj)
			}
		}
	}
	return found
}

// FieldOfView возвращает множество видимых позиций в радиусе visionRange.
// Квадрат со стороной 2R+1, манхэттенский фильтр, линия обзора.
// Обитателей клеток метод не возвращает - только позиции.
func (b *Board) FieldOfView(x, y, visionRange int) map[Position]bool {
	visible := make(map[Position]bool)
	if !b.IsValidPosition(x, y) {
		return visible
	}

	center := Position{X: x, Y: y}
	for dy := -visionRange; dy <= visionRange; dy++ {
		for dx := -visionRange; dx <= visionRange; dx++ {
			if abs(dx)+abs(dy) > visionRange {
				continue
			}
			cx, cy := x+dx, y+dy
			if !b.IsValidPosition(cx, cy) {
				continue
			}
			pos := Position{X: cx, Y: cy}
			if b.hasLineOfSight(center, pos) {
				visible[pos] = true
			}
		}
	}
	return visible
}

// PlantsInRange возвращает всех носителей способности Grower в квадрате
// вокруг точки. Линия обзора тут не нужна: запах травы сквозь камни
// не проходит, но юниты помнят, где она растет.
func (b *Board) PlantsInRange(x, y, rng int) []Occupant {
	var plants []Occupant
	for dy := -rng; dy <= rng; dy++ {
		for dx := -rng; dx <= rng; dx++ {
			cx, cy := x+dx, y+dy
			if !b.IsValidPosition(cx, cy) {
				continue
			}
			obj := b.grid[cy][cx]
			if obj == nil {
				continue
			}
			if _, ok := obj.(Grower); ok {
				plants = append(plants, obj)
			}
		}
	}
	return plants
}

// hasLineOfSight проверяет прямую видимость между двумя клетками.
// Идем по max(|dx|,|dy|) интерполированным целым шагам между началом
// и концом (сами конечные точки не проверяются) и смотрим, не стоит ли
// на пути объект, перекрывающий обзор.
func (b *Board) hasLineOfSight(start, end Position) bool {
	if start == end {
		return true
	}

	dx := end.X - start.X
	dy := end.Y - start.Y
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}

	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		cx := start.X + int(math.Round(float64(dx)*t))
		cy := start.Y + int(math.Round(float64(dy)*t))

		obj := b.grid[cy][cx]
		if obj == nil {
			continue
		}
		if blocker, ok := obj.(VisionBlocker); ok && blocker.BlocksVision() {
			return false
		}
	}
	return true
}

// HasLineOfSight - публичная обертка для сервисного слоя и тестов.
func (b *Board) HasLineOfSight(start, end Position) bool {
	if !b.IsValidPosition(start.X, start.Y) || !b.IsValidPosition(end.X, end.Y) {
		return false
	}
	return b.hasLineOfSight(start, end)
}
