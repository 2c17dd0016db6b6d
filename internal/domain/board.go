package domain

import (
	"math/rand"
	"time"
)

// MovementType определяет разрешенные направления движения на доске.
type MovementType int

const (
	MovementCardinal MovementType = 4 // Север, юг, запад, восток
	MovementDiagonal MovementType = 8 // Кардинальные + диагонали
)

// Board представляет 2D доску, на которой размещаются и взаимодействуют
// все элементы симуляции. Хранит сетку занятости и обратный индекс
// "кто где стоит". Инвариант: клетка сетки и запись обратного индекса
// никогда не расходятся - обе структуры меняются только вместе.
type Board struct {
	Width  int
	Height int

	Rng *rand.Rand // Локальный генератор (для детерминизма по сиду)

	grid         [][]Occupant        // grid[y][x], nil = пусто
	positions    map[string]Position // EntityID -> позиция
	movementType MovementType
	vectors      []Position // Векторы смещения для AvailableMoves
}

// NewBoard создает доску указанных размеров.
// rng может быть nil - тогда генератор сеется от времени.
func NewBoard(width, height int, allowDiagonal bool, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	grid := make([][]Occupant, height)
	for y := range grid {
		grid[y] = make([]Occupant, width)
	}

	b := &Board{
		Width:        width,
		Height:       height,
		Rng:          rng,
		grid:         grid,
		positions:    make(map[string]Position),
		movementType: MovementCardinal,
		vectors: []Position{
			{0, 1},  // Север
			{0, -1}, // Юг
			{1, 0},  // Восток
			{-1, 0}, // Запад
		},
	}
	if allowDiagonal {
		b.movementType = MovementDiagonal
		b.vectors = append(b.vectors,
			Position{1, 1}, Position{-1, 1}, Position{1, -1}, Position{-1, -1})
	}
	return b
}

// MovementType возвращает режим движения доски.
func (b *Board) MovementType() MovementType { return b.movementType }

// IsValidPosition проверяет, лежат ли координаты в границах доски.
func (b *Board) IsValidPosition(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// ObjectAt возвращает обитателя клетки или nil, если клетка пуста или вне доски.
func (b *Board) ObjectAt(x, y int) Occupant {
	if !b.IsValidPosition(x, y) {
		return nil
	}
	return b.grid[y][x]
}

// PlaceObject ставит объект на доску. Возвращает false без каких-либо
// изменений, если позиция вне доски или занята.
func (b *Board) PlaceObject(obj Occupant, x, y int) bool {
	if obj == nil || !b.IsValidPosition(x, y) || b.grid[y][x] != nil {
		return false
	}

	b.grid[y][x] = obj
	b.positions[obj.EntityID()] = Position{X: x, Y: y}

	// Зеркалим координаты в сам объект, если он их хранит
	if p, ok := obj.(Positioned); ok {
		p.SetPosition(x, y)
	}
	return true
}

// RemoveObject убирает обитателя клетки и возвращает его.
// Возвращает nil, если клетка пуста или вне доски.
func (b *Board) RemoveObject(x, y int) Occupant {
	if !b.IsValidPosition(x, y) {
		return nil
	}

	obj := b.grid[y][x]
	if obj != nil {
		b.grid[y][x] = nil
		delete(b.positions, obj.EntityID())
	}
	return obj
}

// ObjectPosition возвращает текущую позицию объекта по обратному индексу.
func (b *Board) ObjectPosition(obj Occupant) (Position, bool) {
	if obj == nil {
		return Position{}, false
	}
	pos, ok := b.positions[obj.EntityID()]
	return pos, ok
}

// MoveObject перемещает объект между клетками.
// Без ignoreConstraints ход дополнительно проверяется на дальность
// (манхэттенское расстояние не больше скорости объекта) и на запрет
// диагонали в кардинальном режиме.
func (b *Board) MoveObject(fromX, fromY, toX, toY int, ignoreConstraints bool) bool {
	if !b.IsValidPosition(fromX, fromY) || !b.IsValidPosition(toX, toY) {
		return false
	}

	obj := b.grid[fromY][fromX]
	if obj == nil || b.grid[toY][toX] != nil {
		return false
	}

	if !ignoreConstraints {
		dx := abs(toX - fromX)
		dy := abs(toY - fromY)

		// Дальность хода ограничена скоростью объекта (по умолчанию 1 шаг)
		maxStep := 1
		if m, ok := obj.(Mover); ok {
			maxStep = m.MaxStep()
		}
		if dx+dy > maxStep {
			return false
		}

		// В кардинальном режиме двигаться по двум осям сразу нельзя
		if b.movementType == MovementCardinal && dx > 0 && dy > 0 {
			return false
		}
	}

	b.grid[fromY][fromX] = nil
	b.grid[toY][toX] = obj
	b.positions[obj.EntityID()] = Position{X: toX, Y: toY}

	if p, ok := obj.(Positioned); ok {
		p.SetPosition(toX, toY)
	}
	return true
}

// AvailableMoves возвращает все свободные соседние клетки для одного шага
// согласно режиму движения доски (4 или 8 направлений).
func (b *Board) AvailableMoves(x, y int) []Position {
	if !b.IsValidPosition(x, y) || b.grid[y][x] == nil {
		return nil
	}

	var moves []Position
	for _, v := range b.vectors {
		nx, ny := x+v.X, y+v.Y
		if b.IsValidPosition(nx, ny) && b.grid[ny][nx] == nil {
			moves = append(moves, Position{X: nx, Y: ny})
		}
	}
	return moves
}

// EmptyPositions возвращает все пустые клетки доски (в порядке обхода строк).
func (b *Board) EmptyPositions() []Position {
	var empty []Position
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.grid[y][x] == nil {
				empty = append(empty, Position{X: x, Y: y})
			}
		}
	}
	return empty
}

// PlaceRandomPlants расставляет n объектов фабрики по случайным пустым
// клеткам (выборка без возвращения). Если пустых клеток меньше n,
// количество урезается. Возвращает занятые позиции.
func (b *Board) PlaceRandomPlants(n int, factory func(Position) Occupant) []Position {
	empty := b.EmptyPositions()
	if n > len(empty) {
		n = len(empty)
	}

	var placed []Position
	for _, idx := range b.Rng.Perm(len(empty))[:n] {
		pos := empty[idx]
		plant := factory(pos)
		if plant != nil && b.PlaceObject(plant, pos.X, pos.Y) {
			placed = append(placed, pos)
		}
	}
	return placed
}

// ForEachCell обходит сетку построчно - read-only доступ для рендера
// и сервисного слоя.
func (b *Board) ForEachCell(fn func(x, y int, obj Occupant)) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			fn(x, y, b.grid[y][x])
		}
	}
}
