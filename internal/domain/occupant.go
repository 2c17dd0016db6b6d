package domain

// Обитатели доски описываются набором маленьких интерфейсов-способностей.
// Доска ничего не знает о конкретных типах (юнит, растение, камень):
// она проверяет только те способности, которые нужны конкретному запросу.

// Occupant - минимальный контракт любого объекта на доске.
type Occupant interface {
	// EntityID возвращает стабильный идентификатор. По нему работает
	// обратный индекс позиций и реестр сущностей сервисного слоя.
	EntityID() string
	// Symbol возвращает символ для текстового отображения.
	Symbol() string
}

// Alive - способность "быть живым или мертвым".
// Внимание: запрос юнитов по радиусу ищет носителей ЭТОЙ способности,
// независимо от значения IsAlive() - трупы тоже видны (и нужны падальщикам).
type Alive interface {
	IsAlive() bool
}

// VisionBlocker - способность перекрывать линию обзора.
type VisionBlocker interface {
	BlocksVision() bool
}

// Mover - способность перемещаться; MaxStep ограничивает дальность хода.
type Mover interface {
	MaxStep() int
}

// Positioned - объект сам хранит зеркальную копию своих координат.
// Доска синхронизирует её при перемещении.
type Positioned interface {
	Position() Position
	SetPosition(x, y int)
}

// Consumable - источник энергии, отдающий её порциями (растения).
type Consumable interface {
	// Consume выдает не больше запрошенного и не больше остатка.
	Consume(amount float64) float64
}

// Grower - способность расти. По ней доска распознает растения.
type Grower interface {
	GrowthRate() float64
}
