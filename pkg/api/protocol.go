// Package api описывает DTO, которыми сервер обменивается с клиентами
// по HTTP и WebSocket. Внутренние типы симуляции наружу не выходят.
package api

// Placement - декларативное размещение сущности при создании партии.
// Type: "predator", "scavenger", "grazer", "plant" или "obstacle".
type Placement struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"` // Вид растения
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// CreateGameRequest - параметры новой партии. Нулевые значения
// замещаются конфигурацией сервера. NoRandomSpawn отключает
// случайное расселение целиком: мир собирается только из placements.
type CreateGameRequest struct {
	Width         int         `json:"width,omitempty"`
	Height        int         `json:"height,omitempty"`
	Seed          int64       `json:"seed,omitempty"`
	MaxTurns      int         `json:"max_turns,omitempty"`
	Predators     int         `json:"predators,omitempty"`
	Scavengers    int         `json:"scavengers,omitempty"`
	Grazers       int         `json:"grazers,omitempty"`
	Plants        int         `json:"plants,omitempty"`
	NoRandomSpawn bool        `json:"no_random_spawn,omitempty"`
	Placements    []Placement `json:"placements,omitempty"`
}

// GameInfo - краткая карточка партии.
type GameInfo struct {
	ID     string `json:"id"`
	Turn   int    `json:"turn"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CellView - занятая клетка доски.
type CellView struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Symbol   string `json:"symbol"`
	EntityID string `json:"entity_id"`
}

// BoardResponse - снимок доски для рендера.
type BoardResponse struct {
	GameID    string     `json:"game_id"`
	Turn      int        `json:"turn"`
	TimeOfDay string     `json:"time_of_day"`
	Season    string     `json:"season"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Cells     []CellView `json:"cells"`
}

// UnitDetail - развернутое состояние юнита.
type UnitDetail struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Role         string         `json:"role"`
	X            int            `json:"x"`
	Y            int            `json:"y"`
	HP           float64        `json:"hp"`
	MaxHP        float64        `json:"max_hp"`
	Energy       float64        `json:"energy"`
	MaxEnergy    float64        `json:"max_energy"`
	Strength     int            `json:"strength"`
	Speed        int            `json:"speed"`
	Vision       int            `json:"vision"`
	State        string         `json:"state"`
	Alive        bool           `json:"alive"`
	DecayStage   int            `json:"decay_stage,omitempty"`
	DecayEnergy  float64        `json:"decay_energy,omitempty"`
	Level        int            `json:"level"`
	Experience   float64        `json:"experience"`
	Traits       []string       `json:"traits,omitempty"`
	ActionCounts map[string]int `json:"action_counts,omitempty"`
	VisibleCells int            `json:"visible_cells"`
}

// PlantDetail - развернутое состояние растения.
type PlantDetail struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	GrowthStage   float64 `json:"growth_stage"`
	EnergyContent float64 `json:"energy_content"`
	Alive         bool    `json:"is_alive"`
	Symbol        string  `json:"symbol"`
}

// EntityResponse - ответ на запрос сущности по ID. Заполнено ровно
// одно из полей.
type EntityResponse struct {
	Unit  *UnitDetail  `json:"unit,omitempty"`
	Plant *PlantDetail `json:"plant,omitempty"`
}

// StatsResponse - сводка партии.
type StatsResponse struct {
	GameID      string `json:"game_id"`
	Turn        int    `json:"turn"`
	TimeOfDay   string `json:"time_of_day"`
	Season      string `json:"season"`
	Predators   int    `json:"predators"`
	Scavengers  int    `json:"scavengers"`
	Grazers     int    `json:"grazers"`
	DeadUnits   int    `json:"dead_units"`
	AlivePlants int    `json:"alive_plants"`
	TotalPlants int    `json:"total_plants"`
}

// TurnResponse - результат продвижения партии на один ход.
type TurnResponse struct {
	GameID string        `json:"game_id"`
	Stats  StatsResponse `json:"stats"`
	Board  BoardResponse `json:"board"`
}

// ClientCommand - команда наблюдателя по WebSocket.
// Поддерживается "turn" - продвинуть партию на один ход.
type ClientCommand struct {
	Action string `json:"action"`
}

// ErrorResponse - единый формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}
