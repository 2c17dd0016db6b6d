// Package storage сохраняет и восстанавливает полное состояние
// партии: счетчик ходов, циклы среды, доску и всех обитателей.
package storage

import (
	"time"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/engine"
	"ecosim-server/internal/units"
)

// Версия формата слепка. Меняется при несовместимых правках схемы.
const snapshotVersion = 1

// Snapshot - сериализуемый слепок партии.
type Snapshot struct {
	Version     int       `json:"version"`
	SavedAt     time.Time `json:"saved_at"`
	Turn        int       `json:"turn"`
	TimeOfDay   string    `json:"time_of_day"`
	Season      string    `json:"season"`
	CycleLength int       `json:"cycle_length"`
	MaxTurns    int       `json:"max_turns"`

	Board     BoardSnapshot      `json:"board"`
	Units     []UnitSnapshot     `json:"units"`
	Plants    []PlantSnapshot    `json:"plants"`
	Obstacles []ObstacleSnapshot `json:"obstacles,omitempty"`
}

type BoardSnapshot struct {
	Width         int  `json:"width"`
	Height        int  `json:"height"`
	AllowDiagonal bool `json:"allow_diagonal"`
}

type UnitSnapshot struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Role          string         `json:"role"`
	X             int            `json:"x"`
	Y             int            `json:"y"`
	HP            float64        `json:"hp"`
	MaxHP         float64        `json:"max_hp"`
	Energy        float64        `json:"energy"`
	MaxEnergy     float64        `json:"max_energy"`
	BaseStrength  int            `json:"base_strength"`
	BaseSpeed     int            `json:"base_speed"`
	BaseVision    int            `json:"base_vision"`
	State         string         `json:"state"`
	StateDuration int            `json:"state_duration"`
	DecayStage    int            `json:"decay_stage"`
	DecayEnergy   float64        `json:"decay_energy"`
	Experience    float64        `json:"experience"`
	Level         int            `json:"level"`
	Traits        []string       `json:"traits,omitempty"`
	ActionCounts  map[string]int `json:"action_counts,omitempty"`
}

type PlantSnapshot struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	GrowthStage   float64 `json:"growth_stage"`
	EnergyContent float64 `json:"energy_content"`
	Alive         bool    `json:"is_alive"`
}

type ObstacleSnapshot struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// Capture снимает слепок с остановленной или приостановленной партии.
// Вызывающая сторона отвечает за то, что ход в этот момент не идет.
func Capture(loop *engine.GameLoop) *Snapshot {
	snap := &Snapshot{
		Version:     snapshotVersion,
		SavedAt:     time.Now(),
		Turn:        loop.Turn,
		TimeOfDay:   string(loop.Time),
		Season:      string(loop.Season),
		CycleLength: loop.CycleLength,
		MaxTurns:    loop.MaxTurns,
		Board: BoardSnapshot{
			Width:         loop.Board.Width,
			Height:        loop.Board.Height,
			AllowDiagonal: loop.Board.MovementType() == domain.MovementDiagonal,
		},
	}

	for _, u := range loop.Units {
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:            u.ID,
			Name:          u.Name,
			Role:          u.Role(),
			X:             u.Pos.X,
			Y:             u.Pos.Y,
			HP:            u.HP,
			MaxHP:         u.MaxHP,
			Energy:        u.Energy,
			MaxEnergy:     u.MaxEnergy,
			BaseStrength:  u.BaseStrength,
			BaseSpeed:     u.BaseSpeed,
			BaseVision:    u.BaseVision,
			State:         string(u.State),
			StateDuration: u.StateDuration,
			DecayStage:    u.DecayStage,
			DecayEnergy:   u.DecayEnergy,
			Experience:    u.Experience,
			Level:         u.Level,
			Traits:        u.Traits,
			ActionCounts:  u.ActionCounts,
		})
	}

	for _, p := range loop.Plants.All() {
		snap.Plants = append(snap.Plants, PlantSnapshot{
			ID:            p.ID,
			Kind:          p.Kind,
			X:             p.Pos.X,
			Y:             p.Pos.Y,
			GrowthStage:   p.State.GrowthStage,
			EnergyContent: p.State.EnergyContent,
			Alive:         p.State.Alive,
		})
	}

	loop.Board.ForEachCell(func(x, y int, obj domain.Occupant) {
		if o, ok := obj.(*domain.Obstacle); ok {
			snap.Obstacles = append(snap.Obstacles, ObstacleSnapshot{ID: o.ID, X: x, Y: y})
		}
	})

	return snap
}

func unitFromSnapshot(s UnitSnapshot, tuning units.Tuning) *units.Unit {
	u := units.New(s.Role, s.Name, domain.Position{X: s.X, Y: s.Y}, tuning)
	u.ID = s.ID
	u.HP = s.HP
	u.MaxHP = s.MaxHP
	u.Energy = s.Energy
	u.MaxEnergy = s.MaxEnergy
	u.BaseStrength = s.BaseStrength
	u.Strength = s.BaseStrength
	u.BaseSpeed = s.BaseSpeed
	u.Speed = s.BaseSpeed
	u.BaseVision = s.BaseVision
	u.Vision = s.BaseVision
	u.Experience = s.Experience
	u.Level = s.Level
	u.Traits = s.Traits
	if s.ActionCounts != nil {
		u.ActionCounts = s.ActionCounts
	}
	u.RestoreVitals(units.State(s.State), s.StateDuration, s.DecayStage, s.DecayEnergy)
	return u
}
