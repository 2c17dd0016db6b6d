package plants

import (
	"math/rand"

	"ecosim-server/internal/domain"
	"ecosim-server/pkg/utils"
)

// template - заготовка растения конкретного вида.
type template struct {
	kind         string
	baseEnergy   float64
	growthRate   float64
	regrowthTime float64
	symbol       string
	weight       float64
}

// Три вида растений: обычное, энергоемкое и быстрорастущее.
// Веса задают частоту появления при случайной генерации.
var templates = []template{
	{kind: "basic", baseEnergy: 50, growthRate: 0.08, regrowthTime: 12, symbol: "*", weight: 0.60},
	{kind: "energy_rich", baseEnergy: 100, growthRate: 0.04, regrowthTime: 20, symbol: "%", weight: 0.15},
	{kind: "fast_growing", baseEnergy: 25, growthRate: 0.16, regrowthTime: 6, symbol: "+", weight: 0.25},
}

func newFromTemplate(t template, pos domain.Position) *Plant {
	return &Plant{
		ID:             "plant_" + utils.GenerateID(),
		Kind:           t.kind,
		Pos:            pos,
		BaseEnergy:     t.baseEnergy,
		BaseGrowthRate: t.growthRate,
		RegrowthTime:   t.regrowthTime,
		MinEnergy:      1.0,
		SeasonScale:    1.0,
		aliveSymbol:    t.symbol,
		State: State{
			GrowthStage:   1.0,
			EnergyContent: t.baseEnergy,
			Alive:         true,
		},
	}
}

// New создает растение указанного вида. Неизвестный вид
// трактуется как "basic".
func New(kind string, pos domain.Position) *Plant {
	for _, t := range templates {
		if t.kind == kind {
			return newFromTemplate(t, pos)
		}
	}
	return newFromTemplate(templates[0], pos)
}

// NewRandom выбирает вид растения по весам шаблонов.
func NewRandom(rng *rand.Rand, pos domain.Position) *Plant {
	total := 0.0
	for _, t := range templates {
		total += t.weight
	}
	roll := rng.Float64() * total
	for _, t := range templates {
		roll -= t.weight
		if roll < 0 {
			return newFromTemplate(t, pos)
		}
	}
	return newFromTemplate(templates[len(templates)-1], pos)
}
