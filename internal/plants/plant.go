package plants

import (
	"ecosim-server/internal/domain"
)

// State описывает текущее состояние растения.
type State struct {
	GrowthStage   float64 `json:"growth_stage"`   // 0.0 - съедено, 1.0 - выросло
	EnergyContent float64 `json:"energy_content"` // Доступная энергия
	Alive         bool    `json:"is_alive"`
}

// Plant - стационарный источник энергии. Живет циклами: выросло,
// съедено, отросло. Никогда не умирает насовсем, если его не убрать
// с доски менеджером.
//
// Инварианты: GrowthStage == 0 влечет Alive == false; в момент, когда
// отрастание достигает 1.0, EnergyContent устанавливается в BaseEnergy.
type Plant struct {
	ID   string
	Kind string // "basic", "energy_rich", "fast_growing"
	Pos  domain.Position

	BaseEnergy     float64 // Емкость в полностью выросшем состоянии
	BaseGrowthRate float64 // Скорость отрастания за ход
	RegrowthTime   float64 // Справочное время полного отрастания
	MinEnergy      float64 // Ночной пол энергии

	// SeasonScale - сезонный множитель скорости роста.
	// Выставляется оркестратором на каждом ходу.
	SeasonScale float64

	State State

	aliveSymbol string
}

// --- Способности для доски ---

func (p *Plant) EntityID() string { return p.ID }

// GrowthRate помечает объект как растение для запросов доски.
func (p *Plant) GrowthRate() float64 { return p.BaseGrowthRate }

func (p *Plant) Position() domain.Position { return p.Pos }

func (p *Plant) SetPosition(x, y int) {
	p.Pos = domain.Position{X: x, Y: y}
}

// Symbol возвращает символ по стадии жизненного цикла.
func (p *Plant) Symbol() string {
	switch {
	case p.State.Alive:
		return p.aliveSymbol
	case p.State.GrowthStage > 0:
		return "," // Отрастает
	default:
		return "." // Съедено
	}
}

// --- Жизненный цикл ---

// Consume отдает энергию едоку: не больше запрошенного и не больше
// остатка. Если за один укус ушло 80% и более от содержимого,
// растение считается съеденным и начинает отрастать с нуля.
func (p *Plant) Consume(amount float64) float64 {
	if !p.State.Alive || p.State.EnergyContent <= 0 || amount <= 0 {
		return 0
	}

	before := p.State.EnergyContent
	consumed := amount
	if consumed > before {
		consumed = before
	}
	p.State.EnergyContent = before - consumed

	if consumed >= 0.8*before {
		p.State.Alive = false
		p.State.GrowthStage = 0
		p.State.EnergyContent = 0
	}
	return consumed
}

// Update продвигает отрастание на dt ходов с учетом сезонного множителя.
// Достигнув полного роста, растение восстанавливает энергию и оживает.
func (p *Plant) Update(dt float64) {
	if p.State.Alive || p.State.GrowthStage >= 1.0 {
		return
	}

	scale := p.SeasonScale
	if scale == 0 {
		scale = 1.0
	}

	p.State.GrowthStage += p.BaseGrowthRate * scale * dt
	if p.State.GrowthStage >= 1.0 {
		p.State.GrowthStage = 1.0
		p.State.EnergyContent = p.BaseEnergy
		p.State.Alive = true
	}
}

// NightDrain - ночное испарение энергии: минус 5% c полом MinEnergy.
func (p *Plant) NightDrain() {
	drained := p.State.EnergyContent * 0.95
	if drained < p.MinEnergy {
		drained = p.MinEnergy
	}
	p.State.EnergyContent = drained
}

// Depleted возвращает true, когда растение съедено полностью и еще
// не начало отрастать.
func (p *Plant) Depleted() bool {
	return !p.State.Alive && p.State.GrowthStage == 0
}
