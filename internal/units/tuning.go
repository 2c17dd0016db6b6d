package units

// Costs - энергетические цены действий. Все значения неотрицательны
// и вычитаются из энергии; восстановление во время отдыха считается
// отдельно и ценой не является.
type Costs struct {
	Move    float64 // За один шаг
	Look    float64 // За осмотр окрестностей
	Attack  float64 // За удар
	Passive float64 // Пассивный расход за ход
}

// Tuning - настроечные коэффициенты ядра юнита.
type Tuning struct {
	DecayRate        float64 // Доля decay_energy, теряемая трупом за ход
	RestingExitRatio float64 // Доля max_energy для выхода из отдыха
	MaxRestingTurns  int     // Лимит ходов отдыха подряд
	MinRestExitRatio float64 // Минимальная доля энергии для принудительного выхода
	Costs            Costs
}

func DefaultTuning() Tuning {
	return Tuning{
		DecayRate:        0.1,
		RestingExitRatio: 0.8,
		MaxRestingTurns:  15,
		MinRestExitRatio: 0.5,
		Costs: Costs{
			Move:    1.0,
			Look:    0.5,
			Attack:  2.0,
			Passive: 0.5,
		},
	}
}
