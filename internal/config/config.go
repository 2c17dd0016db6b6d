package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ecosim-server/pkg/logger"
)

// Config - полная конфигурация симуляции. Все значения имеют
// документированные умолчания; файл может переопределять любую часть.
type Config struct {
	Board  BoardConfig  `yaml:"board"`
	Game   GameConfig   `yaml:"game"`
	Units  UnitsConfig  `yaml:"units"`
	Plants PlantsConfig `yaml:"plants"`
}

type BoardConfig struct {
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	AllowDiagonal bool `yaml:"allow_diagonal"`
}

type GameConfig struct {
	MaxTurns    int `yaml:"max_turns"`
	CycleLength int `yaml:"cycle_length"` // Ходов в одной фазе дня/ночи
	TurnDelayMs int `yaml:"turn_delay_ms"`
	Predators   int `yaml:"predators"`
	Scavengers  int `yaml:"scavengers"`
	Grazers     int `yaml:"grazers"`
}

type UnitsConfig struct {
	MoveCost         float64 `yaml:"move_cost"`
	LookCost         float64 `yaml:"look_cost"`
	AttackCost       float64 `yaml:"attack_cost"`
	PassiveCost      float64 `yaml:"passive_cost"`
	DecayRate        float64 `yaml:"decay_rate"`
	RestingExitRatio float64 `yaml:"resting_exit_energy_ratio"`
	MaxRestingTurns  int     `yaml:"max_resting_turns"`
	MinRestExitRatio float64 `yaml:"min_energy_force_exit_rest_ratio"`
}

type PlantsConfig struct {
	InitialCount   int     `yaml:"initial_count"`
	GrowthRate     float64 `yaml:"growth_rate"` // Шанс подсева за ход
	MaxCount       int     `yaml:"max_count"`
	RemoveDepleted bool    `yaml:"remove_depleted"`
	MinEnergy      float64 `yaml:"min_energy"`
}

// Default возвращает конфигурацию по умолчанию. Резервные значения
// живут только здесь, по конструкторам они не разбросаны.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			Width:         20,
			Height:        20,
			AllowDiagonal: false,
		},
		Game: GameConfig{
			MaxTurns:    100,
			CycleLength: 10,
			TurnDelayMs: 0,
			Predators:   2,
			Scavengers:  3,
			Grazers:     5,
		},
		Units: UnitsConfig{
			MoveCost:         1.0,
			LookCost:         0.5,
			AttackCost:       2.0,
			PassiveCost:      0.5,
			DecayRate:        0.1,
			RestingExitRatio: 0.8,
			MaxRestingTurns:  15,
			MinRestExitRatio: 0.5,
		},
		Plants: PlantsConfig{
			InitialCount:   15,
			GrowthRate:     0.1,
			MaxCount:       30,
			RemoveDepleted: false,
			MinEnergy:      1.0,
		},
	}
}

// Load читает YAML-файл поверх умолчаний. Отсутствующий файл - не
// ошибка: работаем на умолчаниях. Неизвестные ключи - ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Log.WithField("path", path).Warn("Config file not found, using defaults")
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет границы значений. Нарушение - фатальная ошибка
// конфигурации, симуляция с такими значениями не стартует.
func (c *Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Board.Width >= 5 && c.Board.Width <= 100, "board.width must be in [5, 100]"},
		{c.Board.Height >= 5 && c.Board.Height <= 100, "board.height must be in [5, 100]"},
		{c.Game.MaxTurns >= 1, "game.max_turns must be positive"},
		{c.Game.CycleLength >= 1, "game.cycle_length must be positive"},
		{c.Game.TurnDelayMs >= 0, "game.turn_delay_ms must not be negative"},
		{c.Game.Predators >= 0, "game.predators must not be negative"},
		{c.Game.Scavengers >= 0, "game.scavengers must not be negative"},
		{c.Game.Grazers >= 0, "game.grazers must not be negative"},
		{c.Units.MoveCost >= 0, "units.move_cost must not be negative"},
		{c.Units.LookCost >= 0, "units.look_cost must not be negative"},
		{c.Units.AttackCost >= 0, "units.attack_cost must not be negative"},
		{c.Units.PassiveCost >= 0, "units.passive_cost must not be negative"},
		{c.Units.DecayRate > 0 && c.Units.DecayRate < 1, "units.decay_rate must be in (0, 1)"},
		{c.Units.RestingExitRatio > 0 && c.Units.RestingExitRatio <= 1, "units.resting_exit_energy_ratio must be in (0, 1]"},
		{c.Units.MaxRestingTurns >= 1, "units.max_resting_turns must be positive"},
		{c.Units.MinRestExitRatio > 0 && c.Units.MinRestExitRatio <= 1, "units.min_energy_force_exit_rest_ratio must be in (0, 1]"},
		{c.Plants.InitialCount >= 0, "plants.initial_count must not be negative"},
		{c.Plants.GrowthRate >= 0 && c.Plants.GrowthRate <= 1, "plants.growth_rate must be in [0, 1]"},
		{c.Plants.MaxCount >= c.Plants.InitialCount, "plants.max_count must not be below plants.initial_count"},
		{c.Plants.MinEnergy >= 0, "plants.min_energy must not be negative"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("config validation: %s", ch.msg)
		}
	}
	return nil
}
