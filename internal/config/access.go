package config

import (
	"fmt"
)

// Get возвращает значение по пути вида "board.width". Отсутствие
// ключа - не ошибка: возвращается nil и false, умолчание применяет
// вызывающая сторона.
func (c *Config) Get(path string) (any, bool) {
	switch path {
	case "board.width":
		return c.Board.Width, true
	case "board.height":
		return c.Board.Height, true
	case "board.allow_diagonal":
		return c.Board.AllowDiagonal, true
	case "game.max_turns":
		return c.Game.MaxTurns, true
	case "game.cycle_length":
		return c.Game.CycleLength, true
	case "game.turn_delay_ms":
		return c.Game.TurnDelayMs, true
	case "game.predators":
		return c.Game.Predators, true
	case "game.scavengers":
		return c.Game.Scavengers, true
	case "game.grazers":
		return c.Game.Grazers, true
	case "units.move_cost":
		return c.Units.MoveCost, true
	case "units.look_cost":
		return c.Units.LookCost, true
	case "units.attack_cost":
		return c.Units.AttackCost, true
	case "units.passive_cost":
		return c.Units.PassiveCost, true
	case "units.decay_rate":
		return c.Units.DecayRate, true
	case "units.resting_exit_energy_ratio":
		return c.Units.RestingExitRatio, true
	case "units.max_resting_turns":
		return c.Units.MaxRestingTurns, true
	case "units.min_energy_force_exit_rest_ratio":
		return c.Units.MinRestExitRatio, true
	case "plants.initial_count":
		return c.Plants.InitialCount, true
	case "plants.growth_rate":
		return c.Plants.GrowthRate, true
	case "plants.max_count":
		return c.Plants.MaxCount, true
	case "plants.remove_depleted":
		return c.Plants.RemoveDepleted, true
	case "plants.min_energy":
		return c.Plants.MinEnergy, true
	}
	return nil, false
}

// Set записывает значение по пути. Неизвестный ключ, неверный тип
// или значение вне границ дают описательную ошибку, конфигурация
// при этом не меняется.
func (c *Config) Set(path string, value any) error {
	backup := *c

	var err error
	switch path {
	case "board.width":
		err = setInt(&c.Board.Width, path, value)
	case "board.height":
		err = setInt(&c.Board.Height, path, value)
	case "board.allow_diagonal":
		err = setBool(&c.Board.AllowDiagonal, path, value)
	case "game.max_turns":
		err = setInt(&c.Game.MaxTurns, path, value)
	case "game.cycle_length":
		err = setInt(&c.Game.CycleLength, path, value)
	case "game.turn_delay_ms":
		err = setInt(&c.Game.TurnDelayMs, path, value)
	case "game.predators":
		err = setInt(&c.Game.Predators, path, value)
	case "game.scavengers":
		err = setInt(&c.Game.Scavengers, path, value)
	case "game.grazers":
		err = setInt(&c.Game.Grazers, path, value)
	case "units.move_cost":
		err = setFloat(&c.Units.MoveCost, path, value)
	case "units.look_cost":
		err = setFloat(&c.Units.LookCost, path, value)
	case "units.attack_cost":
		err = setFloat(&c.Units.AttackCost, path, value)
	case "units.passive_cost":
		err = setFloat(&c.Units.PassiveCost, path, value)
	case "units.decay_rate":
		err = setFloat(&c.Units.DecayRate, path, value)
	case "units.resting_exit_energy_ratio":
		err = setFloat(&c.Units.RestingExitRatio, path, value)
	case "units.max_resting_turns":
		err = setInt(&c.Units.MaxRestingTurns, path, value)
	case "units.min_energy_force_exit_rest_ratio":
		err = setFloat(&c.Units.MinRestExitRatio, path, value)
	case "plants.initial_count":
		err = setInt(&c.Plants.InitialCount, path, value)
	case "plants.growth_rate":
		err = setFloat(&c.Plants.GrowthRate, path, value)
	case "plants.max_count":
		err = setInt(&c.Plants.MaxCount, path, value)
	case "plants.remove_depleted":
		err = setBool(&c.Plants.RemoveDepleted, path, value)
	case "plants.min_energy":
		err = setFloat(&c.Plants.MinEnergy, path, value)
	default:
		return fmt.Errorf("config: unknown key %q", path)
	}
	if err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		*c = backup
		return err
	}
	return nil
}

func setInt(dst *int, path string, value any) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("config: %s expects an integer, got %v", path, v)
		}
		*dst = int(v)
	default:
		return fmt.Errorf("config: %s expects an integer, got %T", path, value)
	}
	return nil
}

func setFloat(dst *float64, path string, value any) error {
	switch v := value.(type) {
	case float64:
		*dst = v
	case int:
		*dst = float64(v)
	default:
		return fmt.Errorf("config: %s expects a number, got %T", path, value)
	}
	return nil
}

func setBool(dst *bool, path string, value any) error {
	v, ok := value.(bool)
	if !ok {
		return fmt.Errorf("config: %s expects a boolean, got %T", path, value)
	}
	*dst = v
	return nil
}
