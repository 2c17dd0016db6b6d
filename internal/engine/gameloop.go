package engine

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
	"ecosim-server/pkg/logger"
)

// TimeOfDay - фаза суточного цикла.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeNight TimeOfDay = "night"
)

// Season - время года. Сменяются по кругу в фиксированном порядке.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

var seasonOrder = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// Сезонные множители скорости роста растений.
var seasonGrowthScale = map[Season]float64{
	SeasonSpring: 1.2,
	SeasonSummer: 1.5,
	SeasonAutumn: 0.8,
	SeasonWinter: 0.3,
}

// GameLoop - оркестратор симуляции. Владеет доской, юнитами и
// менеджером растений; продвигает мир строго по одному ходу.
// Внутренних блокировок нет: все вызовы сериализует владелец.
type GameLoop struct {
	Board  *domain.Board
	Units  []*units.Unit
	Plants *plants.Manager
	Rng    *rand.Rand

	Turn        int
	Time        TimeOfDay
	Season      Season
	CycleLength int
	MaxTurns    int
	TurnDelay   time.Duration

	running atomic.Bool
	log     *logrus.Entry
}

func NewGameLoop(board *domain.Board, pm *plants.Manager, rng *rand.Rand, cycleLength, maxTurns int) *GameLoop {
	if cycleLength < 1 {
		cycleLength = 10
	}
	return &GameLoop{
		Board:       board,
		Plants:      pm,
		Rng:         rng,
		Time:        TimeDay,
		Season:      SeasonSpring,
		CycleLength: cycleLength,
		MaxTurns:    maxTurns,
		log:         logger.Log.WithField("component", "gameloop"),
	}
}

// AddUnit регистрирует юнита в списке акторов. На доску он должен
// быть помещен отдельно.
func (g *GameLoop) AddUnit(u *units.Unit) {
	g.Units = append(g.Units, u)
}

// ProcessTurn выполняет ровно один ход симуляции. Последовательность
// фиксированная: среда, перемешанные живые акторы, разложение трупов,
// растения.
func (g *GameLoop) ProcessTurn() {
	g.Turn++
	g.updateEnvironment()

	night := g.Time == TimeNight
	visionScale := 1.0
	if night {
		visionScale = 0.5
	}

	// Состав живых и мертвых фиксируется на начало хода: убитый в
	// этом ходу начнет разлагаться только со следующего.
	var alive, dead []*units.Unit
	for _, u := range g.Units {
		if u.Removed {
			continue
		}
		if u.IsAlive() {
			alive = append(alive, u)
		} else {
			dead = append(dead, u)
		}
	}

	// Справедливость: порядок действий живых акторов случаен на
	// каждом ходу.
	g.Rng.Shuffle(len(alive), func(i, j int) {
		alive[i], alive[j] = alive[j], alive[i]
	})

	for _, u := range alive {
		u.EnvVisionScale = visionScale
		u.Update(g.Board)
		if u.IsAlive() {
			u.ApplyPassiveCost(night)
		}
	}

	for _, u := range dead {
		u.Update(g.Board)
	}
	g.pruneRemoved()

	scale := seasonGrowthScale[g.Season]
	for _, p := range g.Plants.All() {
		p.SeasonScale = scale
		p.Update(1)
		if night {
			p.NightDrain()
		}
	}
	g.Plants.Replenish()
	g.Plants.Cleanup()

	if g.Turn >= g.MaxTurns {
		g.running.Store(false)
	}
}

// updateEnvironment пересчитывает фазу суток и сезон от номера хода.
func (g *GameLoop) updateEnvironment() {
	if (g.Turn/g.CycleLength)%2 == 1 {
		g.Time = TimeNight
	} else {
		g.Time = TimeDay
	}

	prev := g.Season
	g.Season = seasonOrder[(g.Turn/(4*g.CycleLength))%len(seasonOrder)]
	if g.Season != prev {
		g.log.WithFields(logrus.Fields{
			"turn":   g.Turn,
			"season": g.Season,
		}).Info("Season changed")
	}
}

func (g *GameLoop) pruneRemoved() {
	kept := g.Units[:0]
	for _, u := range g.Units {
		if !u.Removed {
			kept = append(kept, u)
		}
	}
	g.Units = kept
}

// Run гоняет симуляцию до лимита ходов или остановки. Флаг остановки
// проверяется только между ходами, текущий ход всегда доигрывается
// целиком.
func (g *GameLoop) Run(ctx context.Context) {
	g.running.Store(true)
	g.log.WithField("max_turns", g.MaxTurns).Info("Simulation started")

	for g.running.Load() && g.Turn < g.MaxTurns {
		select {
		case <-ctx.Done():
			g.running.Store(false)
			g.log.Info("Simulation cancelled")
			return
		default:
		}

		g.ProcessTurn()

		if g.TurnDelay > 0 {
			time.Sleep(g.TurnDelay)
		}
	}

	g.running.Store(false)
	g.log.WithField("turns", g.Turn).Info("Simulation finished")
}

// Stop запрашивает кооперативную остановку.
func (g *GameLoop) Stop() {
	g.running.Store(false)
}

// Running сообщает, крутится ли сейчас внешний цикл.
func (g *GameLoop) Running() bool {
	return g.running.Load()
}

// Stats - агрегированная сводка состояния мира на текущий ход.
type Stats struct {
	Turn        int       `json:"turn"`
	Time        TimeOfDay `json:"time_of_day"`
	Season      Season    `json:"season"`
	Predators   int       `json:"predators"`
	Scavengers  int       `json:"scavengers"`
	Grazers     int       `json:"grazers"`
	DeadUnits   int       `json:"dead_units"`
	AlivePlants int       `json:"alive_plants"`
	TotalPlants int       `json:"total_plants"`
	MeanEnergy  float64   `json:"mean_energy"`
}

// CollectStats пересчитывает сводку по текущему состоянию мира.
func (g *GameLoop) CollectStats() Stats {
	st := Stats{
		Turn:   g.Turn,
		Time:   g.Time,
		Season: g.Season,
	}
	var energySum float64
	var aliveCount int
	for _, u := range g.Units {
		if !u.IsAlive() {
			st.DeadUnits++
			continue
		}
		energySum += u.Energy
		aliveCount++
		switch u.Role() {
		case units.RolePredator:
			st.Predators++
		case units.RoleScavenger:
			st.Scavengers++
		case units.RoleGrazer:
			st.Grazers++
		}
	}
	if aliveCount > 0 {
		st.MeanEnergy = energySum / float64(aliveCount)
	}
	for _, p := range g.Plants.All() {
		st.TotalPlants++
		if p.State.Alive {
			st.AlivePlants++
		}
	}
	return st
}
