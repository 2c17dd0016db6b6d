package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ecosim-server/internal/config"
	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
	"ecosim-server/pkg/api"
	"ecosim-server/pkg/logger"
	"ecosim-server/pkg/utils"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrEntityNotFound = errors.New("entity not found")
)

// Instance - одна запущенная партия. Все обращения сериализуются
// мьютексом: сама симуляция внутренних блокировок не держит.
type Instance struct {
	ID        string
	Loop      *GameLoop
	CreatedAt time.Time

	mu  sync.Mutex
	log *logrus.Entry
}

// StepTurn продвигает партию ровно на один ход и возвращает сводку.
func (in *Instance) StepTurn() Stats {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.Loop.ProcessTurn()
	return in.Loop.CollectStats()
}

// Snapshot собирает DTO доски под блокировкой.
func (in *Instance) Snapshot() api.BoardResponse {
	in.mu.Lock()
	defer in.mu.Unlock()
	return buildBoardResponse(in.ID, in.Loop)
}

// Stats возвращает текущую сводку партии.
func (in *Instance) Stats() api.StatsResponse {
	in.mu.Lock()
	defer in.mu.Unlock()
	return buildStatsResponse(in.ID, in.Loop)
}

// Entity ищет юнита или растение по стабильному ID.
func (in *Instance) Entity(entityID string) (api.EntityResponse, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, u := range in.Loop.Units {
		if u.ID == entityID {
			return api.EntityResponse{Unit: buildUnitDetail(in.Loop.Board, u)}, nil
		}
	}
	for _, p := range in.Loop.Plants.All() {
		if p.ID == entityID {
			return api.EntityResponse{Plant: buildPlantDetail(p)}, nil
		}
	}
	return api.EntityResponse{}, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
}

// Registry - реестр живых партий. Явный объект вместо глобальной
// таблицы: владелец передает его всем, кому нужен поиск партии.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Instance
	cfg   *config.Config
	log   *logrus.Entry
}

func NewRegistry(cfg *config.Config) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Registry{
		games: make(map[string]*Instance),
		cfg:   cfg,
		log:   logger.Log.WithField("component", "registry"),
	}
}

// Create собирает партию из декларативных параметров: доска, растения,
// стартовые популяции, явные размещения.
func (r *Registry) Create(req api.CreateGameRequest) (*Instance, error) {
	cfg := r.cfg

	width, height := cfg.Board.Width, cfg.Board.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	if width < 5 || width > 100 || height < 5 || height > 100 {
		return nil, fmt.Errorf("board size %dx%d out of range [5, 100]", width, height)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	board := domain.NewBoard(width, height, cfg.Board.AllowDiagonal, rng)

	pm := plants.NewManager(board, rng, plants.Settings{
		InitialCount:   pick(req.Plants, cfg.Plants.InitialCount),
		GrowthChance:   cfg.Plants.GrowthRate,
		MaxCount:       cfg.Plants.MaxCount,
		RemoveDepleted: cfg.Plants.RemoveDepleted,
		MinEnergy:      cfg.Plants.MinEnergy,
	})

	maxTurns := pick(req.MaxTurns, cfg.Game.MaxTurns)
	loop := NewGameLoop(board, pm, rng, cfg.Game.CycleLength, maxTurns)
	loop.TurnDelay = time.Duration(cfg.Game.TurnDelayMs) * time.Millisecond

	tuning := TuningFromConfig(cfg)

	// Явные размещения имеют приоритет над случайной генерацией.
	for _, pl := range req.Placements {
		if err := placeExplicit(loop, pl, tuning); err != nil {
			return nil, err
		}
	}

	if !req.NoRandomSpawn {
		spawnRandom(loop, rng, units.RolePredator, pick(req.Predators, cfg.Game.Predators), tuning)
		spawnRandom(loop, rng, units.RoleScavenger, pick(req.Scavengers, cfg.Game.Scavengers), tuning)
		spawnRandom(loop, rng, units.RoleGrazer, pick(req.Grazers, cfg.Game.Grazers), tuning)
		pm.GenerateInitial()
	}

	in := &Instance{
		ID:        "game_" + utils.GenerateID(),
		Loop:      loop,
		CreatedAt: time.Now(),
	}
	in.log = r.log.WithField("game_id", in.ID)

	r.mu.Lock()
	r.games[in.ID] = in
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"game_id": in.ID,
		"board":   fmt.Sprintf("%dx%d", width, height),
		"seed":    seed,
	}).Info("Game created")
	return in, nil
}

// Get возвращает партию по ID.
func (r *Registry) Get(id string) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return in, nil
}

// Delete останавливает и удаляет партию.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.games[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	in.Loop.Stop()
	delete(r.games, id)
	r.log.WithField("game_id", id).Info("Game deleted")
	return nil
}

// List возвращает карточки всех живых партий.
func (r *Registry) List() []api.GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]api.GameInfo, 0, len(r.games))
	for _, in := range r.games {
		out = append(out, api.GameInfo{
			ID:     in.ID,
			Turn:   in.Loop.Turn,
			Width:  in.Loop.Board.Width,
			Height: in.Loop.Board.Height,
		})
	}
	return out
}

// TuningFromConfig переносит настроечные коэффициенты юнитов из
// конфигурации. Используется при создании партии и при восстановлении
// из сохранения: настройки берутся из текущей конфигурации, файл
// сохранения их не хранит.
func TuningFromConfig(cfg *config.Config) units.Tuning {
	t := units.DefaultTuning()
	t.DecayRate = cfg.Units.DecayRate
	t.RestingExitRatio = cfg.Units.RestingExitRatio
	t.MaxRestingTurns = cfg.Units.MaxRestingTurns
	t.MinRestExitRatio = cfg.Units.MinRestExitRatio
	t.Costs = units.Costs{
		Move:    cfg.Units.MoveCost,
		Look:    cfg.Units.LookCost,
		Attack:  cfg.Units.AttackCost,
		Passive: cfg.Units.PassiveCost,
	}
	return t
}

func placeExplicit(loop *GameLoop, pl api.Placement, tuning units.Tuning) error {
	pos := domain.Position{X: pl.X, Y: pl.Y}
	switch pl.Type {
	case units.RolePredator, units.RoleScavenger, units.RoleGrazer:
		u := units.New(pl.Type, pl.Name, pos, tuning)
		if !loop.Board.PlaceObject(u, pl.X, pl.Y) {
			return fmt.Errorf("cannot place %s at (%d,%d)", pl.Type, pl.X, pl.Y)
		}
		loop.AddUnit(u)
	case "plant":
		p := plants.New(pl.Kind, pos)
		if !loop.Board.PlaceObject(p, pl.X, pl.Y) {
			return fmt.Errorf("cannot place plant at (%d,%d)", pl.X, pl.Y)
		}
		loop.Plants.Adopt(p)
	case "obstacle":
		o := domain.NewObstacle("obstacle_" + utils.GenerateID())
		if !loop.Board.PlaceObject(o, pl.X, pl.Y) {
			return fmt.Errorf("cannot place obstacle at (%d,%d)", pl.X, pl.Y)
		}
	default:
		return fmt.Errorf("unknown placement type %q", pl.Type)
	}
	return nil
}

// spawnRandom расселяет юнитов роли по случайным пустым клеткам.
func spawnRandom(loop *GameLoop, rng *rand.Rand, role string, count int, tuning units.Tuning) {
	if count <= 0 {
		return
	}
	empty := loop.Board.EmptyPositions()
	if len(empty) == 0 {
		return
	}
	order := rng.Perm(len(empty))
	placed := 0
	for _, idx := range order {
		if placed >= count {
			break
		}
		pos := empty[idx]
		u := units.New(role, fmt.Sprintf("%s_%d", role, placed+1), pos, tuning)
		if loop.Board.PlaceObject(u, pos.X, pos.Y) {
			loop.AddUnit(u)
			placed++
		}
	}
}

func pick(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	return fallback
}
