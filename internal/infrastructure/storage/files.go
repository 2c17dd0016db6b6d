package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"ecosim-server/internal/config"
	"ecosim-server/internal/domain"
	"ecosim-server/internal/engine"
	"ecosim-server/internal/plants"
	"ecosim-server/pkg/logger"
)

const compressedExt = ".zst"

// Save пишет слепок в JSON-файл. Путь с расширением .zst дает
// zstd-сжатый файл.
func Save(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create save file %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, compressedExt) {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("init zstd writer: %w", err)
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return fmt.Errorf("write save file %s: %w", path, err)
		}
		// Close сбрасывает последний блок, без него файл битый.
		if err := enc.Close(); err != nil {
			return fmt.Errorf("finish zstd stream: %w", err)
		}
	} else if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write save file %s: %w", path, err)
	}
	logger.Log.WithField("path", path).Info("Game saved")
	return nil
}

// Load читает слепок из файла, прозрачно распаковывая .zst.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, compressedExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("init zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse save file %s: %w", path, err)
	}
	return &snap, nil
}

// List возвращает файлы сохранений каталога, новые первыми.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read saves dir %s: %w", dir, err)
	}

	type saveFile struct {
		name    string
		modTime time.Time
	}
	var saves []saveFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, compressedExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		saves = append(saves, saveFile{name: name, modTime: info.ModTime()})
	}
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].modTime.After(saves[j].modTime)
	})

	out := make([]string, 0, len(saves))
	for _, s := range saves {
		out = append(out, filepath.Join(dir, s.name))
	}
	return out, nil
}

// Restore собирает игровой цикл из слепка. Генератор случайностей
// засевается заново: слепок его состояние не хранит.
func Restore(snap *Snapshot, cfg *config.Config) (*engine.GameLoop, error) {
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("restore: unsupported snapshot version %d", snap.Version)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	board := domain.NewBoard(snap.Board.Width, snap.Board.Height, snap.Board.AllowDiagonal, rng)

	pm := plants.NewManager(board, rng, plants.Settings{
		GrowthChance:   cfg.Plants.GrowthRate,
		MaxCount:       cfg.Plants.MaxCount,
		RemoveDepleted: cfg.Plants.RemoveDepleted,
		MinEnergy:      cfg.Plants.MinEnergy,
	})

	loop := engine.NewGameLoop(board, pm, rng, snap.CycleLength, snap.MaxTurns)
	loop.Turn = snap.Turn
	loop.Time = engine.TimeOfDay(snap.TimeOfDay)
	loop.Season = engine.Season(snap.Season)
	loop.TurnDelay = time.Duration(cfg.Game.TurnDelayMs) * time.Millisecond

	tuning := engine.TuningFromConfig(cfg)

	for _, us := range snap.Units {
		u := unitFromSnapshot(us, tuning)
		if !board.PlaceObject(u, us.X, us.Y) {
			return nil, fmt.Errorf("restore: cannot place unit %s at (%d,%d)", us.ID, us.X, us.Y)
		}
		loop.AddUnit(u)
	}

	for _, ps := range snap.Plants {
		p := plants.New(ps.Kind, domain.Position{X: ps.X, Y: ps.Y})
		p.ID = ps.ID
		p.State = plants.State{
			GrowthStage:   ps.GrowthStage,
			EnergyContent: ps.EnergyContent,
			Alive:         ps.Alive,
		}
		if !board.PlaceObject(p, ps.X, ps.Y) {
			return nil, fmt.Errorf("restore: cannot place plant %s at (%d,%d)", ps.ID, ps.X, ps.Y)
		}
		pm.Adopt(p)
	}

	for _, ob := range snap.Obstacles {
		o := domain.NewObstacle(ob.ID)
		if !board.PlaceObject(o, ob.X, ob.Y) {
			return nil, fmt.Errorf("restore: cannot place obstacle %s at (%d,%d)", ob.ID, ob.X, ob.Y)
		}
	}

	logger.Log.WithField("turn", snap.Turn).Info("Game restored from snapshot")
	return loop, nil
}
