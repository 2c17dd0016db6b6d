// Package telemetry копит походовую статистику симуляции и
// выгружает ее в CSV для последующего анализа.
package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"ecosim-server/internal/engine"
	"ecosim-server/pkg/logger"
)

// TurnRecord - строка статистики одного хода.
type TurnRecord struct {
	Turn        int     `csv:"turn"`
	TimeOfDay   string  `csv:"time_of_day"`
	Season      string  `csv:"season"`
	Predators   int     `csv:"predators"`
	Scavengers  int     `csv:"scavengers"`
	Grazers     int     `csv:"grazers"`
	DeadUnits   int     `csv:"dead_units"`
	AlivePlants int     `csv:"alive_plants"`
	TotalPlants int     `csv:"total_plants"`
	MeanEnergy  float64 `csv:"mean_energy"`
}

// Recorder накапливает записи в памяти и пишет файл одним махом
// по окончании прогона.
type Recorder struct {
	path    string
	records []*TurnRecord
}

func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record снимает сводку хода.
func (r *Recorder) Record(st engine.Stats) {
	r.records = append(r.records, &TurnRecord{
		Turn:        st.Turn,
		TimeOfDay:   string(st.Time),
		Season:      string(st.Season),
		Predators:   st.Predators,
		Scavengers:  st.Scavengers,
		Grazers:     st.Grazers,
		DeadUnits:   st.DeadUnits,
		AlivePlants: st.AlivePlants,
		TotalPlants: st.TotalPlants,
		MeanEnergy:  st.MeanEnergy,
	})
}

// Flush выгружает накопленное в CSV-файл.
func (r *Recorder) Flush() error {
	if r.path == "" || len(r.records) == 0 {
		return nil
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create stats file %s: %w", r.path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&r.records, f); err != nil {
		return fmt.Errorf("write stats csv: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"path": r.path,
		"rows": len(r.records),
	}).Info("Telemetry flushed")
	return nil
}
