package plants

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"ecosim-server/internal/domain"
	"ecosim-server/pkg/logger"
)

// Settings - параметры распределения ресурсов по доске.
type Settings struct {
	InitialCount   int     // Сколько растений посадить на старте
	GrowthChance   float64 // Шанс появления нового растения за ход
	MaxCount       int     // Потолок численности
	RemoveDepleted bool    // Убирать ли съеденные растения с доски
	MinEnergy      float64 // Ночной пол энергии для всех растений
}

// Manager владеет всеми растениями партии: начальная посадка,
// подсев в течение игры и уборка съеденных.
type Manager struct {
	board    *domain.Board
	rng      *rand.Rand
	settings Settings
	plants   []*Plant
	log      *logrus.Entry
}

func NewManager(board *domain.Board, rng *rand.Rand, settings Settings) *Manager {
	return &Manager{
		board:    board,
		rng:      rng,
		settings: settings,
		log:      logger.Log.WithField("component", "plants"),
	}
}

// GenerateInitial сажает стартовую популяцию в случайные пустые клетки.
func (m *Manager) GenerateInitial() int {
	placed := m.board.PlaceRandomPlants(m.settings.InitialCount, func(pos domain.Position) domain.Occupant {
		p := NewRandom(m.rng, pos)
		m.applySettings(p)
		m.plants = append(m.plants, p)
		return p
	})
	m.log.WithField("count", len(placed)).Info("Initial plants placed")
	return len(placed)
}

// Adopt регистрирует уже размещенное на доске растение.
func (m *Manager) Adopt(p *Plant) {
	m.applySettings(p)
	m.plants = append(m.plants, p)
}

// All возвращает текущий список растений. Слайс общий, не изменять.
func (m *Manager) All() []*Plant {
	return m.plants
}

// Replenish - подсев: с вероятностью GrowthChance добавляет одно
// растение, пока численность ниже потолка.
func (m *Manager) Replenish() {
	if len(m.plants) >= m.settings.MaxCount {
		return
	}
	if m.rng.Float64() >= m.settings.GrowthChance {
		return
	}
	m.board.PlaceRandomPlants(1, func(pos domain.Position) domain.Occupant {
		p := NewRandom(m.rng, pos)
		m.applySettings(p)
		m.plants = append(m.plants, p)
		m.log.WithFields(logrus.Fields{
			"plant_id": p.ID,
			"kind":     p.Kind,
			"x":        pos.X,
			"y":        pos.Y,
		}).Debug("Plant replenished")
		return p
	})
}

// Cleanup убирает полностью съеденные растения с доски и из списка.
// Включается настройкой RemoveDepleted.
func (m *Manager) Cleanup() {
	if !m.settings.RemoveDepleted {
		return
	}
	kept := m.plants[:0]
	for _, p := range m.plants {
		if p.Depleted() {
			m.board.RemoveObject(p.Pos.X, p.Pos.Y)
			m.log.WithField("plant_id", p.ID).Debug("Depleted plant removed")
			continue
		}
		kept = append(kept, p)
	}
	m.plants = kept
}

func (m *Manager) applySettings(p *Plant) {
	if m.settings.MinEnergy > 0 {
		p.MinEnergy = m.settings.MinEnergy
	}
}
