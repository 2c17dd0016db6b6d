package engine

import (
	"ecosim-server/internal/domain"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
	"ecosim-server/pkg/api"
)

// buildBoardResponse собирает снимок доски: только занятые клетки,
// в порядке обхода строк.
func buildBoardResponse(gameID string, loop *GameLoop) api.BoardResponse {
	resp := api.BoardResponse{
		GameID:    gameID,
		Turn:      loop.Turn,
		TimeOfDay: string(loop.Time),
		Season:    string(loop.Season),
		Width:     loop.Board.Width,
		Height:    loop.Board.Height,
	}
	loop.Board.ForEachCell(func(x, y int, obj domain.Occupant) {
		if obj == nil {
			return
		}
		resp.Cells = append(resp.Cells, api.CellView{
			X:        x,
			Y:        y,
			Symbol:   obj.Symbol(),
			EntityID: obj.EntityID(),
		})
	})
	return resp
}

func buildStatsResponse(gameID string, loop *GameLoop) api.StatsResponse {
	st := loop.CollectStats()
	return api.StatsResponse{
		GameID:      gameID,
		Turn:        st.Turn,
		TimeOfDay:   string(st.Time),
		Season:      string(st.Season),
		Predators:   st.Predators,
		Scavengers:  st.Scavengers,
		Grazers:     st.Grazers,
		DeadUnits:   st.DeadUnits,
		AlivePlants: st.AlivePlants,
		TotalPlants: st.TotalPlants,
	}
}

func buildUnitDetail(b *domain.Board, u *units.Unit) *api.UnitDetail {
	// Труп ничего не видит
	visible := 0
	if u.IsAlive() {
		visible = len(b.FieldOfView(u.Pos.X, u.Pos.Y, u.Vision))
	}
	return &api.UnitDetail{
		ID:           u.ID,
		Name:         u.Name,
		Role:         u.Role(),
		X:            u.Pos.X,
		Y:            u.Pos.Y,
		HP:           u.HP,
		MaxHP:        u.MaxHP,
		Energy:       u.Energy,
		MaxEnergy:    u.MaxEnergy,
		Strength:     u.Strength,
		Speed:        u.Speed,
		Vision:       u.Vision,
		State:        string(u.State),
		Alive:        u.IsAlive(),
		DecayStage:   u.DecayStage,
		DecayEnergy:  u.DecayEnergy,
		Level:        u.Level,
		Experience:   u.Experience,
		Traits:       u.Traits,
		ActionCounts: u.ActionCounts,
		VisibleCells: visible,
	}
}

func buildPlantDetail(p *plants.Plant) *api.PlantDetail {
	return &api.PlantDetail{
		ID:            p.ID,
		Kind:          p.Kind,
		X:             p.Pos.X,
		Y:             p.Pos.Y,
		GrowthStage:   p.State.GrowthStage,
		EnergyContent: p.State.EnergyContent,
		Alive:         p.State.Alive,
		Symbol:        p.Symbol(),
	}
}
