// Package render рисует текстовый снимок доски для терминала.
package render

import (
	"fmt"
	"io"
	"strings"

	"ecosim-server/internal/domain"
	"ecosim-server/internal/engine"
	"ecosim-server/internal/plants"
	"ecosim-server/internal/units"
)

// ANSI-коды цветов.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorWhite  = "\033[97m"
)

// Renderer печатает доску и сводку в произвольный Writer.
type Renderer struct {
	Out   io.Writer
	Color bool // Выключается для логов и тестов
}

func New(out io.Writer, color bool) *Renderer {
	return &Renderer{Out: out, Color: color}
}

// Render выводит заголовок хода, доску и счетчики популяций.
func (r *Renderer) Render(loop *engine.GameLoop) {
	st := loop.CollectStats()

	fmt.Fprintf(r.Out, "=== Turn %d | %s | %s ===\n", st.Turn, st.Time, st.Season)

	var sb strings.Builder
	for y := 0; y < loop.Board.Height; y++ {
		for x := 0; x < loop.Board.Width; x++ {
			obj := loop.Board.ObjectAt(x, y)
			if obj == nil {
				sb.WriteString(". ")
				continue
			}
			sb.WriteString(r.colored(obj))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(r.Out, sb.String())

	fmt.Fprintf(r.Out, "Predators: %d  Scavengers: %d  Grazers: %d  Dead: %d  Plants: %d/%d\n\n",
		st.Predators, st.Scavengers, st.Grazers, st.DeadUnits, st.AlivePlants, st.TotalPlants)
}

func (r *Renderer) colored(obj domain.Occupant) string {
	sym := obj.Symbol()
	if !r.Color {
		return sym
	}
	return colorFor(obj) + sym + colorReset
}

func colorFor(obj domain.Occupant) string {
	switch o := obj.(type) {
	case *units.Unit:
		if !o.IsAlive() {
			return colorGray
		}
		switch o.Role() {
		case units.RolePredator:
			return colorRed
		case units.RoleScavenger:
			return colorYellow
		case units.RoleGrazer:
			return colorBlue
		}
		return colorWhite
	case *plants.Plant:
		if o.State.Alive {
			return colorGreen
		}
		return colorGray
	case *domain.Obstacle:
		return colorWhite
	}
	return colorWhite
}
