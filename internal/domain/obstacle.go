package domain

// Obstacle - непрозрачный элемент рельефа (камень, валун).
// Не живет, не растет, только занимает клетку и перекрывает обзор.
type Obstacle struct {
	ID string
}

func NewObstacle(id string) *Obstacle {
	return &Obstacle{ID: id}
}

func (o *Obstacle) EntityID() string   { return o.ID }
func (o *Obstacle) Symbol() string     { return "#" }
func (o *Obstacle) BlocksVision() bool { return true }
