package domain

// GridSize - сторона квадратного поля. Поле тороидальное: стен нет.
const GridSize = 10

// Position - клетка поля. Вне [0, GridSize) координаты не бывают.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step сдвигает позицию на (dx, dy) с заворачиванием по модулю GridSize.
func (p Position) Step(dx, dy int) Position {
	return Position{X: wrap(p.X + dx), Y: wrap(p.Y + dy)}
}

// InBounds проверяет, что координаты лежат на поле.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// comparePositions задает порядок "по строкам": сначала Y, потом X.
func comparePositions(a, b Position) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// wrap - неотрицательный остаток (в Go -1 % 10 == -1).
func wrap(v int) int {
	v %= GridSize
	if v < 0 {
		v += GridSize
	}
	return v
}

// Direction - одно из четырех направлений шага монстра.
type Direction uint8

const (
	DirectionRight Direction = iota
	DirectionLeft
	DirectionUp
	DirectionDown
)

// Directions перечисляет направления в фиксированном порядке (важно для сидов).
var Directions = [...]Direction{DirectionRight, DirectionLeft, DirectionUp, DirectionDown}

// Delta возвращает вектор шага. Ось Y направлена вниз.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirectionRight:
		return 1, 0
	case DirectionLeft:
		return -1, 0
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirectionRight:
		return "right"
	case DirectionLeft:
		return "left"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	}
	return "unknown"
}

// Monster - монстр на клетке поля.
type Monster struct {
	Name     string   `json:"name"`
	Greeting string   `json:"hello"`
	HP       int      `json:"hp"`
	Pos      Position `json:"pos"`
}

// Player - подключенный игрок. Канал доставки живет в network.Broadcaster.
type Player struct {
	Username string   `json:"username"`
	Pos      Position `json:"pos"`
	Locale   string   `json:"locale"`
}

// AttackOutcome - итог одной атаки.
type AttackOutcome struct {
	Found       bool
	Damage      int
	RemainingHP int
	Killed      bool
}

// MoveEvent описывает перемещение монстра тикером.
type MoveEvent struct {
	Monster   Monster
	From      Position
	To        Position
	Direction Direction
}
