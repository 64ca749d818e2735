package domain

import (
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"
)

// World - общее состояние игры: монстры на поле и подключенные игроки.
//
// Каждая публичная операция держит мьютекс от начала до конца, поэтому
// операции линеаризуемы: атака и тик не могут перемешаться на одном монстре.
// Наружу отдаются только копии, прямого доступа к картам нет.
type World struct {
	mu sync.Mutex

	monsters map[Position]*Monster
	players  map[string]*Player
	ticking  bool

	rng       *rand.Rand
	now       func() time.Time
	startedAt time.Time
}

// Option настраивает World при создании.
type Option func(*World)

// WithSeed фиксирует зерно генератора тикера.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock подменяет часы (для тестов аптайма).
func WithClock(now func() time.Time) Option {
	return func(w *World) {
		w.now = now
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		monsters: make(map[Position]*Monster),
		players:  make(map[string]*Player),
		ticking:  true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w.startedAt = w.now()
	return w
}

// Join резервирует имя и ставит игрока в (0,0).
func (w *World) Join(username string) (Player, error) {
	if strings.TrimSpace(username) == "" {
		return Player{}, ErrUsernameRequired
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, taken := w.players[username]; taken {
		return Player{}, ErrUsernameTaken
	}
	p := &Player{Username: username, Locale: DefaultLocale}
	w.players[username] = p
	return *p, nil
}

// Leave удаляет игрока. Возвращает false, если игрока уже не было.
func (w *World) Leave(username string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.players[username]; !ok {
		return false
	}
	delete(w.players, username)
	return true
}

// Move сдвигает игрока и возвращает монстра на новой клетке, если он там есть.
func (w *World) Move(username string, dx, dy int) (Position, *Monster, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[username]
	if !ok {
		return Position{}, nil, ErrPlayerNotFound
	}
	p.Pos = p.Pos.Step(dx, dy)

	if m, ok := w.monsters[p.Pos]; ok {
		found := *m
		return p.Pos, &found, nil
	}
	return p.Pos, nil, nil
}

// AddMonster ставит монстра в клетку, заменяя прежнего.
func (w *World) AddMonster(x, y int, name, greeting string, hp int) (bool, error) {
	pos := Position{X: x, Y: y}
	if !pos.InBounds() {
		return false, ErrOutOfBounds
	}
	if hp <= 0 {
		return false, ErrInvalidHitpoints
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	_, replaced := w.monsters[pos]
	w.monsters[pos] = &Monster{Name: name, Greeting: greeting, HP: hp, Pos: pos}
	return replaced, nil
}

// Attack бьет монстра с именем name в клетке атакующего.
// Урон не превышает оставшиеся хиты; монстр с нулем хитов удаляется
// в той же критической секции.
func (w *World) Attack(username, name string, damage int) (AttackOutcome, error) {
	if damage <= 0 {
		return AttackOutcome{}, ErrInvalidDamage
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[username]
	if !ok {
		return AttackOutcome{}, ErrPlayerNotFound
	}
	m, ok := w.monsters[p.Pos]
	if !ok || m.Name != name {
		return AttackOutcome{}, nil
	}

	dealt := min(damage, m.HP)
	m.HP -= dealt
	killed := m.HP == 0
	if killed {
		delete(w.monsters, p.Pos)
	}
	return AttackOutcome{Found: true, Damage: dealt, RemainingHP: m.HP, Killed: killed}, nil
}

func (w *World) SetTicking(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticking = enabled
}

func (w *World) Ticking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticking
}

// TickOnce пытается сдвинуть случайного монстра на одну клетку.
// Делает до |monsters|*4 попыток; если свободной клетки не нашлось, тик пропускается.
// Вторым значением возвращаются игроки, стоящие на новой клетке монстра.
func (w *World) TickOnce() (*MoveEvent, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ticking || len(w.monsters) == 0 {
		return nil, nil
	}

	// Ключи сортируются, чтобы при фиксированном сиде тик был воспроизводим.
	keys := make([]Position, 0, len(w.monsters))
	for pos := range w.monsters {
		keys = append(keys, pos)
	}
	slices.SortFunc(keys, comparePositions)

	attempts := len(keys) * len(Directions)
	for i := 0; i < attempts; i++ {
		from := keys[w.rng.Intn(len(keys))]
		dir := Directions[w.rng.Intn(len(Directions))]
		to := from.Step(dir.Delta())

		if _, busy := w.monsters[to]; busy && to != from {
			continue
		}

		m := w.monsters[from]
		delete(w.monsters, from)
		m.Pos = to
		w.monsters[to] = m

		var met []string
		for name, p := range w.players {
			if p.Pos == to {
				met = append(met, name)
			}
		}
		slices.Sort(met)

		return &MoveEvent{Monster: *m, From: from, To: to, Direction: dir}, met
	}
	return nil, nil
}

func (w *World) SetLocale(username, locale string) error {
	if !IsSupportedLocale(locale) {
		return ErrUnsupportedLocale
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[username]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Locale = locale
	return nil
}

// Locale возвращает язык игрока; для неизвестных - язык по умолчанию.
func (w *World) Locale(username string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.players[username]; ok {
		return p.Locale
	}
	return DefaultLocale
}

// Player возвращает копию игрока.
func (w *World) Player(username string) (Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[username]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// MonsterAt возвращает копию монстра в клетке.
func (w *World) MonsterAt(x, y int) (Monster, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.monsters[Position{X: x, Y: y}]
	if !ok {
		return Monster{}, false
	}
	return *m, true
}

func (w *World) Uptime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now().Sub(w.startedAt)
}

// Snapshot - согласованный срез состояния для debug-эндпоинтов.
type Snapshot struct {
	Players  []Player  `json:"players"`
	Monsters []Monster `json:"monsters"`
	Ticking  bool      `json:"ticking"`
	Uptime   float64   `json:"uptime_seconds"`
}

func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		Players:  make([]Player, 0, len(w.players)),
		Monsters: make([]Monster, 0, len(w.monsters)),
		Ticking:  w.ticking,
		Uptime:   w.now().Sub(w.startedAt).Seconds(),
	}
	for _, p := range w.players {
		s.Players = append(s.Players, *p)
	}
	for _, m := range w.monsters {
		s.Monsters = append(s.Monsters, *m)
	}
	slices.SortFunc(s.Players, func(a, b Player) int { return strings.Compare(a.Username, b.Username) })
	slices.SortFunc(s.Monsters, func(a, b Monster) int { return comparePositions(a.Pos, b.Pos) })
	return s
}
