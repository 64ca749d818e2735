package engine

import (
	"context"
	"mood-server/internal/domain"
	"mood-server/internal/i18n"
	"mood-server/internal/storage"
	"mood-server/pkg/api"
	"strings"
	"sync"
	"testing"
	"time"
)

type memJournal struct {
	mu      sync.Mutex
	entries []storage.Entry
}

func (j *memJournal) Append(_ context.Context, e storage.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func newTestDispatcher(t *testing.T, opts ...Option) (*Dispatcher, *domain.World) {
	t.Helper()
	w := domain.NewWorld(domain.WithSeed(1))
	for _, name := range []string{"alice", "bob"} {
		if _, err := w.Join(name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	return NewDispatcher(w, i18n.MustNew(), opts...), w
}

func command(t *testing.T, line string) api.Command {
	t.Helper()
	cmd, err := api.ParseCommand([]byte(line))
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return cmd
}

func TestDispatch_Scenario(t *testing.T) {
	d, w := newTestDispatcher(t)
	ctx := context.Background()

	res := d.Dispatch(ctx, "alice", command(t, `{"type":"addmon","x":1,"y":0,"name":"tux","hello":"Hi!","hp":25}`))
	if res.Reply.Type != api.TypeAddedMonster || res.Reply.Message != "Added monster at (1, 0)" {
		t.Fatalf("addmon reply = %+v", res.Reply)
	}
	if res.Reply.Replaced || res.Reply.Hello != "Hi!" {
		t.Errorf("addmon fields = %+v %+v", res.Reply.Placement, res.Reply.MonsterInfo)
	}
	if len(res.Broadcasts) != 1 || res.Broadcasts[0].Type != domain.EventMonsterAdded {
		t.Errorf("addmon broadcasts = %+v", res.Broadcasts)
	}

	res = d.Dispatch(ctx, "alice", command(t, `{"type":"move","dx":1,"dy":0}`))
	if res.Reply.Type != api.TypeEncounter || res.Reply.Message != "You met tux: Hi!" {
		t.Fatalf("move reply = %+v", res.Reply)
	}
	if len(res.Broadcasts) != 1 || res.Broadcasts[0].Pos != (domain.Position{X: 1, Y: 0}) {
		t.Errorf("move broadcasts = %+v", res.Broadcasts)
	}

	res = d.Dispatch(ctx, "alice", command(t, `{"type":"attack","name":"tux","weapon":"sword"}`))
	if res.Reply.Message != "Attacked tux, damage 10 hp\ntux now has 15 hp" {
		t.Errorf("first attack = %q", res.Reply.Message)
	}
	if !res.Reply.Success || res.Reply.RemainingHP != 15 || res.Reply.Killed {
		t.Errorf("first attack info = %+v", res.Reply.AttackInfo)
	}

	res = d.Dispatch(ctx, "alice", command(t, `{"type":"attack","name":"tux","weapon":"axe"}`))
	if res.Reply.Message != "Attacked tux, damage 15 hp\ntux died" {
		t.Errorf("second attack = %q", res.Reply.Message)
	}
	if !res.Reply.Killed || res.Reply.Damage != 15 {
		t.Errorf("second attack info = %+v", res.Reply.AttackInfo)
	}
	if len(res.Broadcasts) != 1 || res.Broadcasts[0].Weapon != "axe" {
		t.Errorf("attack broadcasts = %+v", res.Broadcasts)
	}
	if _, ok := w.MonsterAt(1, 0); ok {
		t.Error("dead monster is still on the grid")
	}

	res = d.Dispatch(ctx, "alice", command(t, `{"type":"attack","name":"tux","damage":5}`))
	if res.Reply.Type != api.TypeAttackResult || res.Reply.Success || res.Reply.Message != "No tux here" {
		t.Errorf("attack on empty cell = %+v %+v", res.Reply, res.Reply.AttackInfo)
	}
	if len(res.Broadcasts) != 0 {
		t.Errorf("missed attack must not broadcast: %+v", res.Broadcasts)
	}
}

func TestDispatch_Errors(t *testing.T) {
	d, _ := newTestDispatcher(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown command", `{"type":"dance"}`, "Unknown command"},
		{"missing type", `{"dx":1}`, "Unknown command"},
		{"bad field type", `{"type":"move","dx":"one","dy":0}`, "Invalid command format"},
		{"zero move", `{"type":"move","dx":0,"dy":0}`, i18n.ErrInvalidMove},
		{"long move", `{"type":"move","dx":3,"dy":0}`, i18n.ErrInvalidMove},
		{"unknown monster", `{"type":"addmon","x":1,"y":1,"name":"godzilla","hp":5}`, "Unknown monster: godzilla"},
		{"out of bounds", `{"type":"addmon","x":10,"y":1,"name":"tux","hp":5}`, "Coordinates must be within 0..9"},
		{"zero hp", `{"type":"addmon","x":1,"y":1,"name":"tux","hp":0}`, "Hitpoints must be positive"},
		{"no name", `{"type":"addmon","x":1,"y":1,"hp":3}`, "Monster name is required"},
		{"unknown weapon", `{"type":"attack","name":"tux","weapon":"banana"}`, "Unknown weapon: banana"},
		{"no damage", `{"type":"attack","name":"tux"}`, "Damage must be positive"},
		{"negative damage", `{"type":"attack","name":"tux","damage":-4}`, "Damage must be positive"},
		{"empty chat", `{"type":"sayall","message":"   "}`, "Message is empty"},
		{"bad state", `{"type":"movemonsters","state":"maybe"}`, "Invalid state: use 'on' or 'off'"},
		{"bad locale", `{"type":"locale","locale":"de_DE"}`, "Unsupported locale: de_DE"},
		{"unknown help", `{"type":"help","command":"fly"}`, "Unknown command: fly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Dispatch(context.Background(), "alice", command(t, tt.line))
			if res.Reply.Type != api.TypeError {
				t.Fatalf("type = %q, want error", res.Reply.Type)
			}
			if res.Reply.Message != tt.want {
				t.Errorf("message = %q, want %q", res.Reply.Message, tt.want)
			}
			if len(res.Broadcasts) != 0 {
				t.Errorf("rejected command broadcast %+v", res.Broadcasts)
			}
		})
	}
}

func TestDispatch_PlayerGone(t *testing.T) {
	d, w := newTestDispatcher(t)
	w.Leave("bob")

	res := d.Dispatch(context.Background(), "bob", command(t, `{"type":"move","dx":1,"dy":0}`))
	if res.Reply.Type != api.TypeError || res.Reply.Message != "Player not found" {
		t.Errorf("reply = %+v", res.Reply)
	}
}

func TestDispatch_SayAll(t *testing.T) {
	d, _ := newTestDispatcher(t, WithChatWidth(5))

	res := d.Dispatch(context.Background(), "bob", command(t, `{"type":"sayall","message":"  hello world  "}`))
	if res.Reply.Type != api.TypeSayAllResult {
		t.Fatalf("reply = %+v", res.Reply)
	}
	if len(res.Broadcasts) != 1 {
		t.Fatalf("broadcasts = %+v", res.Broadcasts)
	}
	chat := res.Broadcasts[0]
	if chat.Actor != "bob" || chat.Text != "hell…" {
		t.Errorf("chat = %+v", chat)
	}
	if !strings.Contains(res.Reply.Message, "hell…") {
		t.Errorf("reply message = %q", res.Reply.Message)
	}
}

func TestDispatch_TimerAndMoveMonsters(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	w := domain.NewWorld(domain.WithClock(func() time.Time { return now }))
	if _, err := w.Join("alice"); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(w, i18n.MustNew())

	now = start.Add(42*time.Second + 300*time.Millisecond)
	res := d.Dispatch(context.Background(), "alice", command(t, `{"type":"timer"}`))
	if res.Reply.Type != api.TypeTimerResult || res.Reply.Uptime != 42 {
		t.Fatalf("timer = %+v %+v", res.Reply, res.Reply.UptimeInfo)
	}
	if res.Reply.Message != "Server uptime: 42 seconds" {
		t.Errorf("timer message = %q", res.Reply.Message)
	}

	res = d.Dispatch(context.Background(), "alice", command(t, `{"type":"movemonsters","state":"off"}`))
	if res.Reply.Type != api.TypeMoveMonsters || w.Ticking() {
		t.Errorf("movemonsters off: reply %+v ticking %v", res.Reply, w.Ticking())
	}
	d.Dispatch(context.Background(), "alice", command(t, `{"type":"movemonsters","state":"on"}`))
	if !w.Ticking() {
		t.Error("movemonsters on did not resume ticking")
	}
}

func TestDispatch_Locale(t *testing.T) {
	d, w := newTestDispatcher(t)
	ctx := context.Background()

	res := d.Dispatch(ctx, "alice", command(t, `{"type":"locale","locale":"ru_RU"}`))
	if res.Reply.Type != api.TypeLocaleResult {
		t.Fatalf("reply = %+v", res.Reply)
	}
	if w.Locale("alice") != "ru_RU" {
		t.Fatalf("locale = %q", w.Locale("alice"))
	}
	en := i18n.MustNew().Text("en_US", i18n.MsgSetLocale, "ru_RU")
	if res.Reply.Message == en {
		t.Errorf("confirmation is not translated: %q", res.Reply.Message)
	}

	// Следующие ответы alice переведены, bob остается на английском
	ru := d.Dispatch(ctx, "alice", command(t, `{"type":"dance"}`))
	if ru.Reply.Message == "Unknown command" {
		t.Errorf("alice still gets english: %q", ru.Reply.Message)
	}
	if got := d.Dispatch(ctx, "bob", command(t, `{"type":"dance"}`)); got.Reply.Message != "Unknown command" {
		t.Errorf("bob got %q", got.Reply.Message)
	}
}

func TestDispatch_Help(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), "alice", command(t, `{"type":"help"}`))
	if res.Reply.Type != api.TypeHelpResult || !strings.Contains(res.Reply.Message, "addmon") {
		t.Errorf("help = %+v", res.Reply)
	}

	res = d.Dispatch(context.Background(), "alice", command(t, `{"type":"help","command":"attack"}`))
	if res.Reply.Type != api.TypeHelpResult || res.Reply.Message == "" {
		t.Errorf("help attack = %+v", res.Reply)
	}
}

func TestDispatch_Journal(t *testing.T) {
	j := &memJournal{}
	d, _ := newTestDispatcher(t, WithJournal(j))
	ctx := WithSession(context.Background(), "sess-1")

	d.Dispatch(ctx, "alice", command(t, `{"type":"move","dx":0,"dy":1}`))
	d.Dispatch(ctx, "alice", command(t, `{"type":"fly"}`))

	if len(j.entries) != 2 {
		t.Fatalf("journal has %d entries, want 2", len(j.entries))
	}
	ok, rejected := j.entries[0], j.entries[1]
	if ok.Outcome != storage.OutcomeOK || ok.Session != "sess-1" || ok.Command != "move" {
		t.Errorf("first entry = %+v", ok)
	}
	if rejected.Outcome != storage.OutcomeRejected || rejected.Detail != "Unknown command" {
		t.Errorf("second entry = %+v", rejected)
	}
}
