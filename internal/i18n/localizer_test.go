package i18n

import (
	"mood-server/internal/domain"
	"mood-server/pkg/api"
	"strings"
	"testing"
)

func TestLocalizer_Text(t *testing.T) {
	l := MustNew()

	tests := []struct {
		name   string
		locale string
		key    string
		args   []any
		want   string
	}{
		{"english welcome", "en_US", MsgWelcome, []any{"alice"}, "Welcome, alice!"},
		{"russian welcome", "ru_RU", MsgWelcome, []any{"alice"}, "Добро пожаловать, alice!"},
		{"unknown locale falls back", "de_DE", MsgWelcome, []any{"alice"}, "Welcome, alice!"},
		{"english error", "en_US", ErrUnsupportedLocale, []any{"fr_FR"}, "Unsupported locale: fr_FR"},
		{"russian error", "ru_RU", ErrUnknownCommand, nil, "Неизвестная команда"},
		{"english singular second", "en_US", MsgUptime, []any{1}, "Server uptime: 1 second"},
		{"english plural seconds", "en_US", MsgUptime, []any{42}, "Server uptime: 42 seconds"},
		{"russian one hp", "ru_RU", MsgMonsterHasHP, []any{"tux", 1}, "У tux остался 1 хит"},
		{"russian few hp", "ru_RU", MsgMonsterHasHP, []any{"tux", 3}, "У tux осталось 3 хита"},
		{"russian many hp", "ru_RU", MsgMonsterHasHP, []any{"tux", 5}, "У tux осталось 5 хитов"},
		{"english hp", "en_US", MsgMonsterHasHP, []any{"tux", 40}, "tux now has 40 hp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Text(tt.locale, tt.key, tt.args...); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizer_Help(t *testing.T) {
	l := MustNew()

	all := l.Help("en_US", "")
	if !strings.HasPrefix(all, "Available commands: attack, help, locale") {
		t.Errorf("catalog = %q", all)
	}
	if !strings.HasSuffix(all, "\nType 'help <command>' for more information") {
		t.Errorf("catalog hint missing: %q", all)
	}

	for _, topic := range HelpTopics {
		for _, locale := range domain.Locales {
			text := l.Help(locale, topic)
			if text == "" || text == helpKey(topic) {
				t.Errorf("no %s help for %q", locale, topic)
			}
		}
	}

	if got := l.Help("ru_RU", "timer"); got != "timer: время работы сервера" {
		t.Errorf("ru timer help = %q", got)
	}
	if HasHelp("dance") || !HasHelp("EOF") {
		t.Error("HasHelp lookup is wrong")
	}
}

func TestLocalizer_RenderBroadcasts(t *testing.T) {
	l := MustNew()
	tux := domain.Monster{Name: "tux", Greeting: "Hi", HP: 20, Pos: domain.Position{X: 0, Y: 1}}

	tests := []struct {
		name   string
		locale string
		ev     domain.Event
		want   string
	}{
		{
			name:   "joined",
			locale: "en_US",
			ev:     domain.PlayerJoined("alice"),
			want:   "alice joined the game!",
		},
		{
			name:   "left in russian",
			locale: "ru_RU",
			ev:     domain.PlayerLeft("alice"),
			want:   "alice покинул игру!",
		},
		{
			name:   "moved",
			locale: "en_US",
			ev:     domain.PlayerMoved("alice", domain.Position{X: 9, Y: 0}),
			want:   "alice moved to (9,0)",
		},
		{
			// Имя монстра "at" ломало разбор английской строки; здесь разбора нет.
			name:   "added monster with awkward name",
			locale: "en_US",
			ev:     domain.Event{Type: domain.EventMonsterAdded, Actor: "bob", Monster: "at", Greeting: "saying at", Pos: domain.Position{X: 2, Y: 3}},
			want:   "bob added at at (2,3) saying saying at",
		},
		{
			name:   "attack hurt",
			locale: "en_US",
			ev:     domain.MonsterAttacked("alice", "tux", "sword", domain.AttackOutcome{Found: true, Damage: 10, RemainingHP: 10}),
			want:   "alice attacked tux with sword, dealing 10 damage. tux has 10 HP remaining.",
		},
		{
			name:   "attack killed",
			locale: "en_US",
			ev:     domain.MonsterAttacked("alice", "tux", "axe", domain.AttackOutcome{Found: true, Damage: 5, Killed: true}),
			want:   "alice attacked tux with axe, dealing 5 damage. tux was killed!",
		},
		{
			name:   "attack hurt in russian",
			locale: "ru_RU",
			ev:     domain.MonsterAttacked("alice", "tux", "sword", domain.AttackOutcome{Found: true, Damage: 10, RemainingHP: 2}),
			want:   "alice атаковал tux оружием sword, нанеся 10 урона. У tux осталось 2 хита.",
		},
		{
			name:   "chat keeps percent signs",
			locale: "en_US",
			ev:     domain.Chat("bob", "100% sure"),
			want:   "bob: 100% sure",
		},
		{
			name:   "monster moved",
			locale: "en_US",
			ev:     domain.MonsterMoved(domain.MoveEvent{Monster: tux, To: domain.Position{X: 1, Y: 1}, Direction: domain.DirectionRight}),
			want:   "Monster tux moved one cell right",
		},
		{
			name:   "monster moved in russian",
			locale: "ru_RU",
			ev:     domain.MonsterMoved(domain.MoveEvent{Monster: tux, To: domain.Position{X: 0, Y: 0}, Direction: domain.DirectionUp}),
			want:   "Монстр tux переместился на одну клетку вверх",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := l.Render(tt.locale, tt.ev)
			if resp.Type != api.TypeBroadcast {
				t.Errorf("type = %q, want broadcast", resp.Type)
			}
			if resp.Event != tt.ev.Type.String() {
				t.Errorf("event = %q", resp.Event)
			}
			if resp.Message != tt.want {
				t.Errorf("message = %q, want %q", resp.Message, tt.want)
			}
		})
	}
}

func TestLocalizer_RenderEncounter(t *testing.T) {
	l := MustNew()
	resp := l.Render("en_US", domain.Encounter(domain.Monster{Name: "tux", Greeting: "Hi", Pos: domain.Position{X: 3, Y: 4}}))

	if resp.Type != api.TypeEncounter {
		t.Fatalf("type = %q", resp.Type)
	}
	if resp.MonsterInfo == nil || resp.Name != "tux" || resp.Hello != "Hi" {
		t.Errorf("monster info = %+v", resp.MonsterInfo)
	}
	if resp.Message != "You met tux: Hi" {
		t.Errorf("message = %q", resp.Message)
	}
}
