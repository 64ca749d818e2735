package i18n

import (
	"mood-server/internal/domain"
	"mood-server/pkg/api"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer превращает ключи и структурированные события в текст
// на языке получателя. Потокобезопасен: принтеры только читаются.
type Localizer struct {
	printers map[string]*message.Printer
	fallback *message.Printer
}

func New() (*Localizer, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	l := &Localizer{printers: make(map[string]*message.Printer, len(localeTags))}
	for locale, tag := range localeTags {
		l.printers[locale] = message.NewPrinter(tag, message.Catalog(cat))
	}
	l.fallback = l.printers[domain.DefaultLocale]
	return l, nil
}

// MustNew - для тестов и main, где каталог собирается из констант.
func MustNew() *Localizer {
	l, err := New()
	if err != nil {
		panic("i18n: " + err.Error())
	}
	return l
}

// Tag возвращает BCP 47 тег локали протокола.
func Tag(locale string) language.Tag {
	if tag, ok := localeTags[locale]; ok {
		return tag
	}
	return tagEnglish
}

func (l *Localizer) printer(locale string) *message.Printer {
	if p, ok := l.printers[locale]; ok {
		return p
	}
	return l.fallback
}

// Text форматирует сообщение по ключу.
func (l *Localizer) Text(locale, key string, args ...any) string {
	return l.printer(locale).Sprintf(key, args...)
}

// HasHelp сообщает, есть ли справка по команде.
func HasHelp(topic string) bool {
	return slices.Contains(HelpTopics, topic)
}

// Help возвращает справку по одной команде или общий список команд.
func (l *Localizer) Help(locale, topic string) string {
	if topic != "" {
		return l.Text(locale, helpKey(topic))
	}
	return l.Text(locale, MsgAvailable, strings.Join(HelpTopics, ", ")) + "\n" + l.Text(locale, MsgHelpHint)
}

// Render собирает сообщение для одного получателя.
// Encounter адресный и идет отдельным типом, остальное - broadcast.
func (l *Localizer) Render(locale string, ev domain.Event) api.Response {
	p := l.printer(locale)

	if ev.Type == domain.EventEncounter {
		return api.Response{
			Type:        api.TypeEncounter,
			Message:     p.Sprintf(MsgEncounter, ev.Monster, ev.Greeting),
			Coords:      &api.Coords{X: ev.Pos.X, Y: ev.Pos.Y},
			MonsterInfo: &api.MonsterInfo{Name: ev.Monster, Hello: ev.Greeting},
		}
	}

	resp := api.Response{Type: api.TypeBroadcast, Event: ev.Type.String()}
	switch ev.Type {
	case domain.EventPlayerJoined:
		resp.Message = p.Sprintf(BcJoined, ev.Actor)
	case domain.EventPlayerLeft:
		resp.Message = p.Sprintf(BcLeft, ev.Actor)
	case domain.EventPlayerMoved:
		resp.Message = p.Sprintf(BcMoved, ev.Actor, ev.Pos.X, ev.Pos.Y)
		resp.Coords = &api.Coords{X: ev.Pos.X, Y: ev.Pos.Y}
	case domain.EventMonsterAdded:
		resp.Message = p.Sprintf(BcAdded, ev.Actor, ev.Monster, ev.Pos.X, ev.Pos.Y, ev.Greeting)
		resp.Coords = &api.Coords{X: ev.Pos.X, Y: ev.Pos.Y}
		resp.MonsterInfo = &api.MonsterInfo{Name: ev.Monster, Hello: ev.Greeting}
	case domain.EventMonsterAttacked:
		if ev.Killed {
			resp.Message = p.Sprintf(BcAttackKilled, ev.Actor, ev.Monster, ev.Weapon, ev.Damage, ev.Monster)
		} else {
			resp.Message = p.Sprintf(BcAttackHurt, ev.Actor, ev.Monster, ev.Weapon, ev.Damage, ev.Monster, ev.RemainingHP)
		}
		resp.MonsterInfo = &api.MonsterInfo{Name: ev.Monster}
		resp.AttackInfo = &api.AttackInfo{
			Success:     true,
			Damage:      ev.Damage,
			RemainingHP: ev.RemainingHP,
			Killed:      ev.Killed,
		}
	case domain.EventChat:
		resp.Message = p.Sprintf(BcChat, ev.Actor, ev.Text)
	case domain.EventMonsterMoved:
		resp.Message = p.Sprintf(BcMonsterMoved, ev.Monster, p.Sprintf(ev.Direction.String()))
		resp.Coords = &api.Coords{X: ev.Pos.X, Y: ev.Pos.Y}
		resp.MonsterInfo = &api.MonsterInfo{Name: ev.Monster}
	default:
		resp.Message = ev.Type.String()
	}
	return resp
}
