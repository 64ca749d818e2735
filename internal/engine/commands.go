package engine

import (
	"errors"
	"mood-server/internal/domain"
	"mood-server/internal/engine/handlers"
	"mood-server/internal/i18n"
	"mood-server/pkg/api"
	"strings"

	"github.com/mattn/go-runewidth"
)

func (d *Dispatcher) move(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	pos, monster, err := d.world.Move(ctx.Username, p.Dx, p.Dy)
	if err != nil {
		return handlers.Result{}, err
	}

	// На клетке монстр: вместо позиции игрок получает встречу
	var reply api.Response
	if monster != nil {
		reply = d.loc.Render(ctx.Locale, domain.Encounter(*monster))
	} else {
		reply = api.Response{
			Type:    api.TypePosition,
			Message: d.loc.Text(ctx.Locale, i18n.MsgPosition, pos.X, pos.Y),
			Coords:  &api.Coords{X: pos.X, Y: pos.Y},
		}
	}
	return handlers.Reply(reply).WithBroadcast(domain.PlayerMoved(ctx.Username, pos)), nil
}

func (d *Dispatcher) addMonster(ctx handlers.Context, p api.AddMonsterPayload) (handlers.Result, error) {
	if !domain.IsKnownMonster(p.Name) {
		return handlers.Result{}, reject(i18n.ErrUnknownMonster, p.Name)
	}
	greeting := d.clamp(p.Hello)

	replaced, err := d.world.AddMonster(p.X, p.Y, p.Name, greeting, p.HP)
	if err != nil {
		return handlers.Result{}, err
	}

	msg := d.loc.Text(ctx.Locale, i18n.MsgAddedMonster, p.X, p.Y)
	if replaced {
		msg += "\n" + d.loc.Text(ctx.Locale, i18n.MsgReplacedMonster)
	}
	monster := domain.Monster{Name: p.Name, Greeting: greeting, HP: p.HP, Pos: domain.Position{X: p.X, Y: p.Y}}

	reply := api.Response{
		Type:        api.TypeAddedMonster,
		Message:     msg,
		Coords:      &api.Coords{X: p.X, Y: p.Y},
		MonsterInfo: &api.MonsterInfo{Name: p.Name, Hello: greeting},
		Placement:   &api.Placement{Replaced: replaced},
	}
	return handlers.Reply(reply).WithBroadcast(domain.MonsterAdded(ctx.Username, monster)), nil
}

func (d *Dispatcher) attack(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	weapon, damage := p.Weapon, p.Damage
	if weapon == "" {
		weapon = domain.UnknownWeapon
	} else {
		dmg, ok := domain.WeaponDamage(weapon)
		if !ok {
			return handlers.Result{}, reject(i18n.ErrUnknownWeapon, weapon)
		}
		if damage == 0 {
			damage = dmg
		}
	}

	out, err := d.world.Attack(ctx.Username, p.Name, damage)
	if err != nil {
		return handlers.Result{}, err
	}

	if !out.Found {
		return handlers.Reply(api.Response{
			Type:        api.TypeAttackResult,
			Message:     d.loc.Text(ctx.Locale, i18n.MsgNoMonsterHere, p.Name),
			MonsterInfo: &api.MonsterInfo{Name: p.Name},
			AttackInfo:  &api.AttackInfo{Success: false},
		}), nil
	}

	msg := d.loc.Text(ctx.Locale, i18n.MsgAttacked, p.Name, out.Damage) + "\n"
	if out.Killed {
		msg += d.loc.Text(ctx.Locale, i18n.MsgMonsterDied, p.Name)
	} else {
		msg += d.loc.Text(ctx.Locale, i18n.MsgMonsterHasHP, p.Name, out.RemainingHP)
	}

	reply := api.Response{
		Type:        api.TypeAttackResult,
		Message:     msg,
		MonsterInfo: &api.MonsterInfo{Name: p.Name},
		AttackInfo: &api.AttackInfo{
			Success:     true,
			Damage:      out.Damage,
			RemainingHP: out.RemainingHP,
			Killed:      out.Killed,
		},
	}
	return handlers.Reply(reply).WithBroadcast(domain.MonsterAttacked(ctx.Username, p.Name, weapon, out)), nil
}

func (d *Dispatcher) sayAll(ctx handlers.Context, p api.SayAllPayload) (handlers.Result, error) {
	text := d.clamp(strings.TrimSpace(p.Message))

	reply := api.Response{
		Type:    api.TypeSayAllResult,
		Message: d.loc.Text(ctx.Locale, i18n.MsgMessageSent, text),
	}
	return handlers.Reply(reply).WithBroadcast(domain.Chat(ctx.Username, text)), nil
}

func (d *Dispatcher) timer(ctx handlers.Context) (handlers.Result, error) {
	secs := int(d.world.Uptime().Seconds())

	return handlers.Reply(api.Response{
		Type:       api.TypeTimerResult,
		Message:    d.loc.Text(ctx.Locale, i18n.MsgUptime, secs),
		UptimeInfo: &api.UptimeInfo{Uptime: int64(secs)},
	}), nil
}

func (d *Dispatcher) moveMonsters(ctx handlers.Context, p api.MoveMonstersPayload) (handlers.Result, error) {
	d.world.SetTicking(p.State == "on")

	return handlers.Reply(api.Response{
		Type:    api.TypeMoveMonsters,
		Message: d.loc.Text(ctx.Locale, i18n.MsgMovingMonsters, p.State),
	}), nil
}

func (d *Dispatcher) locale(ctx handlers.Context, p api.LocalePayload) (handlers.Result, error) {
	if err := d.world.SetLocale(ctx.Username, p.Locale); err != nil {
		if errors.Is(err, domain.ErrUnsupportedLocale) {
			return handlers.Result{}, reject(i18n.ErrUnsupportedLocale, p.Locale)
		}
		return handlers.Result{}, err
	}

	// Подтверждение уже на новом языке
	return handlers.Reply(api.Response{
		Type:    api.TypeLocaleResult,
		Message: d.loc.Text(p.Locale, i18n.MsgSetLocale, p.Locale),
	}), nil
}

func (d *Dispatcher) help(ctx handlers.Context, p api.HelpPayload) (handlers.Result, error) {
	topic := strings.TrimSpace(p.Command)
	if topic != "" && !i18n.HasHelp(topic) {
		return handlers.Result{}, reject(i18n.ErrUnknownHelpTopic, topic)
	}

	return handlers.Reply(api.Response{
		Type:    api.TypeHelpResult,
		Message: d.loc.Help(ctx.Locale, topic),
	}), nil
}

// clamp обрезает текст по ширине в клетках терминала (emoji занимают две).
func (d *Dispatcher) clamp(s string) string {
	if runewidth.StringWidth(s) <= d.chatWidth {
		return s
	}
	return runewidth.Truncate(s, d.chatWidth, "…")
}
