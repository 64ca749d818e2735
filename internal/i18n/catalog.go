package i18n

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

var (
	tagEnglish = language.AmericanEnglish
	tagRussian = language.MustParse("ru-RU")
)

// localeTags связывает локали протокола (en_US) с тегами BCP 47.
var localeTags = map[string]language.Tag{
	"en_US": tagEnglish,
	"ru_RU": tagRussian,
}

var helpEnglish = map[string]string{
	"attack":       "attack <name> [with <weapon>]: attack the monster in your cell (sword 10, spear 15, axe 20)",
	"help":         "help [command]: list commands or describe one",
	"locale":       "locale <en_US|ru_RU>: switch the language of server messages",
	"movemonsters": "movemonsters <on|off>: let the server move monsters every 30 seconds or freeze them",
	"right":        "right: move one cell to the right",
	"timer":        "timer: show server uptime",
	"addmon":       "addmon <name> coords <x> <y> hello <text> hp <n>: place a monster, replacing any in that cell",
	"down":         "down: move one cell down",
	"left":         "left: move one cell to the left",
	"move":         "move <dx> <dy>: step by one cell, the field wraps around at the edges",
	"sayall":       "sayall <text>: send a message to every player",
	"up":           "up: move one cell up",
	"quit":         "quit: leave the game",
	"EOF":          "Ctrl-D: leave the game",
}

var helpRussian = map[string]string{
	"attack":       "attack <имя> [with <оружие>]: атаковать монстра в своей клетке (sword 10, spear 15, axe 20)",
	"help":         "help [команда]: список команд или описание одной",
	"locale":       "locale <en_US|ru_RU>: сменить язык сообщений сервера",
	"movemonsters": "movemonsters <on|off>: разрешить серверу двигать монстров раз в 30 секунд или заморозить их",
	"right":        "right: шаг вправо",
	"timer":        "timer: время работы сервера",
	"addmon":       "addmon <имя> coords <x> <y> hello <текст> hp <n>: поставить монстра, заменив прежнего в клетке",
	"down":         "down: шаг вниз",
	"left":         "left: шаг влево",
	"move":         "move <dx> <dy>: шаг на одну клетку, поле замкнуто по краям",
	"sayall":       "sayall <текст>: сообщение всем игрокам",
	"up":           "up: шаг вверх",
	"quit":         "quit: выйти из игры",
	"EOF":          "Ctrl-D: выйти из игры",
}

var russian = map[string]string{
	MsgWelcome:          "Добро пожаловать, %s!",
	MsgUsernameRequired: "Требуется имя пользователя",
	MsgUsernameTaken:    "Имя пользователя занято",

	MsgPosition:        "Перемещение в (%d, %d)",
	MsgEncounter:       "Вы встретили %s: %s",
	MsgAddedMonster:    "Монстр добавлен в (%d, %d)",
	MsgReplacedMonster: "Прежний монстр заменён",
	MsgAttacked:        "Атакован %s, урон %d",
	MsgMonsterDied:     "%s погиб",
	MsgNoMonsterHere:   "Здесь нет %s",
	MsgMessageSent:     "Сообщение \"%s\" отправлено",
	MsgMovingMonsters:  "Перемещение монстров: %s",
	MsgSetLocale:       "Установлена локаль: %s",
	MsgAvailable:       "Доступные команды: %s",
	MsgHelpHint:        "Введите 'help <команда>' для подробностей",

	ErrUnknownCommand:    "Неизвестная команда",
	ErrUnknownHelpTopic:  "Неизвестная команда: %s",
	ErrInvalidFormat:     "Неверный формат команды",
	ErrInvalidState:      "Неверное состояние: используйте 'on' или 'off'",
	ErrUnsupportedLocale: "Неподдерживаемая локаль: %s",
	ErrPlayerNotFound:    "Игрок не найден",
	ErrOutOfBounds:       "Координаты должны быть в пределах 0..9",
	ErrInvalidHitpoints:  "Число хитов должно быть положительным",
	ErrInvalidDamage:     "Урон должен быть положительным",
	ErrUnknownMonster:    "Неизвестный монстр: %s",
	ErrUnknownWeapon:     "Неизвестное оружие: %s",
	ErrInvalidMove:       "Ход только на одну клетку: dx и dy в -1..1, не оба нулевые",
	ErrNameRequired:      "Требуется имя монстра",
	ErrEmptyMessage:      "Пустое сообщение",
	ErrInternal:          "Внутренняя ошибка сервера",

	BcJoined:       "%s присоединился к игре!",
	BcLeft:         "%s покинул игру!",
	BcMoved:        "%s переместился в (%d,%d)",
	BcAdded:        "%s добавил %s в (%d,%d) со словами %s",
	BcAttackKilled: "%s атаковал %s оружием %s, нанеся %d урона. %s убит!",
	BcChat:         "%s: %s",
	BcMonsterMoved: "Монстр %s переместился на одну клетку %s",

	"right": "вправо",
	"left":  "влево",
	"up":    "вверх",
	"down":  "вниз",
}

// newCatalog собирает каталог сообщений для всех поддерживаемых локалей.
func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(tagEnglish))

	for topic, text := range helpEnglish {
		if err := b.SetString(tagEnglish, helpKey(topic), text); err != nil {
			return nil, fmt.Errorf("register en help %s: %w", topic, err)
		}
	}
	for topic, text := range helpRussian {
		if err := b.SetString(tagRussian, helpKey(topic), text); err != nil {
			return nil, fmt.Errorf("register ru help %s: %w", topic, err)
		}
	}
	for key, text := range russian {
		if err := b.SetString(tagRussian, key, text); err != nil {
			return nil, fmt.Errorf("register ru %q: %w", key, err)
		}
	}

	// Английский: единственное/множественное для секунд и хитов.
	if err := b.Set(tagEnglish, MsgUptime, plural.Selectf(1, "%d",
		plural.One, "Server uptime: %d second",
		plural.Other, "Server uptime: %d seconds",
	)); err != nil {
		return nil, fmt.Errorf("register en uptime: %w", err)
	}

	// Русский: три формы (1 хит, 2 хита, 5 хитов).
	plurals := []struct {
		key string
		arg int
		one string
		few string
		any string
	}{
		{
			key: MsgUptime, arg: 1,
			one: "Сервер работает %d секунду",
			few: "Сервер работает %d секунды",
			any: "Сервер работает %d секунд",
		},
		{
			key: MsgMonsterHasHP, arg: 2,
			one: "У %s остался %d хит",
			few: "У %s осталось %d хита",
			any: "У %s осталось %d хитов",
		},
		{
			key: BcAttackHurt, arg: 6,
			one: "%[1]s атаковал %[2]s оружием %[3]s, нанеся %[4]d урона. У %[5]s остался %[6]d хит.",
			few: "%[1]s атаковал %[2]s оружием %[3]s, нанеся %[4]d урона. У %[5]s осталось %[6]d хита.",
			any: "%[1]s атаковал %[2]s оружием %[3]s, нанеся %[4]d урона. У %[5]s осталось %[6]d хитов.",
		},
	}
	for _, p := range plurals {
		msg := plural.Selectf(p.arg, "%d",
			plural.One, p.one,
			plural.Few, p.few,
			plural.Other, p.any,
		)
		if err := b.Set(tagRussian, p.key, msg); err != nil {
			return nil, fmt.Errorf("register ru plural %q: %w", p.key, err)
		}
	}

	return b, nil
}
