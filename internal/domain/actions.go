package domain

import "strings"

// CommandType - закрытый набор команд протокола.
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandMove
	CommandAddMonster
	CommandAttack
	CommandSayAll
	CommandTimer
	CommandMoveMonsters
	CommandLocale
	CommandHelp
)

// Маппинг для конвертации JSON -> Domain
var commandStringToType = map[string]CommandType{
	"move":         CommandMove,
	"addmon":       CommandAddMonster,
	"attack":       CommandAttack,
	"sayall":       CommandSayAll,
	"timer":        CommandTimer,
	"movemonsters": CommandMoveMonsters,
	"locale":       CommandLocale,
	"help":         CommandHelp,
}

// Маппинг для логов Domain -> String
var commandTypeToString = map[CommandType]string{
	CommandMove:         "move",
	CommandAddMonster:   "addmon",
	CommandAttack:       "attack",
	CommandSayAll:       "sayall",
	CommandTimer:        "timer",
	CommandMoveMonsters: "movemonsters",
	CommandLocale:       "locale",
	CommandHelp:         "help",
}

// ParseCommand конвертирует поле "type" в CommandType (без учета регистра).
func ParseCommand(s string) CommandType {
	if val, ok := commandStringToType[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return CommandUnknown
}

func (c CommandType) String() string {
	if val, ok := commandTypeToString[c]; ok {
		return val
	}
	return "unknown"
}
