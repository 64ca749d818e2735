package i18n

// Ключи сообщений. Ключ - это английский формат, поэтому для en_US
// отдельные строки нужны только там, где ключ не совпадает с текстом.
const (
	MsgWelcome          = "Welcome, %s!"
	MsgUsernameRequired = "Username required"
	MsgUsernameTaken    = "Username taken"

	MsgPosition        = "Moved to (%d, %d)"
	MsgEncounter       = "You met %s: %s"
	MsgAddedMonster    = "Added monster at (%d, %d)"
	MsgReplacedMonster = "Replaced the old monster"
	MsgAttacked        = "Attacked %s, damage %d hp"
	MsgMonsterDied     = "%s died"
	MsgMonsterHasHP    = "%s now has %d hp"
	MsgNoMonsterHere   = "No %s here"
	MsgMessageSent     = "Message \"%s\" sent"
	MsgUptime          = "Server uptime: %d seconds"
	MsgMovingMonsters  = "Moving monsters: %s"
	MsgSetLocale       = "Set up locale: %s"
	MsgAvailable       = "Available commands: %s"
	MsgHelpHint        = "Type 'help <command>' for more information"

	ErrUnknownCommand    = "Unknown command"
	ErrUnknownHelpTopic  = "Unknown command: %s"
	ErrInvalidFormat     = "Invalid command format"
	ErrInvalidState      = "Invalid state: use 'on' or 'off'"
	ErrUnsupportedLocale = "Unsupported locale: %s"
	ErrPlayerNotFound    = "Player not found"
	ErrOutOfBounds       = "Coordinates must be within 0..9"
	ErrInvalidHitpoints  = "Hitpoints must be positive"
	ErrInvalidDamage     = "Damage must be positive"
	ErrUnknownMonster    = "Unknown monster: %s"
	ErrUnknownWeapon     = "Unknown weapon: %s"
	ErrInvalidMove       = "Move one cell at a time: dx and dy in -1..1, not both zero"
	ErrNameRequired      = "Monster name is required"
	ErrEmptyMessage      = "Message is empty"
	ErrInternal          = "Internal server error"

	BcJoined       = "%s joined the game!"
	BcLeft         = "%s left the game!"
	BcMoved        = "%s moved to (%d,%d)"
	BcAdded        = "%s added %s at (%d,%d) saying %s"
	BcAttackKilled = "%s attacked %s with %s, dealing %d damage. %s was killed!"
	BcAttackHurt   = "%s attacked %s with %s, dealing %d damage. %s has %d HP remaining."
	BcChat         = "%s: %s"
	BcMonsterMoved = "Monster %s moved one cell %s"
)

// HelpTopics - команды, для которых есть справка "help_<command>".
// Часть из них клиентские (up, quit, EOF), но справку по ним тоже выдает сервер.
var HelpTopics = []string{
	"attack", "help", "locale", "movemonsters", "right", "timer",
	"addmon", "down", "left", "move", "sayall", "up", "quit", "EOF",
}

func helpKey(topic string) string {
	return "help_" + topic
}
