package domain

import "strings"

// EventType - вид события для рассылки.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventPlayerJoined
	EventPlayerLeft
	EventPlayerMoved
	EventMonsterAdded
	EventMonsterAttacked
	EventChat
	EventMonsterMoved
	EventEncounter
)

var eventStringToType = map[string]EventType{
	"PLAYER_JOINED":    EventPlayerJoined,
	"PLAYER_LEFT":      EventPlayerLeft,
	"PLAYER_MOVED":     EventPlayerMoved,
	"MONSTER_ADDED":    EventMonsterAdded,
	"MONSTER_ATTACKED": EventMonsterAttacked,
	"CHAT":             EventChat,
	"MONSTER_MOVED":    EventMonsterMoved,
	"ENCOUNTER":        EventEncounter,
}

var eventTypeToString = map[EventType]string{
	EventPlayerJoined:    "PLAYER_JOINED",
	EventPlayerLeft:      "PLAYER_LEFT",
	EventPlayerMoved:     "PLAYER_MOVED",
	EventMonsterAdded:    "MONSTER_ADDED",
	EventMonsterAttacked: "MONSTER_ATTACKED",
	EventChat:            "CHAT",
	EventMonsterMoved:    "MONSTER_MOVED",
	EventEncounter:       "ENCOUNTER",
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event - структурированное событие. Текст собирается только у получателя,
// на его языке; английские строки никогда не разбираются обратно.
type Event struct {
	Type EventType

	Actor     string // игрок-инициатор
	Monster   string
	Greeting  string
	Weapon    string
	Text      string // реплика sayall
	Pos       Position
	Direction Direction

	Damage      int
	RemainingHP int
	Killed      bool
}

func PlayerJoined(username string) Event {
	return Event{Type: EventPlayerJoined, Actor: username}
}

func PlayerLeft(username string) Event {
	return Event{Type: EventPlayerLeft, Actor: username}
}

func PlayerMoved(username string, pos Position) Event {
	return Event{Type: EventPlayerMoved, Actor: username, Pos: pos}
}

func MonsterAdded(username string, m Monster) Event {
	return Event{Type: EventMonsterAdded, Actor: username, Monster: m.Name, Greeting: m.Greeting, Pos: m.Pos}
}

func MonsterAttacked(username, monster, weapon string, out AttackOutcome) Event {
	return Event{
		Type:        EventMonsterAttacked,
		Actor:       username,
		Monster:     monster,
		Weapon:      weapon,
		Damage:      out.Damage,
		RemainingHP: out.RemainingHP,
		Killed:      out.Killed,
	}
}

func Chat(username, text string) Event {
	return Event{Type: EventChat, Actor: username, Text: text}
}

func MonsterMoved(mv MoveEvent) Event {
	return Event{Type: EventMonsterMoved, Monster: mv.Monster.Name, Pos: mv.To, Direction: mv.Direction}
}

// Encounter адресуется одному игроку, а не всем.
func Encounter(m Monster) Event {
	return Event{Type: EventEncounter, Monster: m.Name, Greeting: m.Greeting, Pos: m.Pos}
}
