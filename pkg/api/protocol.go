package api

import (
	"encoding/json"
	"fmt"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// Handshake - первая строка от клиента.
type Handshake struct {
	Username string `json:"username"`
}

// Command - команда клиента. Тип читается сразу, остальные поля лежат
// в том же объекте и разбираются типизированным payload-ом по Type.
type Command struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// ParseCommand разбирает одну строку протокола.
func ParseCommand(data []byte) (Command, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	return Command{Type: head.Type, Raw: json.RawMessage(data)}, nil
}

// MovePayload - шаг игрока.
type MovePayload struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// AddMonsterPayload - установка монстра.
type AddMonsterPayload struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Name  string `json:"name"`
	Hello string `json:"hello"`
	HP    int    `json:"hp"`
}

// AttackPayload - атака монстра в своей клетке.
// Damage можно не передавать, если оружие есть в каталоге.
type AttackPayload struct {
	Name   string `json:"name"`
	Weapon string `json:"weapon,omitempty"`
	Damage int    `json:"damage,omitempty"`
}

type SayAllPayload struct {
	Message string `json:"message"`
}

type MoveMonstersPayload struct {
	State string `json:"state"`
}

type LocalePayload struct {
	Locale string `json:"locale"`
}

type HelpPayload struct {
	Command string `json:"command,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТУ ---

// Типы ответов.
const (
	TypeWelcome      = "welcome"
	TypePosition     = "position"
	TypeEncounter    = "encounter"
	TypeAddedMonster = "added_monster"
	TypeAttackResult = "attack_result"
	TypeSayAllResult = "sayall_result"
	TypeTimerResult  = "timer_result"
	TypeMoveMonsters = "movemonsters_result"
	TypeLocaleResult = "locale_result"
	TypeHelpResult   = "help_result"
	TypeBroadcast    = "broadcast"
	TypeError        = "error"
)

// Response - единственная форма серверного сообщения.
// Type и локализованный Message есть всегда; структурные поля
// добавляются встроенными блоками и опускаются, если блок nil.
type Response struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`

	*Coords
	*MonsterInfo
	*Placement
	*AttackInfo
	*UptimeInfo
}

type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MonsterInfo struct {
	Name  string `json:"name"`
	Hello string `json:"hello,omitempty"`
}

type Placement struct {
	Replaced bool `json:"replaced"`
}

type AttackInfo struct {
	Success     bool `json:"success"`
	Damage      int  `json:"damage"`
	RemainingHP int  `json:"remaining_hp"`
	Killed      bool `json:"killed"`
}

type UptimeInfo struct {
	Uptime int64 `json:"uptime"`
}

// Error собирает ответ об ошибке.
func Error(message string) Response {
	return Response{Type: TypeError, Message: message}
}
