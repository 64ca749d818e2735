package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Ошибки проверки формы payload-а. Проверки по каталогам (имена монстров,
// оружие, языки) живут в движке.
var (
	ErrZeroVector     = errors.New("movement vector cannot be zero")
	ErrStepTooLarge   = errors.New("movement step too large")
	ErrNameRequired   = errors.New("name is required")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrInvalidState   = errors.New("state must be on or off")
	ErrNegativeDamage = errors.New("damage cannot be negative")
)

func (p MovePayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return ErrZeroVector
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return ErrStepTooLarge
	}
	return nil
}

func (p AddMonsterPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.Damage < 0 {
		return ErrNegativeDamage
	}
	return nil
}

func (p SayAllPayload) Validate() error {
	if strings.TrimSpace(p.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

func (p MoveMonstersPayload) Validate() error {
	if p.State != "on" && p.State != "off" {
		return ErrInvalidState
	}
	return nil
}
