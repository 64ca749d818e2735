package domain

import "errors"

var (
	ErrUsernameRequired  = errors.New("username required")
	ErrUsernameTaken     = errors.New("username taken")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrInvalidHitpoints  = errors.New("hitpoints must be positive")
	ErrInvalidDamage     = errors.New("damage must be positive")
	ErrUnsupportedLocale = errors.New("unsupported locale")
)
