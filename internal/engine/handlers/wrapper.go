package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mood-server/pkg/api"
)

// ErrInvalidPayload - поля команды не разбираются в ожидаемую структуру.
var ErrInvalidPayload = errors.New("invalid payload format")

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (timer)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// Run разбирает raw в T, валидирует и вызывает хендлер.
// Поля команды лежат в том же объекте, что и "type", поэтому T
// разбирается из всей строки целиком.
func Run[T any](ctx Context, raw json.RawMessage, handler TypedHandlerFunc[T]) (Result, error) {
	var payload T

	// 1. Распаковка JSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	// 2. Автоматическая валидация, если T реализует api.Validator
	if v, ok := any(payload).(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return Result{}, fmt.Errorf("validation failed: %w", err)
		}
	}

	// 3. Вызов чистой логики
	return handler(ctx, payload)
}

// RunEmpty - для команд без данных. Лишние поля игнорируются.
func RunEmpty(ctx Context, handler EmptyHandlerFunc) (Result, error) {
	return handler(ctx)
}
