package handlers

import (
	"context"
	"mood-server/internal/domain"
	"mood-server/pkg/api"
)

// Context передает хендлеру того, кто выполняет команду, и его язык.
// Мир хендлер получает через замыкание диспетчера.
type Context struct {
	context.Context

	Username string
	Locale   string
}

// Result - итог выполнения команды.
// Хендлер ничего не пишет в сеть сам, он возвращает данные.
type Result struct {
	Reply      api.Response   // прямой ответ инициатору
	Broadcasts []domain.Event // что разослать остальным
}

// Reply - результат без рассылки.
func Reply(resp api.Response) Result {
	return Result{Reply: resp}
}

// WithBroadcast добавляет события к результату.
func (r Result) WithBroadcast(events ...domain.Event) Result {
	r.Broadcasts = append(r.Broadcasts, events...)
	return r
}
