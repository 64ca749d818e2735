package network

import (
	"mood-server/internal/domain"
	"mood-server/pkg/api"
	"sync"
)

// Outbound - элемент очереди сессии: либо готовый ответ самому игроку,
// либо событие, которое сессия отрендерит на языке получателя.
type Outbound struct {
	Reply *api.Response
	Event *domain.Event
}

func Reply(resp api.Response) Outbound { return Outbound{Reply: &resp} }

func Notify(ev domain.Event) Outbound { return Outbound{Event: &ev} }

type subscriber struct {
	queue chan<- Outbound
	evict func()
}

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Каналы принадлежат сессиям и здесь не закрываются, поэтому отправка
// в уже отписанный канал невозможна.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: username -> очередь сессии
	subscribers map[string]subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]subscriber),
	}
}

// Register подписывает игрока. evict вызывается, если его очередь переполнена.
func (b *Broadcaster) Register(username string, queue chan<- Outbound, evict func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[username] = subscriber{queue: queue, evict: evict}
}

// Unregister удаляет подписчика, если он все еще привязан к этой очереди.
// Сверка по очереди защищает новую сессию с тем же именем от старой.
func (b *Broadcaster) Unregister(username string, queue chan<- Outbound) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subscribers[username]; ok && sub.queue == queue {
		delete(b.subscribers, username)
	}
}

// SendTo отправляет сообщение конкретному игроку (Unicast).
// Возвращает false, если игрока нет или его пришлось выселить.
func (b *Broadcaster) SendTo(username string, msg Outbound) bool {
	b.mu.RLock()
	sub, ok := b.subscribers[username]
	delivered := ok && offer(sub.queue, msg)
	b.mu.RUnlock()

	if ok && !delivered {
		b.drop(username, sub)
	}
	return delivered
}

// Broadcast отправляет всем. Медленный получатель никого не тормозит:
// если его очередь полна, он выселяется.
func (b *Broadcaster) Broadcast(msg Outbound) {
	var stalled map[string]subscriber

	b.mu.RLock()
	for name, sub := range b.subscribers {
		if !offer(sub.queue, msg) {
			if stalled == nil {
				stalled = make(map[string]subscriber)
			}
			stalled[name] = sub
		}
	}
	b.mu.RUnlock()

	// evict трогает World и соединение, поэтому зовется без блокировки хаба
	for name, sub := range stalled {
		b.drop(name, sub)
	}
}

func (b *Broadcaster) drop(username string, sub subscriber) {
	b.Unregister(username, sub.queue)
	if sub.evict != nil {
		sub.evict()
	}
}

// HasSubscriber проверяет, подписан ли игрок
func (b *Broadcaster) HasSubscriber(username string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[username]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func offer(queue chan<- Outbound, msg Outbound) bool {
	select {
	case queue <- msg:
		return true
	default:
		return false
	}
}
