package server

import (
	"sync"

	"ecosim-server/pkg/api"
)

// Broadcaster занимается только рассылкой снимков подписчикам.
// Подписчики привязаны к конкретной партии.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID клиента -> подписка
	subscribers map[string]subscription
}

type subscription struct {
	gameID string
	ch     chan api.TurnResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]subscription),
	}
}

// Register создает личный канал клиента для обновлений партии.
func (b *Broadcaster) Register(clientID, gameID string) chan api.TurnResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old.ch)
	}

	ch := make(chan api.TurnResponse, 100)
	b.subscribers[clientID] = subscription{gameID: gameID, ch: ch}
	return ch
}

// Unregister удаляет подписчика.
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[clientID]; ok {
		close(sub.ch)
		delete(b.subscribers, clientID)
	}
}

// Broadcast рассылает снимок всем подписчикам партии. Медленный
// подписчик теряет кадр, а не тормозит остальных.
func (b *Broadcaster) Broadcast(gameID string, msg api.TurnResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if sub.gameID != gameID {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
