package network

import (
	"sync"

	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// NoBattle - сессия еще не подписана ни на одну карту.
const NoBattle = -1

type subscriber struct {
	ch     chan api.ServerResponse
	battle int
}

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал и карта, на которую смотрит сессия
	subscribers map[string]*subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]*subscriber),
	}
}

// Register создает личный канал для сессии
func (b *Broadcaster) Register(session string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[session]; ok {
		close(old.ch)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[session] = &subscriber{ch: ch, battle: NoBattle}
	return ch
}

// Subscribe переключает сессию на рассылку карты battleID.
// Returns false for an unknown session.
func (b *Broadcaster) Subscribe(session string, battleID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[session]
	if !ok {
		return false
	}
	sub.battle = battleID
	return true
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[session]; ok {
		close(sub.ch)
		delete(b.subscribers, session)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast)
func (b *Broadcaster) SendTo(session string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sub, ok := b.subscribers[session]
	if !ok {
		return false
	}
	select {
	case sub.ch <- msg:
		return true
	default:
		// канал переполнен, медленный клиент пропускает кадр
		return false
	}
}

// Publish отправляет всем, кто смотрит на карту battleID
func (b *Broadcaster) Publish(battleID int, msg api.ServerResponse) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for _, sub := range b.subscribers {
		if sub.battle != battleID {
			continue
		}
		select {
		case sub.ch <- msg:
			sent++
		default:
		}
	}
	return sent
}

// Broadcast отправляет всем
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключена ли сессия
func (b *Broadcaster) HasSubscriber(session string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[session]
	return ok
}

// Watchers - сколько сессий смотрят на карту. Инстанс не строит снимки,
// если их нет.
func (b *Broadcaster) Watchers(battleID int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, sub := range b.subscribers {
		if sub.battle == battleID {
			n++
		}
	}
	return n
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
