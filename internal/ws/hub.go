package ws

import (
	"encoding/json"
	"sync"

	"github.com/voyagabagae/backend/internal/goroutine"
	"github.com/voyagabagae/backend/internal/logger"
	"github.com/voyagabagae/backend/internal/models"
)

// Имена событий ленты. Поле "type" сообщения содержит имя события,
// "data" — полезную нагрузку.
const (
	EventAnnouncementCreated = "announcement.created"
)

// Hub управляет всеми WebSocket клиентами ленты объявлений.
// В отличие от персональных уведомлений, лента общая: каждое событие
// рассылается всем подключённым клиентам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Stop останавливает главный цикл.
func (h *Hub) Stop() {
	close(h.done)
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// AnnouncementCreated рассылает всем клиентам событие о новом объявлении.
// Реализует service.AnnouncementNotifier.
func (h *Hub) AnnouncementCreated(a *models.Announcement) {
	h.Broadcast(EventAnnouncementCreated, a)
}

// Broadcast отправляет событие всем подключённым клиентам.
func (h *Hub) Broadcast(event string, data any) {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Error("ws: не удалось сериализовать сообщение")
		}
		return
	}

	select {
	case h.broadcast <- raw:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем асинхронно, не задерживая рассылку.
			c := client
			goroutine.SafeGo(func() {
				c.Close()
			})
		}
	}
}
