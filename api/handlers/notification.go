package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHub tracks connected users (userId -> *websocket.Conn)
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

var hub = &NotificationHub{
	clients: make(map[string]*websocket.Conn),
}

// HandleNotificationsWebSocket registers a user connection for invitation
// event pushes. Delivery is best-effort; a disconnected user simply misses
// the push and catches up through the views.
func HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	hub.mutex.Lock()
	hub.clients[userID] = conn
	hub.mutex.Unlock()
	zap.S().Debugw("user connected to /ws/notifications", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		hub.mutex.Lock()
		delete(hub.clients, userID)
		hub.mutex.Unlock()
		zap.S().Debugw("user disconnected from /ws/notifications", "userId", userID)
		return nil
	})

	// drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.mutex.Lock()
				delete(hub.clients, userID)
				hub.mutex.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// NotifyUser pushes an event to the given user when they are connected
func NotifyUser(userID, event string, data map[string]interface{}) {
	if userID == "" {
		return
	}

	hub.mutex.Lock()
	conn, ok := hub.clients[userID]
	hub.mutex.Unlock()
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"event": event,
		"data":  data,
	}
	if err := conn.WriteJSON(payload); err != nil {
		zap.S().Warnw("failed to push notification",
			"userId", userID,
			"event", event,
			"error", err)
	}
}
