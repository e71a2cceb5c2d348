package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// SubmissionEvent is broadcast to every connected admin dashboard each time
// a quiz submission is scored.
type SubmissionEvent struct {
	QuizID    uuid.UUID `json:"quiz_id"`
	QuizTitle string    `json:"quiz_title"`
	UserName  string    `json:"user_name"`
	City      string    `json:"city"`
	Standard  string    `json:"standard"`
	Score     int       `json:"score"`
	IsPassed  bool      `json:"is_passed"`
	TimeTaken int       `json:"time_taken"`
}

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan SubmissionEvent, 64)

// PublishSubmission hands an event to the hub without blocking the request
// path; if the buffer is full the event is dropped (the dashboard recovers
// on its next recompute).
func PublishSubmission(event SubmissionEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Println("Submission feed buffer full, dropping event")
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Dashboard client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Dashboard client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var stale []uuid.UUID
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to client %s: %v", userID, err)
					conn.Close()
					stale = append(stale, userID)
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
