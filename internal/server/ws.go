package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"arena/internal/net"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-host clients and local dev
	},
}

// Connection wraps one websocket client. Writes go through a buffered channel
// so a slow client can never stall the tick loop.
type Connection struct {
	conn *websocket.Conn
	send chan []byte
	host *RoomHost
	slot int
}

func NewConnection(conn *websocket.Conn, host *RoomHost) *Connection {
	return &Connection{
		conn: conn,
		send: make(chan []byte, 256),
		host: host,
	}
}

func (c *Connection) SendMessage(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full for slot %d", c.slot)
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.host.Detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var baseMsg map[string]interface{}
		if err := json.Unmarshal(message, &baseMsg); err != nil {
			continue
		}
		msgType, ok := baseMsg["type"].(string)
		if !ok {
			continue
		}

		switch msgType {
		case "hello":
			var hello net.HelloMessage
			if err := json.Unmarshal(message, &hello); err == nil {
				c.host.Attach(c, hello.Name, hello.Token)
			}

		case "input":
			var input net.InputMessage
			if err := json.Unmarshal(message, &input); err == nil && c.slot > 0 {
				c.host.Room.SetInput(c.slot, input.Angle, input.Fire, input.Melee)
			}

		case "buyBox":
			if c.slot > 0 {
				c.host.Room.BuyBox(c.slot)
			}

		case "useVending":
			if c.slot > 0 {
				c.host.Room.UseVending(c.slot)
			}

		case "restart":
			if c.slot > 0 {
				c.host.Room.VoteRestart(c.slot)
			}
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleWebSocket upgrades /ws?room=CODE connections and starts the pumps.
func HandleWebSocket(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("room")
		host, ok := reg.Lookup(code)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		c := NewConnection(conn, host)
		go c.writePump()
		go c.readPump()

		log.Printf("Client connected to room %s", code)
	}
}
