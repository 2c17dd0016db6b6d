package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ecosim-server/internal/engine"
	"ecosim-server/pkg/api"
	"ecosim-server/pkg/logger"
	"ecosim-server/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и партией: транслирует снимки
// ходов наблюдателю и принимает команды продвижения.
type Client struct {
	ID   string
	Game *engine.Instance
	Hub  *Broadcaster
	Conn *websocket.Conn
	Send chan api.TurnResponse

	// Закрывается при выходе writePump. Снимает с блокировки всех,
	// кто пишет в Send, когда читать его уже некому.
	done chan struct{}
}

func NewClient(game *engine.Instance, hub *Broadcaster, conn *websocket.Conn) *Client {
	return &Client{
		ID:   "client_" + utils.GenerateID(),
		Game: game,
		Hub:  hub,
		Conn: conn,
		Send: make(chan api.TurnResponse, 256),
		done: make(chan struct{}),
	}
}

// readPump читает команды наблюдателя.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("client_id", c.ID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Подписка на обновления партии
	updates := c.Hub.Register(c.ID, c.Game.ID)
	go func() {
		defer close(c.Send)
		for msg := range updates {
			select {
			case c.Send <- msg:
			case <-c.done:
				return
			}
		}
	}()

	// Первый кадр сразу после подключения
	select {
	case c.Send <- api.TurnResponse{
		GameID: c.Game.ID,
		Stats:  c.Game.Stats(),
		Board:  c.Game.Snapshot(),
	}:
	case <-c.done:
	}

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}

		switch cmd.Action {
		case "turn":
			c.Game.StepTurn()
			c.Hub.Broadcast(c.Game.ID, api.TurnResponse{
				GameID: c.Game.ID,
				Stats:  c.Game.Stats(),
				Board:  c.Game.Snapshot(),
			})
		default:
			logger.Log.WithField("action", cmd.Action).Debug("Unknown ws command")
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
