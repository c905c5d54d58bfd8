package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/utils"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и BattleService
type Client struct {
	Battles *engine.BattleService
	Conn    *websocket.Conn
	Send    chan api.ServerResponse
	Session string
}

// NewClient registers a fresh session in the hub; Send is the session channel
// and is closed by Unregister.
func NewClient(battles *engine.BattleService, conn *websocket.Conn) *Client {
	session := utils.GenerateID()
	return &Client{
		Battles: battles,
		Conn:    conn,
		Send:    battles.Hub.Register(session),
		Session: session,
	}
}

func (c *Client) log() *logrus.Entry {
	return logger.Log.WithField("session", c.Session)
}

// readPump читает команды от клиента. Ответ на команду уходит через тот же
// канал сессии, что и рассылки карты.
func (c *Client) readPump() {
	defer func() {
		c.Battles.Hub.Unregister(c.Session)
		if err := c.Conn.Close(); err != nil {
			c.log().WithError(err).Warn("failed to close websocket connection")
		}
		c.log().Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log().WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log().WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log().Info("Client connected")

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log().WithError(err).Error("WS read error")
			}
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		resp := c.Battles.ProcessCommand(ctx, c.Session, cmd)
		cancel()

		if !c.Battles.Hub.SendTo(c.Session, resp) {
			c.log().WithField("action", cmd.Action).Warn("reply dropped, send buffer full")
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log().WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log().WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log().WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log().WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log().WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log().WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
