// FILE: internal/websocket/session_client.go
package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/session"

	"github.com/gofiber/websocket/v2"
)

// sessionEnvelope is the wire format on the session socket, both directions.
// Inbound types: track_published, track_unpublished, frame, turn, end.
// Outbound type: say.
type sessionEnvelope struct {
	Type string `json:"type"`
	Kind string `json:"kind,omitempty"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"` // base64 media payload for "frame"
}

// SessionClient is the live transport for one interview session. It feeds
// inbound envelopes into the state machine and narrates outbound speech as
// "say" envelopes. It is the session.Narrator for its machine.
type SessionClient struct {
	conn *websocket.Conn
	log  logger.ILogger

	// Fiber websocket connections do not allow concurrent writers.
	writeCh chan []byte
	done    chan struct{}
}

func NewSessionClient(conn *websocket.Conn, log logger.ILogger) *SessionClient {
	return &SessionClient{
		conn:    conn,
		log:     log,
		writeCh: make(chan []byte, 64),
		done:    make(chan struct{}),
	}
}

// Say implements session.Narrator.
func (c *SessionClient) Say(ctx context.Context, text string) error {
	data, err := json.Marshal(sessionEnvelope{Type: "say", Text: text})
	if err != nil {
		return err
	}
	select {
	case c.writeCh <- data:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives both pumps until the connection drops or the client sends "end".
// It blocks in the handler goroutine, mirroring the notification client.
func (c *SessionClient) Run(ctx context.Context, machine *session.Machine) {
	go c.writePump()
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("SessionClient", "connection closed unexpectedly", map[string]interface{}{
					"session_id": machine.Id, "error": err.Error(),
				})
			}
			return
		}

		var env sessionEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn("SessionClient", "unreadable envelope dropped", map[string]interface{}{
				"session_id": machine.Id, "error": err.Error(),
			})
			continue
		}

		switch env.Type {
		case "track_published":
			machine.TrackPublished(ctx, session.SourceKind(env.Kind))
		case "track_unpublished":
			machine.TrackUnpublished(session.SourceKind(env.Kind))
		case "frame":
			payload, err := base64.StdEncoding.DecodeString(env.Data)
			if err != nil {
				c.log.Warn("SessionClient", "frame with invalid base64 dropped", map[string]interface{}{
					"session_id": machine.Id, "kind": env.Kind,
				})
				continue
			}
			machine.OfferFrame(&session.MediaFrame{
				Kind:       session.SourceKind(env.Kind),
				Data:       payload,
				CapturedAt: time.Now(),
			})
		case "turn":
			// Replies can take several seconds against the model; handle the
			// turn off the read loop so frames keep landing in the buffer.
			go func(text string) {
				if _, err := machine.ParticipantTurn(ctx, text); err != nil {
					c.log.Warn("SessionClient", "turn rejected", map[string]interface{}{
						"session_id": machine.Id, "error": err.Error(),
					})
				}
			}(env.Text)
		case "end":
			return
		default:
			c.log.Warn("SessionClient", "unknown envelope type", map[string]interface{}{
				"session_id": machine.Id, "type": env.Type,
			})
		}
	}
}

func (c *SessionClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.writeCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
