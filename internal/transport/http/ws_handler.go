package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

// WSHandler drives a quiz session over a websocket: the query string is the
// session setup, inbound messages are the player's commands and outbound
// messages are the engine's render events.
type WSHandler struct {
	service  *game.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *game.Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type lifelinePayload struct {
	Kind string `json:"kind"`
}

type sessionPayload struct {
	SessionID string      `json:"sessionId"`
	Mode      domain.Mode `json:"mode"`
	Budget    int         `json:"budget"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session command loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	cfg := game.Config{
		Mode:               domain.Mode(r.URL.Query().Get("mode")),
		PlayerName:         r.URL.Query().Get("name"),
		Category:           r.URL.Query().Get("category"),
		Difficulty:         domain.Difficulty(r.URL.Query().Get("difficulty")),
		OpponentDifficulty: domain.Difficulty(r.URL.Query().Get("aiDifficulty")),
	}
	if cfg.Mode == "" {
		http.Error(w, "missing mode", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess, err := h.service.StartSession(r.Context(), cfg)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var pumps sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	events, cancel := sess.Subscribe()
	pumps.Add(1)
	go pumpEvents(events, send, closeSignals, &pumps)

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{
		SessionID: sess.ID(),
		Mode:      cfg.Mode,
		Budget:    sess.Config().Budget(),
	}}
	sess.Start()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := h.service.SubmitAnswer(sess.ID(), payload.Option); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "lifeline":
			var payload lifelinePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid lifeline payload"}}
				continue
			}
			if err := h.service.UseLifeline(sess.ID(), game.Lifeline(payload.Kind)); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "pause":
			if err := h.service.Pause(sess.ID()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "resume":
			if err := h.service.Resume(sess.ID()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "stop":
			if _, err := h.service.Stop(r.Context(), sess.ID()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "restart":
			next, err := h.service.Restart(r.Context(), sess.ID())
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			cancel()
			sess = next
			events, cancel = sess.Subscribe()
			pumps.Add(1)
			go pumpEvents(events, send, closeSignals, &pumps)
			send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{
				SessionID: sess.ID(),
				Mode:      sess.Config().Mode,
				Budget:    sess.Config().Budget(),
			}}
			sess.Start()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	// Ensure all timers die with the connection; a second Stop after an
	// explicit one just reports the session gone.
	if _, err := h.service.Stop(r.Context(), sess.ID()); err != nil && err != domain.ErrSessionNotFound {
		log.Printf("stop on disconnect: %v", err)
	}
	cancel()
	close(closeSignals)
	pumps.Wait()
	close(send)
	<-writerDone
}

func pumpEvents(events <-chan game.Event, send chan<- outboundMessage[any], closeSignals <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev.Payload}:
			case <-closeSignals:
				return
			}
		case <-closeSignals:
			return
		}
	}
}
