package http

import (
	"net/http"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/auth"
	"codemcq-service/internal/domain"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// TimerHandler streams the advisory countdown of an attempt over a websocket.
// Reaching zero is reported but does not finalize the attempt.
type TimerHandler struct {
	attempts *app.AttemptService
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewTimerHandler(attempts *app.AttemptService, interval time.Duration) *TimerHandler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TimerHandler{
		attempts: attempts,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

const writeWait = 10 * time.Second

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func timerMessage(state domain.TimerState) outboundMessage[any] {
	switch {
	case state.Completed:
		return outboundMessage[any]{Type: "completed", Payload: state}
	case state.SecondsRemaining == 0:
		return outboundMessage[any]{Type: "expired", Payload: state}
	default:
		return outboundMessage[any]{Type: "tick", Payload: state}
	}
}

func terminal(state domain.TimerState) bool {
	return state.Completed || state.SecondsRemaining == 0
}

// ServeWS checks ownership before upgrading so failures keep their HTTP status.
func (h *TimerHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	attemptID, ok := attemptIDParam(w, r)
	if !ok {
		return
	}
	state, err := h.attempts.TimeRemaining(r.Context(), attemptID, userID)
	if err != nil {
		writeError(w, r, err, attemptID)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()
	// server read/write timeouts were set on the raw connection before the upgrade
	_ = conn.SetReadDeadline(time.Time{})

	send := make(chan outboundMessage[any], 4)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})
	readerDone := make(chan struct{})

	// single writer; gorilla connections support one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			msg := timerMessage(state)
			select {
			case send <- msg:
			case <-closeSignals:
				return
			}
			if terminal(state) {
				return
			}
			select {
			case <-ticker.C:
			case <-closeSignals:
				return
			}
			next, err := h.attempts.TimeRemaining(r.Context(), attemptID, userID)
			if err != nil {
				select {
				case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
				case <-closeSignals:
				}
				return
			}
			state = next
		}
	}()

	// client frames are ignored; reading surfaces disconnects
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-readerDone:
	case <-tickerDone:
	}
	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "timer stopped"),
		time.Now().Add(time.Second))
}
