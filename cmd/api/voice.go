package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
	"github.com/RafiqAuto/rafiq-mvp/engine/voice"
	"github.com/RafiqAuto/rafiq-mvp/pkg/i18n"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8 * 1024,
	WriteBufferSize: 8 * 1024,
	// The browser client is served from another origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// clientMessage is what the browser sends over the voice socket.
type clientMessage struct {
	Type  string `json:"type"`
	Frame string `json:"frame,omitempty"`
}

// serverMessage is what the browser receives over the voice socket.
type serverMessage struct {
	Type    string `json:"type"`
	State   string `json:"state,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// wsFrameSource feeds microphone frames from the websocket into a voice
// session. Close is idempotent and closes the Frames channel.
type wsFrameSource struct {
	frames chan []float32
	mu     sync.Mutex
	closed bool
}

func newWSFrameSource() *wsFrameSource {
	return &wsFrameSource{frames: make(chan []float32, 8)}
}

func (s *wsFrameSource) Frames() <-chan []float32 { return s.frames }

func (s *wsFrameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.frames)
	}
	return nil
}

// push drops the frame when the session is gone or the buffer is full.
// Losing audio beats blocking the socket read loop.
func (s *wsFrameSource) push(samples []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.frames <- samples:
	default:
	}
}

func (s *server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.voice == nil {
		writeError(w, http.StatusServiceUnavailable, "voice requires GEMINI_API_KEY")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	s.app.VoiceSessions.Inc()
	defer s.app.VoiceSessions.Dec()
	s.analytics.Track(r.Context(), "voice_session_started", nil)

	var writeMu sync.Mutex
	send := func(msg serverMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = ws.WriteJSON(msg)
	}

	source := newWSFrameSource()
	chatSession := s.session(userID(r))
	lang := language(r)

	controller := voice.New(voice.Config{
		Transport:   s.voice,
		Source:      source,
		UserPrefix:  "(Voice)",
		CloseNotice: i18n.T(lang, "chat.voice_closed"),
		Logger:      s.logger,
		OnTurn: func(turn domain.ChatTurn) {
			chatSession.Append(turn)
			send(serverMessage{Type: "turn", Speaker: string(turn.Speaker), Text: turn.Text})
		},
		OnState: func(st voice.State, err error) {
			msg := serverMessage{Type: "state", State: string(st)}
			if err != nil {
				msg.Error = err.Error()
			}
			send(msg)
		},
	})
	defer controller.Stop()

	if err := controller.Start(r.Context()); err != nil {
		send(serverMessage{Type: "state", State: string(voice.StateError), Error: err.Error()})
		return
	}

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "audio":
			samples, err := voice.DecodeFrame(msg.Frame)
			if err != nil {
				continue
			}
			source.push(samples)
		case "stop":
			controller.Stop()
			return
		}
	}
}
