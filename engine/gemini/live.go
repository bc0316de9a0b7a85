package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RafiqAuto/rafiq-mvp/engine/voice"
)

// liveEndpoint is the bidirectional streaming endpoint for native-audio
// models. Messages are JSON over a single websocket.
const liveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// LiveTransport dials the live audio endpoint. It implements voice.Transport.
type LiveTransport struct {
	apiKey string
	model  string
	logger *slog.Logger
}

// NewLiveTransport builds a transport for the given model. An empty model
// selects DefaultLiveModel.
func NewLiveTransport(apiKey, model string, logger *slog.Logger) *LiveTransport {
	if model == "" {
		model = DefaultLiveModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveTransport{apiKey: apiKey, model: model, logger: logger}
}

// Outbound message shapes. Only the fields we send are modelled.

type liveSetup struct {
	Setup struct {
		Model            string `json:"model"`
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
		} `json:"generationConfig"`
		InputAudioTranscription  struct{} `json:"inputAudioTranscription"`
		OutputAudioTranscription struct{} `json:"outputAudioTranscription"`
	} `json:"setup"`
}

type liveAudioChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type liveRealtimeInput struct {
	RealtimeInput struct {
		MediaChunks []liveAudioChunk `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

// Inbound message shape, again trimmed to what the session consumes.

type liveServerMessage struct {
	SetupComplete *struct{} `json:"setupComplete"`
	ServerContent *struct {
		InputTranscription *struct {
			Text string `json:"text"`
		} `json:"inputTranscription"`
		OutputTranscription *struct {
			Text string `json:"text"`
		} `json:"outputTranscription"`
		TurnComplete bool `json:"turnComplete"`
	} `json:"serverContent"`
}

// Connect opens the websocket, sends the setup message, and waits for the
// setupComplete ack before handing the connection over.
func (t *LiveTransport) Connect(ctx context.Context) (voice.Conn, error) {
	u, err := url.Parse(liveEndpoint)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse live endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", t.apiKey)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: dial live endpoint: %w", err)
	}

	var setup liveSetup
	setup.Setup.Model = "models/" + t.model
	setup.Setup.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	if err := ws.WriteJSON(setup); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("gemini: send live setup: %w", err)
	}

	conn := &liveConn{ws: ws, logger: t.logger}
	ev, err := conn.Recv()
	if err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("gemini: await setup ack: %w", err)
	}
	if !ev.SetupComplete {
		_ = ws.Close()
		return nil, fmt.Errorf("gemini: unexpected first live message")
	}

	t.logger.Info("live session established", "model", t.model)
	return conn, nil
}

// liveConn adapts one websocket to the voice.Conn contract.
type liveConn struct {
	ws     *websocket.Conn
	logger *slog.Logger
}

func (c *liveConn) SendAudio(ctx context.Context, data, mimeType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var msg liveRealtimeInput
	msg.RealtimeInput.MediaChunks = []liveAudioChunk{{MIMEType: mimeType, Data: data}}
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("gemini: send audio chunk: %w", err)
	}
	return nil
}

func (c *liveConn) Recv() (voice.ServerEvent, error) {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return voice.ServerEvent{}, io.EOF
			}
			return voice.ServerEvent{}, fmt.Errorf("gemini: read live message: %w", err)
		}

		var msg liveServerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn("skipping malformed live message", "err", err)
			continue
		}

		var ev voice.ServerEvent
		if msg.SetupComplete != nil {
			ev.SetupComplete = true
		}
		if sc := msg.ServerContent; sc != nil {
			if sc.InputTranscription != nil {
				ev.InputTranscript = sc.InputTranscription.Text
			}
			if sc.OutputTranscription != nil {
				ev.OutputTranscript = sc.OutputTranscription.Text
			}
			ev.TurnComplete = sc.TurnComplete
		}
		return ev, nil
	}
}

func (c *liveConn) Close() error {
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.ws.Close()
}
