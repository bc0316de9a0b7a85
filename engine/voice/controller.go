// Package voice drives a bidirectional audio session against the live voice
// endpoint: microphone frames out, transcript events in. The controller is a
// small state machine whose one hard obligation is releasing the audio
// resources exactly once on every exit path.
package voice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// State of the session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateError      State = "error"
)

var ErrSessionActive = errors.New("voice: session already active")

// ServerEvent is one inbound event from the live endpoint.
type ServerEvent struct {
	SetupComplete    bool
	InputTranscript  string
	OutputTranscript string
	TurnComplete     bool
}

// Conn is an open live session.
type Conn interface {
	// SendAudio ships one base64 PCM frame tagged with its MIME type.
	SendAudio(ctx context.Context, data, mimeType string) error
	// Recv blocks for the next server event. io.EOF means a clean remote close.
	Recv() (ServerEvent, error)
	Close() error
}

// Transport dials the live endpoint.
type Transport interface {
	Connect(ctx context.Context) (Conn, error)
}

// FrameSource supplies microphone frames as float32 samples. Closing it must
// close the Frames channel.
type FrameSource interface {
	Frames() <-chan []float32
	Close() error
}

// Config wires a Controller.
type Config struct {
	Transport Transport
	Source    FrameSource
	// OnTurn receives flushed chat turns in order.
	OnTurn func(domain.ChatTurn)
	// OnState observes transitions; err is non-nil only for StateError.
	OnState func(s State, err error)
	// UserPrefix is prepended to flushed user turns (e.g. a mic marker).
	UserPrefix string
	// CloseNotice, when set, is appended as an assistant turn after a clean
	// remote close so the transcript records that the voice channel ended.
	CloseNotice string
	Logger      *slog.Logger
}

// Controller owns one voice session at a time.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	mu    sync.Mutex
	state State
	sess  *session
}

// session is the owned-resource bundle for one connection. close is
// idempotent; every exit path funnels through it.
type session struct {
	conn   Conn
	source FrameSource
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (s *session) close() {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.Close()
		_ = s.source.Close()
		close(s.done)
	})
}

// New creates an idle Controller.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{cfg: cfg, logger: logger, state: StateIdle}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start opens the session and begins pumping audio. It returns once the
// connection is established; pumping continues until Stop, remote close, or
// failure. A second Start while a session is live returns ErrSessionActive.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.state = StateConnecting
	c.mu.Unlock()
	c.notify(StateConnecting, nil)

	conn, err := c.cfg.Transport.Connect(ctx)
	if err != nil {
		_ = c.cfg.Source.Close()
		c.toError(err)
		return err
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &session{conn: conn, source: c.cfg.Source, cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Stopped while dialing; release everything we just acquired.
		c.mu.Unlock()
		sess.close()
		return nil
	}
	c.sess = sess
	c.state = StateConnected
	c.mu.Unlock()
	c.notify(StateConnected, nil)

	go c.uplink(sessCtx, sess)
	go c.downlink(sess)
	return nil
}

// Stop tears the session down. Safe to call in any state and any number of
// times; the second and later calls are no-ops.
func (c *Controller) Stop() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	wasIdle := c.state == StateIdle
	c.state = StateIdle
	c.mu.Unlock()

	if sess != nil {
		sess.close()
	}
	if !wasIdle {
		c.notify(StateIdle, nil)
	}
}

// uplink encodes microphone frames and ships them until the source drains or
// the session ends.
func (c *Controller) uplink(ctx context.Context, sess *session) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-sess.source.Frames():
			if !ok {
				return
			}
			if err := sess.conn.SendAudio(ctx, EncodeFrame(frame), MIMETypePCM); err != nil {
				if ctx.Err() == nil {
					c.fail(sess, err)
				}
				return
			}
		}
	}
}

// downlink drains server events, accumulating transcripts and flushing them
// as chat turns whenever the endpoint signals a completed exchange.
func (c *Controller) downlink(sess *session) {
	var inputBuf, outputBuf strings.Builder
	for {
		ev, err := sess.conn.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.remoteClose(sess)
			} else {
				c.fail(sess, err)
			}
			return
		}
		inputBuf.WriteString(ev.InputTranscript)
		outputBuf.WriteString(ev.OutputTranscript)
		if ev.TurnComplete {
			c.flush(&inputBuf, &outputBuf)
		}
	}
}

// flush emits up to two turns, user first, and resets the accumulators.
func (c *Controller) flush(inputBuf, outputBuf *strings.Builder) {
	input := strings.TrimSpace(inputBuf.String())
	output := strings.TrimSpace(outputBuf.String())
	inputBuf.Reset()
	outputBuf.Reset()
	if c.cfg.OnTurn == nil {
		return
	}
	if input != "" {
		text := input
		if c.cfg.UserPrefix != "" {
			text = c.cfg.UserPrefix + " " + input
		}
		c.cfg.OnTurn(domain.ChatTurn{Speaker: domain.SpeakerUser, Text: text})
	}
	if output != "" {
		c.cfg.OnTurn(domain.ChatTurn{Speaker: domain.SpeakerAssistant, Text: output})
	}
}

// fail handles transport errors: teardown once, then back to idle.
func (c *Controller) fail(sess *session, err error) {
	c.mu.Lock()
	if c.sess != sess {
		// Already stopped; the session owns no state to roll back.
		c.mu.Unlock()
		sess.close()
		return
	}
	c.sess = nil
	c.mu.Unlock()

	c.logger.Error("voice session failed", "err", err)
	sess.close()
	c.toError(err)
}

// remoteClose handles a clean remote close: same teardown, no error surfaced,
// plus a close notice in the transcript.
func (c *Controller) remoteClose(sess *session) {
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		sess.close()
		return
	}
	c.sess = nil
	c.state = StateIdle
	c.mu.Unlock()

	sess.close()
	if c.cfg.OnTurn != nil && c.cfg.CloseNotice != "" {
		c.cfg.OnTurn(domain.ChatTurn{Speaker: domain.SpeakerAssistant, Text: c.cfg.CloseNotice})
	}
	c.notify(StateIdle, nil)
}

// toError surfaces an error state, then settles back to idle.
func (c *Controller) toError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.mu.Unlock()
	c.notify(StateError, err)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

func (c *Controller) notify(s State, err error) {
	if c.cfg.OnState != nil {
		c.cfg.OnState(s, err)
	}
}
