package voice

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	sent   []string
	events chan ServerEvent
	closed atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan ServerEvent, 16)}
}

func (f *fakeConn) SendAudio(_ context.Context, data, mimeType string) error {
	if mimeType != MIMETypePCM {
		return errors.New("unexpected mime type " + mimeType)
	}
	f.mu.Lock()
	f.sent = append(f.sent, data)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Recv() (ServerEvent, error) {
	ev, ok := <-f.events
	if !ok {
		return ServerEvent{}, io.EOF
	}
	if ev.SetupComplete && ev.InputTranscript == "boom" {
		return ServerEvent{}, errors.New("boom")
	}
	return ev, nil
}

func (f *fakeConn) Close() error {
	f.closed.Add(1)
	return nil
}

func (f *fakeConn) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeTransport struct {
	conn *fakeConn
	err  error
}

func (t *fakeTransport) Connect(context.Context) (Conn, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.conn, nil
}

type fakeSource struct {
	frames chan []float32
	closed atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{frames: make(chan []float32, 8)}
}

func (s *fakeSource) Frames() <-chan []float32 { return s.frames }

func (s *fakeSource) Close() error {
	if s.closed.Add(1) == 1 {
		close(s.frames)
	}
	return nil
}

type turnRecorder struct {
	mu    sync.Mutex
	turns []domain.ChatTurn
}

func (r *turnRecorder) record(t domain.ChatTurn) {
	r.mu.Lock()
	r.turns = append(r.turns, t)
	r.mu.Unlock()
}

func (r *turnRecorder) snapshot() []domain.ChatTurn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChatTurn(nil), r.turns...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartStopLifecycle(t *testing.T) {
	conn := newFakeConn()
	source := newFakeSource()
	var states []State
	var mu sync.Mutex
	c := New(Config{
		Transport: &fakeTransport{conn: conn},
		Source:    source,
		OnState: func(s State, _ error) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		},
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := c.State(); got != StateConnected {
		t.Fatalf("state = %v, want %v", got, StateConnected)
	}

	c.Stop()
	if got := c.State(); got != StateIdle {
		t.Fatalf("state after Stop = %v, want %v", got, StateIdle)
	}
	if conn.closed.Load() != 1 {
		t.Errorf("conn closed %d times, want 1", conn.closed.Load())
	}
	if source.closed.Load() != 1 {
		t.Errorf("source closed %d times, want 1", source.closed.Load())
	}

	mu.Lock()
	defer mu.Unlock()
	want := []State{StateConnecting, StateConnected, StateIdle}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}

func TestStopTwiceIsNoop(t *testing.T) {
	conn := newFakeConn()
	source := newFakeSource()
	c := New(Config{Transport: &fakeTransport{conn: conn}, Source: source})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Stop()
	c.Stop()

	if conn.closed.Load() != 1 {
		t.Errorf("conn closed %d times, want exactly 1", conn.closed.Load())
	}
	if source.closed.Load() != 1 {
		t.Errorf("source closed %d times, want exactly 1", source.closed.Load())
	}
}

func TestStopWithoutStart(t *testing.T) {
	c := New(Config{Transport: &fakeTransport{conn: newFakeConn()}, Source: newFakeSource()})
	c.Stop()
	c.Stop()
	if got := c.State(); got != StateIdle {
		t.Fatalf("state = %v, want %v", got, StateIdle)
	}
}

func TestSecondStartRejected(t *testing.T) {
	c := New(Config{Transport: &fakeTransport{conn: newFakeConn()}, Source: newFakeSource()})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	if err := c.Start(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second Start err = %v, want ErrSessionActive", err)
	}
}

func TestConnectFailureReleasesSource(t *testing.T) {
	source := newFakeSource()
	var sawError atomic.Bool
	c := New(Config{
		Transport: &fakeTransport{err: errors.New("dial refused")},
		Source:    source,
		OnState: func(s State, err error) {
			if s == StateError && err != nil {
				sawError.Store(true)
			}
		},
	})

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}
	if source.closed.Load() != 1 {
		t.Errorf("source closed %d times, want 1", source.closed.Load())
	}
	if !sawError.Load() {
		t.Error("expected StateError notification")
	}
	if got := c.State(); got != StateIdle {
		t.Fatalf("state = %v, want %v", got, StateIdle)
	}
}

func TestUplinkEncodesFrames(t *testing.T) {
	conn := newFakeConn()
	source := newFakeSource()
	c := New(Config{Transport: &fakeTransport{conn: conn}, Source: source})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	frame := []float32{0.1, -0.1, 0.5}
	source.frames <- frame
	waitFor(t, func() bool { return conn.sentCount() == 1 })

	conn.mu.Lock()
	got := conn.sent[0]
	conn.mu.Unlock()
	if want := EncodeFrame(frame); got != want {
		t.Errorf("sent %q, want %q", got, want)
	}
}

func TestTurnCompleteFlushesTranscripts(t *testing.T) {
	conn := newFakeConn()
	rec := &turnRecorder{}
	c := New(Config{
		Transport:  &fakeTransport{conn: conn},
		Source:     newFakeSource(),
		OnTurn:     rec.record,
		UserPrefix: "(Voice)",
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	conn.events <- ServerEvent{InputTranscript: "check my "}
	conn.events <- ServerEvent{InputTranscript: "oil"}
	conn.events <- ServerEvent{OutputTranscript: "Your oil looks "}
	conn.events <- ServerEvent{OutputTranscript: "overdue.", TurnComplete: true}

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	turns := rec.snapshot()
	if turns[0].Speaker != domain.SpeakerUser || turns[0].Text != "(Voice) check my oil" {
		t.Errorf("user turn = %+v", turns[0])
	}
	if turns[1].Speaker != domain.SpeakerAssistant || turns[1].Text != "Your oil looks overdue." {
		t.Errorf("assistant turn = %+v", turns[1])
	}
}

func TestTurnCompleteResetsAccumulators(t *testing.T) {
	conn := newFakeConn()
	rec := &turnRecorder{}
	c := New(Config{Transport: &fakeTransport{conn: conn}, Source: newFakeSource(), OnTurn: rec.record})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	conn.events <- ServerEvent{InputTranscript: "first", TurnComplete: true}
	conn.events <- ServerEvent{InputTranscript: "second", TurnComplete: true}

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	turns := rec.snapshot()
	if turns[0].Text != "first" || turns[1].Text != "second" {
		t.Errorf("turns = %+v, accumulators leaked between turns", turns)
	}
}

func TestEmptyTurnCompleteEmitsNothing(t *testing.T) {
	conn := newFakeConn()
	rec := &turnRecorder{}
	c := New(Config{Transport: &fakeTransport{conn: conn}, Source: newFakeSource(), OnTurn: rec.record})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	conn.events <- ServerEvent{TurnComplete: true}
	conn.events <- ServerEvent{InputTranscript: "after", TurnComplete: true}

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	if got := rec.snapshot()[0].Text; got != "after" {
		t.Errorf("turn text = %q, want %q", got, "after")
	}
}

func TestRemoteCloseReturnsToIdle(t *testing.T) {
	conn := newFakeConn()
	source := newFakeSource()
	c := New(Config{Transport: &fakeTransport{conn: conn}, Source: source})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	close(conn.events)

	waitFor(t, func() bool { return c.State() == StateIdle })
	waitFor(t, func() bool { return source.closed.Load() == 1 })
	if conn.closed.Load() != 1 {
		t.Errorf("conn closed %d times, want 1", conn.closed.Load())
	}

	// Teardown already happened; Stop must stay a no-op.
	c.Stop()
	if conn.closed.Load() != 1 {
		t.Errorf("Stop after remote close re-closed conn (%d times)", conn.closed.Load())
	}
}

func TestRemoteCloseAppendsCloseNotice(t *testing.T) {
	conn := newFakeConn()
	rec := &turnRecorder{}
	c := New(Config{
		Transport:   &fakeTransport{conn: conn},
		Source:      newFakeSource(),
		OnTurn:      rec.record,
		CloseNotice: "Voice connection closed.",
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	conn.events <- ServerEvent{InputTranscript: "hello", TurnComplete: true}
	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	close(conn.events)

	waitFor(t, func() bool { return c.State() == StateIdle })
	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	turns := rec.snapshot()
	last := turns[len(turns)-1]
	if last.Speaker != domain.SpeakerAssistant || last.Text != "Voice connection closed." {
		t.Errorf("close notice turn = %+v", last)
	}

	// A local Stop has no remote close; no further notice may appear.
	c.Stop()
	if got := len(rec.snapshot()); got != 2 {
		t.Errorf("turns after Stop = %d, want 2", got)
	}
}

func TestRecvErrorTearsDownOnce(t *testing.T) {
	conn := newFakeConn()
	source := newFakeSource()
	var sawError atomic.Bool
	c := New(Config{
		Transport: &fakeTransport{conn: conn},
		Source:    source,
		OnState: func(s State, err error) {
			if s == StateError && err != nil {
				sawError.Store(true)
			}
		},
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	conn.events <- ServerEvent{SetupComplete: true, InputTranscript: "boom"}

	waitFor(t, func() bool { return sawError.Load() })
	waitFor(t, func() bool { return c.State() == StateIdle })
	if conn.closed.Load() != 1 || source.closed.Load() != 1 {
		t.Errorf("teardown counts conn=%d source=%d, want 1/1",
			conn.closed.Load(), source.closed.Load())
	}

	c.Stop()
	if conn.closed.Load() != 1 {
		t.Errorf("Stop after failure re-closed conn (%d times)", conn.closed.Load())
	}
}

func TestRestartAfterStop(t *testing.T) {
	conn2 := newFakeConn()
	tr := &fakeTransport{conn: newFakeConn()}
	src := newFakeSource()
	c := New(Config{Transport: tr, Source: src})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	c.Stop()

	// A fresh source stands in for re-acquiring the microphone.
	tr.conn = conn2
	c.cfg.Source = newFakeSource()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	c.Stop()
	if conn2.closed.Load() != 1 {
		t.Errorf("second conn closed %d times, want 1", conn2.closed.Load())
	}
}
