package server

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/eqreplay/internal/playback"
)

func TestHubApplyCommands(t *testing.T) {
	h := NewHub(playback.New(10))

	h.apply(Command{Action: "start"})
	if h.ctrl.State() != playback.Running {
		t.Fatalf("start did not start playback")
	}

	h.apply(Command{Action: "stop"})
	if h.ctrl.State() != playback.Stopped {
		t.Fatalf("stop did not stop playback")
	}

	h.apply(Command{Action: "seek", Value: 7})
	if got := h.ctrl.Cursor(); got != 7 {
		t.Errorf("seek = cursor %d, want 7", got)
	}

	h.apply(Command{Action: "seek", Value: 99})
	if got := h.ctrl.Cursor(); got != 10 {
		t.Errorf("seek past bound = cursor %d, want 10", got)
	}

	h.apply(Command{Action: "step"})
	if got := h.ctrl.Cursor(); got != 10 {
		t.Errorf("step at bound = cursor %d, want 10", got)
	}

	h.apply(Command{Action: "faster"})
	if got := h.ctrl.RatioLabel(); got != "2x" {
		t.Errorf("faster = %q, want %q", got, "2x")
	}
	h.apply(Command{Action: "slower"})
	h.apply(Command{Action: "slower"})
	if got := h.ctrl.RatioLabel(); got != "0.5x" {
		t.Errorf("slower twice = %q, want %q", got, "0.5x")
	}

	// Unknown actions are dropped without side effects.
	before := h.state()
	h.apply(Command{Action: "launch"})
	if h.state() != before {
		t.Errorf("unknown action changed state")
	}
}

func TestHubOnTick(t *testing.T) {
	h := NewHub(playback.New(5))

	tick, ok := h.ctrl.Start()
	if !ok {
		t.Fatalf("Start returned no tick")
	}

	h.onTick(tick)
	if got := h.ctrl.Cursor(); got != 1 {
		t.Errorf("cursor after tick = %d, want 1", got)
	}
	if got := h.LastState().Iter; got != 1 {
		t.Errorf("LastState.Iter = %d, want 1", got)
	}
}

func TestHubOnTickStale(t *testing.T) {
	h := NewHub(playback.New(5))

	stale, _ := h.ctrl.Start()
	h.ctrl.Stop()

	h.onTick(stale)
	if got := h.ctrl.Cursor(); got != 0 {
		t.Errorf("stale tick moved cursor to %d", got)
	}
}

func TestHubRunLoop(t *testing.T) {
	h := NewHub(playback.New(3))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := NewClient("viewer-1", nil, h)
	h.Register(c)

	// A fresh viewer gets the current state at once.
	select {
	case msg := <-c.send:
		if msg.Iter != 0 || msg.State != "stopped" {
			t.Errorf("initial state = %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no initial state received")
	}

	h.Dispatch(Command{Action: "seek", Value: 2})

	select {
	case msg := <-c.send:
		if msg.Iter != 2 {
			t.Errorf("broadcast iter = %d, want 2", msg.Iter)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no broadcast after command")
	}

	if got := h.ClientCount(); got != 1 {
		t.Errorf("ClientCount = %d, want 1", got)
	}

	h.Unregister(c)
	select {
	case _, ok := <-c.send:
		if ok {
			t.Errorf("send channel still open after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("send channel not closed after unregister")
	}
}
