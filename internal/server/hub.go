package server

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/san-kum/eqreplay/internal/playback"
)

// Command is one control message from a viewer.
type Command struct {
	Action string `json:"action"`
	Value  int    `json:"value,omitempty"`
}

// StateMsg is the playback state broadcast to every viewer after each
// change. Viewers render the iteration themselves from the data
// endpoints; the hub only synchronizes the cursor.
type StateMsg struct {
	Type    string `json:"type"`
	Iter    int    `json:"iter"`
	MaxIter int    `json:"max_iter"`
	State   string `json:"state"`
	Speed   string `json:"speed"`
}

// Hub owns the shared playback controller and the set of connected
// viewers. The controller is touched only by the run loop goroutine;
// clients and handlers send commands into the loop instead of locking.
type Hub struct {
	ctrl *playback.Controller

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	commands   chan Command
	ticks      chan playback.Tick

	count atomic.Int64
	last  atomic.Value // StateMsg
}

func NewHub(ctrl *playback.Controller) *Hub {
	h := &Hub{
		ctrl:       ctrl,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan Command, 64),
		ticks:      make(chan playback.Tick, 8),
	}
	h.last.Store(h.state())
	return h
}

// Run drives the hub until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			log.Printf("server: client %s connected (total %d)", c.ID, len(h.clients))
			// Late joiners sync to the shared cursor immediately.
			c.TrySend(h.state())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				h.count.Store(int64(len(h.clients)))
				close(c.send)
				log.Printf("server: client %s disconnected (total %d)", c.ID, len(h.clients))
			}

		case cmd := <-h.commands:
			h.apply(cmd)
			h.broadcast()

		case t := <-h.ticks:
			h.onTick(t)
		}
	}
}

// Register adds a viewer to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a viewer from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Dispatch queues one control command for the run loop. A full queue
// drops the command; the next broadcast resyncs the viewer anyway.
func (h *Hub) Dispatch(cmd Command) {
	select {
	case h.commands <- cmd:
	default:
		log.Printf("server: command queue full, dropping %q", cmd.Action)
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// LastState returns the most recently computed playback state.
func (h *Hub) LastState() StateMsg {
	return h.last.Load().(StateMsg)
}

// apply runs one control action against the controller. Unknown
// actions are dropped; the state broadcast that follows is answer
// enough.
func (h *Hub) apply(cmd Command) {
	switch cmd.Action {
	case "start":
		if tick, ok := h.ctrl.Start(); ok {
			h.arm(tick)
		}
	case "stop":
		h.ctrl.Stop()
	case "faster":
		if tick, ok := h.ctrl.ChangeSpeed(1); ok {
			h.arm(tick)
		}
	case "slower":
		if tick, ok := h.ctrl.ChangeSpeed(-1); ok {
			h.arm(tick)
		}
	case "seek":
		h.ctrl.Seek(cmd.Value)
	case "step":
		h.ctrl.Advance()
	default:
		log.Printf("server: unknown action %q", cmd.Action)
	}
}

// onTick handles one driver expiry. Expiries from stopped or re-timed
// runs fail Accept and die here.
func (h *Hub) onTick(t playback.Tick) {
	if !h.ctrl.Accept(t) {
		return
	}
	h.ctrl.Advance()
	h.broadcast()
	if next, ok := h.ctrl.Next(); ok {
		h.arm(next)
	}
}

// arm schedules one driver expiry. Timers are never cancelled; a timer
// armed for a dead run fires into Accept and loses.
func (h *Hub) arm(t playback.Tick) {
	time.AfterFunc(t.Period, func() {
		select {
		case h.ticks <- t:
		default:
		}
	})
}

func (h *Hub) state() StateMsg {
	return StateMsg{
		Type:    "state",
		Iter:    h.ctrl.Cursor(),
		MaxIter: h.ctrl.MaxIter(),
		State:   h.ctrl.State().String(),
		Speed:   h.ctrl.RatioLabel(),
	}
}

func (h *Hub) broadcast() {
	msg := h.state()
	h.last.Store(msg)
	for c := range h.clients {
		if !c.TrySend(msg) {
			// Too slow to keep up; drop the connection.
			log.Printf("server: client %s send buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	log.Printf("server: hub shutting down (%d clients)", len(h.clients))
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.count.Store(0)
}
