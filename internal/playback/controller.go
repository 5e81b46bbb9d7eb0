package playback

import (
	"strconv"
	"time"
)

// State is the controller's run state.
type State int

const (
	Stopped State = iota
	Running
)

// String returns the state name used in status lines and sync
// messages.
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Speeds is the selectable tick period ladder, slowest first. Speed
// changes move one rung at a time and clamp at the ends, never wrap.
var Speeds = []time.Duration{
	2 * time.Second,
	time.Second,
	500 * time.Millisecond,
	250 * time.Millisecond,
	100 * time.Millisecond,
	50 * time.Millisecond,
	25 * time.Millisecond,
}

// DefaultSpeedIndex is the reference rung. Ratio displays divide the
// reference period by the selected period, so the default reads as 1x.
const DefaultSpeedIndex = 2

// Tick is one armed driver callback. Gen stamps the generation that
// armed it; a tick from an earlier generation is stale and must fail
// [Controller.Accept] without advancing anything.
type Tick struct {
	Gen    uint64
	Period time.Duration
}

// Controller is the playback state machine of one session. Methods
// expect single-goroutine use; drivers deliver timer expiries onto the
// same event loop that mutates the controller.
type Controller struct {
	cursor  int
	maxIter int
	state   State
	speed   int
	gen     uint64
}

// New returns a stopped controller with the cursor at zero.
func New(maxIter int) *Controller {
	if maxIter < 0 {
		maxIter = 0
	}
	return &Controller{maxIter: maxIter, speed: DefaultSpeedIndex}
}

// Start moves Stopped to Running and returns the tick to arm. Calling
// Start while already Running is a no-op returning false; the caller
// must not arm a second driver.
func (c *Controller) Start() (Tick, bool) {
	if c.state == Running {
		return Tick{}, false
	}
	c.state = Running
	c.gen++
	return c.tick(), true
}

// Stop moves Running to Stopped. Outstanding ticks of the stopped run
// fail Accept afterwards, so timers need no explicit cancellation.
// Calling Stop while Stopped is a no-op.
func (c *Controller) Stop() {
	if c.state == Stopped {
		return
	}
	c.state = Stopped
	c.gen++
}

// ChangeSpeed moves the speed selection delta rungs, clamped to the
// ladder; positive delta selects a faster rung. While Running it
// rotates the generation and returns the replacement tick, so the old
// driver goes stale in the same step that arms the new one and two
// periods never coexist. While Stopped the new speed takes effect on
// the next Start and no tick is returned.
func (c *Controller) ChangeSpeed(delta int) (Tick, bool) {
	return c.retime(c.speed + delta)
}

// SetSpeed jumps to a ladder rung directly, clamped. Presets use this;
// interactive controls step with ChangeSpeed.
func (c *Controller) SetSpeed(index int) (Tick, bool) {
	return c.retime(index)
}

func (c *Controller) retime(index int) (Tick, bool) {
	if index < 0 {
		index = 0
	}
	if index > len(Speeds)-1 {
		index = len(Speeds) - 1
	}
	c.speed = index
	if c.state != Running {
		return Tick{}, false
	}
	c.gen++
	return c.tick(), true
}

// Accept reports whether a fired tick is still current. Drivers call
// it first on every expiry and drop the tick when it returns false.
func (c *Controller) Accept(t Tick) bool {
	return c.state == Running && t.Gen == c.gen
}

// Next returns the tick to re-arm after an accepted one. It returns
// false when the controller is no longer Running.
func (c *Controller) Next() (Tick, bool) {
	if c.state != Running {
		return Tick{}, false
	}
	return c.tick(), true
}

func (c *Controller) tick() Tick {
	return Tick{Gen: c.gen, Period: Speeds[c.speed]}
}

// Advance moves the cursor one iteration forward, saturating at
// maxIter. The controller keeps running at saturation; a saturated run
// redraws the final frame on every tick rather than stopping.
func (c *Controller) Advance() int {
	if c.cursor < c.maxIter {
		c.cursor++
	}
	return c.cursor
}

// Seek sets the cursor directly, clamped to [0, maxIter]. It works in
// both states and does not disturb a running driver; the caller
// triggers one immediate redraw after it.
func (c *Controller) Seek(v int) int {
	if v < 0 {
		v = 0
	}
	if v > c.maxIter {
		v = c.maxIter
	}
	c.cursor = v
	return c.cursor
}

// Cursor returns the current iteration index.
func (c *Controller) Cursor() int { return c.cursor }

// MaxIter returns the cursor bound fixed at construction.
func (c *Controller) MaxIter() int { return c.maxIter }

// State returns the current run state.
func (c *Controller) State() State { return c.state }

// SpeedIndex returns the selected ladder rung.
func (c *Controller) SpeedIndex() int { return c.speed }

// Period returns the selected tick period.
func (c *Controller) Period() time.Duration { return Speeds[c.speed] }

// Ratio returns the relative speed against the reference rung.
func (c *Controller) Ratio() float64 {
	return float64(Speeds[DefaultSpeedIndex]) / float64(Speeds[c.speed])
}

// RatioLabel formats Ratio for display, e.g. "0.5x".
func (c *Controller) RatioLabel() string {
	return strconv.FormatFloat(c.Ratio(), 'g', -1, 64) + "x"
}
