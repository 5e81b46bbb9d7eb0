// Package playback implements the replay cursor state machine.
//
// A [Controller] owns the cursor, the run state and the speed
// selection, but no timers. Drivers (the terminal program, the sync
// hub) arm real timers from the [Tick] values the controller hands out
// and validate each expiry before acting:
//
//	tick, ok := ctrl.Start()
//	// arm a timer for tick.Period, carrying tick
//	...
//	if ctrl.Accept(tick) {
//		ctrl.Advance()
//		// redraw, then re-arm from ctrl.Next()
//	}
//
// Every transition that invalidates outstanding timers rotates the
// tick generation, so a late-firing timer from a stopped or re-paced
// run fails [Controller.Accept] and is dropped. One tick drives both
// the time advance and the redraw, which keeps the two in lockstep by
// construction.
//
// # Speed Ladder
//
// [Speeds] is ordered slowest first. The displayed ratio divides the
// reference period (the [DefaultSpeedIndex] rung) by the selected
// period: 0.25x at the slow end, 20x at the fast end.
package playback
