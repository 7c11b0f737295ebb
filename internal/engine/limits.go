package engine

import "time"

// delayFix is subtracted from the clock on reset: it covers the time spent
// between running out of budget and the move actually reaching the GUI.
const delayFix = 2 * time.Millisecond

// gameLengthFactor is the horizon assumed under incremental time controls.
const gameLengthFactor = 40

// Limits turns a time-control policy plus optional node and depth caps into
// per-move soft and hard wall-clock deadlines. The soft break is checked
// between root iterations, the hard break inside the search.
type Limits struct {
	controlMoves int           // Moves per time control period (0 = none)
	baseTime     time.Duration // Base time of the control
	incTime      time.Duration // Increment per move
	movesMade    int

	start     time.Time
	softBreak time.Time
	hardBreak time.Time

	nodesLimit uint64
	depthLimit int
}

// NewLimits creates unbounded limits.
func NewLimits() *Limits {
	l := &Limits{}
	l.SetTimeControl(0, 0, 0)
	l.nodesLimit = ^uint64(0)
	l.depthLimit = MaxDepth
	l.Reset(0)
	return l
}

// SetTimeControl installs a (control moves, base, increment) time policy.
func (l *Limits) SetTimeControl(control int, base, inc time.Duration) {
	l.controlMoves = control
	l.baseTime = base
	l.incTime = inc
	l.movesMade = 0
}

// SetNodesLimit caps the number of nodes searched per move.
func (l *Limits) SetNodesLimit(nodes uint64) {
	if nodes == 0 {
		nodes = ^uint64(0)
	}
	l.nodesLimit = nodes
}

// SetDepthLimit caps the iterative deepening depth.
func (l *Limits) SetDepthLimit(depth int) {
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}
	l.depthLimit = depth
}

// AddMoves advances the moves-made counter within the control period.
func (l *Limits) AddMoves(cnt int) {
	if l.controlMoves != 0 {
		l.movesMade = (l.movesMade + cnt) % l.controlMoves
	}
}

// Reset recomputes the soft and hard deadlines for the next move from the
// time left on the clock.
func (l *Limits) Reset(msLeft time.Duration) {
	l.start = time.Now().Add(-delayFix)

	switch {
	case l.controlMoves == 0 && l.baseTime == 0 && l.incTime == 0:
		// No time policy: effectively no deadlines.
		l.softBreak = l.start.Add(1000 * time.Hour)
		l.hardBreak = l.softBreak
	case l.incTime == 0 && l.controlMoves != 0:
		l.conventionalTimeLimits(msLeft)
	case l.controlMoves == 0:
		l.incrementalTimeLimits(msLeft)
	default:
		l.exactTimePerMove(msLeft)
	}
}

// conventionalTimeLimits divides the remaining time over the moves left in
// the control period.
func (l *Limits) conventionalTimeLimits(msLeft time.Duration) {
	msPerMove := l.baseTime / time.Duration(l.controlMoves)
	if msLeft != 0 {
		msPerMove = msLeft / time.Duration(l.controlMoves-l.movesMade)
	}

	l.softBreak = l.start.Add(msPerMove / 2)
	l.hardBreak = l.start.Add(msPerMove * 9 / 10)
}

// incrementalTimeLimits budgets a fortieth of the clock but never less than
// the increment plus a fortieth of the base time.
func (l *Limits) incrementalTimeLimits(msLeft time.Duration) {
	msPerMove := msLeft / gameLengthFactor
	if floor := l.incTime + l.baseTime/gameLengthFactor; msPerMove < floor {
		msPerMove = floor
	}

	l.softBreak = l.start.Add(msPerMove / 2)
	l.hardBreak = l.start.Add(msPerMove * 9 / 10)
}

// exactTimePerMove spends almost the whole allotment on this single move.
func (l *Limits) exactTimePerMove(msLeft time.Duration) {
	msForMove := msLeft
	if msForMove == 0 {
		msForMove = l.incTime
	}
	l.softBreak = l.start.Add(msForMove * 88 / 100)
	l.hardBreak = l.start.Add(msForMove * 92 / 100)
}

// Elapsed returns the time spent since the last Reset.
func (l *Limits) Elapsed() time.Duration {
	return time.Since(l.start)
}

// ElapsedCentiseconds returns the elapsed time in centiseconds, the unit
// the console output format wants.
func (l *Limits) ElapsedCentiseconds() int64 {
	return l.Elapsed().Milliseconds() / 10
}

// SoftLimitBroken reports whether the soft deadline has passed.
func (l *Limits) SoftLimitBroken() bool {
	return !time.Now().Before(l.softBreak)
}

// HardLimitBroken reports whether the hard deadline has passed.
func (l *Limits) HardLimitBroken() bool {
	return !time.Now().Before(l.hardBreak)
}

// NodesLimitBroken reports whether the node cap is exceeded.
func (l *Limits) NodesLimitBroken(nodes uint64) bool {
	return nodes > l.nodesLimit
}

// DepthLimitBroken reports whether the depth cap is exceeded.
func (l *Limits) DepthLimitBroken(depth int) bool {
	return depth > l.depthLimit
}
