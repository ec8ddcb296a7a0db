package kinematics

// Phase names a region of the motion profile.
type Phase int

const (
	PhaseCruise Phase = iota
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseCruise:
		return "cruise"
	default:
		return "done"
	}
}

// Trapezoidal describes a move from StartPosition to TargetPosition,
// beginning at StartTai, optionally crawling at CrawlVelocity once the target
// is reached. The reference controller does not ramp through amax/jmax when
// computing position and duration (test_amcs.py's expected_duration is
// exactly (target-start)/vmax, with velocity at vmax for the whole move);
// MaxAcceleration and MaxJerk are carried on the type only so callers can
// validate a configured limit, not to shape the motion itself.
type Trapezoidal struct {
	StartPosition float64
	TargetPosition float64
	CrawlVelocity float64
	StartTai      float64
	MaxVelocity   float64
	MaxAcceleration float64
	MaxJerk       float64

	dir      float64 // +1 or -1, direction of travel
	distance float64 // unsigned distance to travel, radians
	tCruise  float64 // duration of the constant-velocity move, distance/MaxVelocity
	peakVel  float64 // MaxVelocity, held for the whole move
}

// NewTrapezoidal builds a profile and precomputes its phase durations.
// distance is the caller-supplied unsigned travel distance (already resolved
// for shortest-path wrap, where applicable) and dir is +1 or -1.
func NewTrapezoidal(startPosition, targetPosition, crawlVelocity, startTai, distance, dir, maxVelocity, maxAcceleration, maxJerk float64) *Trapezoidal {
	t := &Trapezoidal{
		StartPosition:   startPosition,
		TargetPosition:  targetPosition,
		CrawlVelocity:   crawlVelocity,
		StartTai:        startTai,
		MaxVelocity:     maxVelocity,
		MaxAcceleration: maxAcceleration,
		MaxJerk:         maxJerk,
		dir:             dir,
		distance:        distance,
	}
	t.computePhases()
	return t
}

// computePhases travels the whole distance at MaxVelocity, per the reference
// controller's constant-speed model (test_amcs.py's expected_duration is
// exactly (target-start)/vmax).
func (t *Trapezoidal) computePhases() {
	if t.MaxVelocity <= 0 {
		t.tCruise, t.peakVel = 0, 0
		return
	}
	t.peakVel = t.MaxVelocity
	t.tCruise = t.distance / t.MaxVelocity
}

// Duration returns the total time, in seconds, for the move to reach the
// target position (not including any subsequent crawl).
func (t *Trapezoidal) Duration() float64 {
	return t.tCruise
}

// Evaluate returns the position (radians), velocity (radians/s) and phase at
// elapsed seconds since StartTai. Once the move is complete, the position
// advances from TargetPosition at CrawlVelocity in the direction of travel
// (holding at TargetPosition when CrawlVelocity is zero), the velocity is
// CrawlVelocity, and the phase reports PhaseDone.
func (t *Trapezoidal) Evaluate(elapsed float64) (position, velocity float64, phase Phase) {
	if elapsed < 0 {
		elapsed = 0
	}

	total := t.Duration()
	if elapsed >= total {
		crawlElapsed := elapsed - total
		position = t.TargetPosition + t.dir*t.CrawlVelocity*crawlElapsed
		velocity = t.CrawlVelocity
		phase = PhaseDone
		return
	}

	traveled := t.peakVel * elapsed
	position = t.StartPosition + t.dir*traveled
	velocity = t.peakVel * sign(t.dir)
	phase = PhaseCruise
	return
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
