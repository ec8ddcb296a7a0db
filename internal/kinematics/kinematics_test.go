package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapTwoPi(t *testing.T) {
	assert.InDelta(t, 0.0, WrapTwoPi(0), 1e-9)
	assert.InDelta(t, math.Pi, WrapTwoPi(-math.Pi), 1e-9)
	assert.InDelta(t, 0.1, WrapTwoPi(TwoPi+0.1), 1e-9)
	assert.InDelta(t, TwoPi-0.1, WrapTwoPi(-0.1), 1e-9)
}

func TestShortestDeltaTakesShorterWrap(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"no travel", 0, 0, 0},
		{"quarter turn forward", 0, math.Pi / 2, math.Pi / 2},
		{"quarter turn backward", math.Pi / 2, 0, -math.Pi / 2},
		{"wrap backward is shorter", 0.1, TwoPi - 0.1, -0.2},
		{"exactly pi breaks clockwise", 0, math.Pi, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortestDelta(tt.from, tt.to)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, math.Abs(got), math.Pi+1e-9)
		})
	}
}

func TestTrapezoidalReachesTargetAndCrawls(t *testing.T) {
	crawl := 0.01
	p := NewTrapezoidal(0, 1.0, crawl, 0, 1.0, 1, 0.5, 2.0, 100)

	total := p.Duration()
	pos, vel, phase := p.Evaluate(total)
	assert.InDelta(t, 1.0, pos, 1e-6)
	assert.Equal(t, PhaseDone, phase)
	assert.InDelta(t, crawl, vel, 1e-9)

	// well after settling, it should keep crawling forward.
	pos2, _, phase2 := p.Evaluate(total + 10)
	assert.Equal(t, PhaseDone, phase2)
	assert.InDelta(t, 1.0+crawl*10, pos2, 1e-6)
}

func TestTrapezoidalMonotonicTowardsTarget(t *testing.T) {
	p := NewTrapezoidal(0, 2.0, 0, 0, 2.0, 1, 0.8, 0.3, 100)
	total := p.Duration()
	last := -1.0
	steps := 50
	for i := 0; i <= steps; i++ {
		elapsed := total * float64(i) / float64(steps)
		pos, _, _ := p.Evaluate(elapsed)
		assert.GreaterOrEqual(t, pos, last-1e-9)
		last = pos
	}
	pos, _, phase := p.Evaluate(total)
	assert.InDelta(t, 2.0, pos, 1e-6)
	assert.Equal(t, PhaseDone, phase)
}

func TestTrapezoidalMatchesConstantVelocityScenarioS1(t *testing.T) {
	// AMCS move 0->10deg, crawl 0.1deg/s, vmax 4deg/s: duration is exactly
	// distance/vmax regardless of amax, matching test_amcs.py's
	// test_move_zero_ten_pos.
	deg := math.Pi / 180
	crawl := 0.1 * deg
	p := NewTrapezoidal(0, 10*deg, crawl, 0, 10*deg, 1, 4*deg, 0.75, 3.0)

	assert.InDelta(t, 2.5, p.Duration(), 1e-9)

	pos, vel, phase := p.Evaluate(1.0)
	assert.InDelta(t, 4*deg, pos, 1e-9)
	assert.InDelta(t, 4*deg, vel, 1e-9)
	assert.Equal(t, PhaseCruise, phase)

	pos, vel, phase = p.Evaluate(2.0)
	assert.InDelta(t, 8*deg, pos, 1e-9)
	assert.InDelta(t, 4*deg, vel, 1e-9)
	assert.Equal(t, PhaseCruise, phase)

	pos, vel, phase = p.Evaluate(2.5)
	assert.InDelta(t, 10*deg, pos, 1e-9)
	assert.InDelta(t, crawl, vel, 1e-9)
	assert.Equal(t, PhaseDone, phase)

	pos, _, phase = p.Evaluate(4.0)
	assert.InDelta(t, 10.15*deg, pos, 1e-9)
	assert.Equal(t, PhaseDone, phase)
}

func TestLinearClampsAndReportsDone(t *testing.T) {
	l := NewLinear(0, 100, 0, 10, 0, 100)
	pos, done := l.Evaluate(0)
	assert.False(t, done)
	assert.InDelta(t, 0, pos, 1e-9)

	pos, done = l.Evaluate(5)
	assert.False(t, done)
	assert.InDelta(t, 50, pos, 1e-9)

	pos, done = l.Evaluate(10)
	assert.True(t, done)
	assert.InDelta(t, 100, pos, 1e-9)

	pos, done = l.Evaluate(999)
	assert.True(t, done)
	assert.InDelta(t, 100, pos, 1e-9)
}

func TestLinearReverseDirection(t *testing.T) {
	l := NewLinear(100, 0, 0, 10, 0, 100)
	pos, done := l.Evaluate(3)
	assert.False(t, done)
	assert.InDelta(t, 70, pos, 1e-9)
}
