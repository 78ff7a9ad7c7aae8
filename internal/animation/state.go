package animation

import (
	"time"
)

// Clock records when the first frame ran. It is never reset.
type Clock struct {
	start   time.Time
	started bool
	Elapsed time.Duration
}

func (c *Clock) tick(now time.Time) time.Duration {
	if !c.started {
		c.start = now
		c.started = true
	}
	c.Elapsed = now.Sub(c.start)
	return c.Elapsed
}

// Started reports whether a frame has run yet.
func (c *Clock) Started() bool { return c.started }

// Pointer is the normalized cursor position, x right and y up, both in
// [-1, 1], plus the time of the last click.
type Pointer struct {
	X, Y      float64
	LastClick time.Time
	clicked   bool
}

// StarParameters is the derived per-frame geometry of one star.
type StarParameters struct {
	Points   int
	Outer    float64
	Inner    float64
	Rotation float64
	Scale    float64
}

// LookAt holds the smoothed group tilt and shift.
type LookAt struct {
	RotX, RotY float64
	PosX, PosY float64
}

// AnimationState is everything the driver reads each frame. Input handlers
// reach it only through the Input interface.
type AnimationState struct {
	Clock        Clock
	Pointer      Pointer
	Hover        bool
	FreeRotation float64
	DiskRotation float64
	LookAt       LookAt
	OuterStar    StarParameters
	InnerStar    StarParameters
	Frames       int
}

// Input is the narrow surface input handlers use to mutate animation state.
type Input interface {
	SetPointer(x, y float64)
	Click(at time.Time)
	Wheel(deltaY float64)
	SetHover(hover bool)
}

// Normalize maps a terminal cell to pointer coordinates in [-1, 1] with y up.
// Cells are sampled at their centers.
func Normalize(col, row, width, height int) (x, y float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	x = (float64(col)+0.5)/float64(width)*2 - 1
	y = -((float64(row)+0.5)/float64(height)*2 - 1)
	return clampUnit(x), clampUnit(y)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
