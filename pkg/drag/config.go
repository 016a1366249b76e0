package drag

import (
	"time"

	"github.com/framewright/framewright/pkg/snap"
)

// Config tunes a Controller.
type Config struct {
	// Threshold is the pointer travel, in screen px, that turns a press into
	// a drag. Shorter travel ends as a click.
	Threshold float64

	// FrameInterval throttles drop resolution and placeholder updates. The
	// ghost follows every move regardless.
	FrameInterval time.Duration

	SnapThreshold float64 // canvas px
	SnapRelease   float64 // canvas px, applied once at commit

	AutoScroll AutoScrollConfig

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Threshold <= 0 {
		c.Threshold = 4
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 33 * time.Millisecond
	}
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = snap.DefaultThreshold
	}
	if c.SnapRelease <= 0 {
		c.SnapRelease = snap.ReleaseTolerance
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	c.AutoScroll.SetDefaults()
}
