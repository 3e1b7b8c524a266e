package formatter

import "time"

// Options controls how output is rendered. Plain output is tab-separated
// without color and is used when stdout is not a terminal.
type Options struct {
	Plain    bool
	Location *time.Location
	Now      time.Time
}

func (o Options) loc() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
