package driver

import "time"

type PollDriverOpt func(*PollDriver)

func WithTickLength(tickLength time.Duration) PollDriverOpt {
	return func(d *PollDriver) {
		if tickLength > 0 {
			d.tickLength = tickLength
		}
	}
}
