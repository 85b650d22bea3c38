package providers

import (
	"fmt"
	"time"

	"mtd/internal/clock"
	"mtd/internal/structures"
)

// NewClockProvider returns the wall clock unless the configuration pins a
// forced epoch for demo or testing runs.
func NewClockProvider(conf *structures.Config, logger Logger) (clock.Clock, error) {
	if conf.Clock.ForcedTime == "" {
		return clock.NewSystemClock(), nil
	}

	forced, err := time.Parse(time.RFC3339, conf.Clock.ForcedTime)
	if err != nil {
		return nil, fmt.Errorf("invalid clock.forcedTime: %w", err)
	}

	logger.Warnf(TypeApp, "Clock forced to %s", forced)
	return clock.NewForcedClock(forced.In(time.Local)), nil
}
