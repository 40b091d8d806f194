package animation

import "time"

// Timing holds the reveal constants.
type Timing struct {
	Stagger      time.Duration // Delay between intro ribbons
	InitialDelay time.Duration // Delay before the first intro ribbon
	Reveal       time.Duration // Duration of one stroke reveal
	FanoutStep   time.Duration // Cascade step between sub-ribbons of one alignment
}

// DefaultTiming returns the standard reveal timings.
func DefaultTiming() Timing {
	return Timing{
		Stagger:      150 * time.Millisecond,
		InitialDelay: 50 * time.Millisecond,
		Reveal:       400 * time.Millisecond,
		FanoutStep:   100 * time.Millisecond,
	}
}

// IntroDelay is the start offset of the ribbon at position order of the intro.
func (t Timing) IntroDelay(order int) time.Duration {
	return time.Duration(order)*t.Stagger + t.InitialDelay
}

// IntroDuration is the time after which the intro highlight is cleared.
func (t Timing) IntroDuration(count int) time.Duration {
	return time.Duration(count)*t.Stagger + t.InitialDelay + t.Reveal
}

// SubRibbonDelay is the visual cascade delay of one sub-ribbon of a fan-out
// alignment. It only affects the transition delay, never state.
func (t Timing) SubRibbonDelay(sourceIndex, targetIndex int) time.Duration {
	return time.Duration(sourceIndex+targetIndex) * t.FanoutStep
}
