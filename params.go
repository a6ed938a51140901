package gcarena

// ArenaParameters tunes the incremental collector's pacing. Zero-valued
// fields are replaced by their documented defaults (see withDefaults); the
// defaults target an amortized overhead below 2x steady-state, per the
// design notes.
type ArenaParameters struct {
	// PauseFactor is the fraction of the live set above which allocation
	// debt is enough to start a new collection cycle. Default 0.5.
	PauseFactor float64

	// TimingFactor is the ratio of collection work performed per byte of
	// accrued debt when a step runs. Default 1.5.
	TimingFactor float64

	// MinSleep is the minimum debt, in bytes, below which CollectDebt does
	// not start a new cycle (a cycle already in flight still advances).
	// Default 4 KiB.
	MinSleep uint64
}

// DefaultArenaParameters returns the documented defaults.
func DefaultArenaParameters() ArenaParameters {
	return ArenaParameters{
		PauseFactor:  0.5,
		TimingFactor: 1.5,
		MinSleep:     4 * 1024,
	}
}

func (p ArenaParameters) withDefaults() ArenaParameters {
	d := DefaultArenaParameters()
	if p.PauseFactor <= 0 {
		p.PauseFactor = d.PauseFactor
	}
	if p.TimingFactor <= 0 {
		p.TimingFactor = d.TimingFactor
	}
	if p.MinSleep == 0 {
		p.MinSleep = d.MinSleep
	}
	return p
}
