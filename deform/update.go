package deform

// FootprintEvent is the legacy discrete input path: a single circular
// stamp merged directly into the field, for contributors that have no
// geometry reaching the capture pass. Queued events are consumed and
// dropped every frame; the queue never carries over.
type FootprintEvent struct {
	X, Y      float32
	Radius    float32
	Intensity float32
}

// Updater merges re-projected history with the current frame's
// contribution. The persistent ping-pong buffers hold the linear merged
// intensity; the rim remap is applied on the way out into the shaped
// buffer that feeds the smoothing stage. Keeping the stored state linear
// is what makes decay exactly linear in time - re-storing remapped
// values would compound the curve every frame and the remap(0) floor
// would stop anything from ever healing to zero.
type Updater struct {
	decayRate float32
	remap     Remap
	events    []FootprintEvent
}

// NewUpdater creates an update stage. decayRate is intensity units
// healed per second; a full depression fades in 1/decayRate seconds.
func NewUpdater(decayRate float32, remap Remap) *Updater {
	return &Updater{
		decayRate: decayRate,
		remap:     remap,
	}
}

// SetDecayRate changes the heal speed.
func (u *Updater) SetDecayRate(rate float32) { u.decayRate = rate }

// DecayRate returns the current heal speed.
func (u *Updater) DecayRate() float32 { return u.decayRate }

// QueueFootprint adds a legacy footprint event for the next Step.
func (u *Updater) QueueFootprint(ev FootprintEvent) {
	u.events = append(u.events, ev)
}

// PendingEvents reports the number of queued footprint events.
func (u *Updater) PendingEvents() int { return len(u.events) }

// Step computes the new field state into the field's write buffer and
// the remapped result into shaped. offX/offY is the sliding-window
// offset in samples returned by Field.Advance for this frame's anchor
// move. The mask must be aligned to the same anchor. dt <= 0 (paused
// frame) skips decay but still merges, so deformation neither regresses
// nor accumulates while paused. The caller swaps the field afterwards.
//
// Per sample: history is the old buffer re-projected under the moved
// window (no coverage = no history = 0), linearly decayed; the incoming
// occupancy merges with max, so the deepest contributor wins and merge
// order never matters.
func (u *Updater) Step(f *Field, mask *Mask, shaped []float32, offX, offY, dt float32) {
	// Legacy events merge through the mask so both input paths share
	// one write target; the queue is drained every frame regardless.
	for _, ev := range u.events {
		mask.Stamp(ev.X, ev.Y, ev.Radius, ev.Intensity)
	}
	u.events = u.events[:0]

	res := f.Resolution()
	out := f.Writable()
	in := mask.Values()

	decay := float32(0)
	if dt > 0 {
		decay = u.decayRate * dt
	}

	wholeSample := offX == float32(int(offX)) && offY == float32(int(offY))

	for y := 0; y < res; y++ {
		base := y * res
		for x := 0; x < res; x++ {
			idx := base + x

			var history float32
			if wholeSample {
				// Exact shift, no filtering needed.
				history = tapZero(f.Readable(), res, x+int(offX), y+int(offY))
			} else {
				history = f.SampleSlid(float32(x), float32(y), offX, offY)
			}

			history -= decay
			if history < 0 {
				history = 0
			}

			merged := clamp01(max32(history, in[idx]))
			out[idx] = merged

			// The remap floor only applies to disturbed cells;
			// untouched ground must stay exactly zero.
			if merged > 0 {
				shaped[idx] = clamp01(u.remap.Apply(merged))
			} else {
				shaped[idx] = 0
			}
		}
	}
}
