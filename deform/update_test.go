package deform

import (
	"math"
	"testing"
)

// stepOnce runs one update frame with a fixed anchor and the given mask
// content, swapping afterwards like the pipeline does.
func stepOnce(u *Updater, f *Field, m *Mask, shaped []float32, dt float32) {
	u.Step(f, m, shaped, 0, 0, dt)
	f.Swap()
}

func newTestStage() (*Updater, *Field, *Mask, []float32) {
	f := NewField(64, 64)
	m := NewMask(64, 64)
	m.Reset(0, 0)
	u := NewUpdater(1.0/60.0, DefaultRemap()) // 60 second fade
	return u, f, m, make([]float32, 64*64)
}

func TestUpdateZeroInputOnlyDecays(t *testing.T) {
	u, f, m, shaped := newTestStage()

	m.Stamp(0, 0, 2, 1)
	stepOnce(u, f, m, shaped, 0.1)

	prev := make([]float32, len(f.Readable()))
	copy(prev, f.Readable())

	m.Reset(0, 0)
	for i := 0; i < 50; i++ {
		stepOnce(u, f, m, shaped, 0.1)
		for j, v := range f.Readable() {
			if v > prev[j] {
				t.Fatalf("intensity increased with zero input: %f -> %f at %d", prev[j], v, j)
			}
		}
		copy(prev, f.Readable())
	}
}

func TestUpdateMergeIsMonotonicMax(t *testing.T) {
	u, f, m, shaped := newTestStage()

	// Existing depression of 1.0 at center.
	m.Stamp(0, 0, 2, 1)
	stepOnce(u, f, m, shaped, 0)

	center := 31*64 + 31

	// A weaker overlapping contribution must not reduce it.
	m.Reset(0, 0)
	m.Stamp(0, 0, 2, 0.3)
	stepOnce(u, f, m, shaped, 0)

	if v := f.Readable()[center]; v != 1 {
		t.Errorf("expected deepest value to win merge, got %f", v)
	}

	// Merge is order-independent: weak then strong gives the same result.
	u2, f2, m2, shaped2 := newTestStage()
	m2.Stamp(0, 0, 2, 0.3)
	stepOnce(u2, f2, m2, shaped2, 0)
	m2.Reset(0, 0)
	m2.Stamp(0, 0, 2, 1)
	stepOnce(u2, f2, m2, shaped2, 0)

	if v := f2.Readable()[center]; v != 1 {
		t.Errorf("expected max merge regardless of order, got %f", v)
	}
}

func TestUpdateDecayConvergesExactly(t *testing.T) {
	u, f, m, shaped := newTestStage() // decay rate 1/60

	m.Stamp(0, 0, 2, 1)
	stepOnce(u, f, m, shaped, 0)
	m.Reset(0, 0)

	center := 31*64 + 31

	// After 30 simulated seconds the linear state is at 0.5.
	for i := 0; i < 60; i++ {
		stepOnce(u, f, m, shaped, 0.5)
	}
	if v := f.Readable()[center]; math.Abs(float64(v)-0.5) > 1e-3 {
		t.Errorf("expected 0.5 after half the fade time, got %f", v)
	}

	// Not yet zero just before the fade time elapses.
	for i := 0; i < 58; i++ {
		stepOnce(u, f, m, shaped, 0.5)
	}
	if v := f.Readable()[center]; v <= 0 {
		t.Errorf("expected positive intensity before full fade, got %f", v)
	}

	// Exactly zero once the fade time has passed, not asymptotic.
	for i := 0; i < 4; i++ {
		stepOnce(u, f, m, shaped, 0.5)
	}
	if v := f.Readable()[center]; v != 0 {
		t.Errorf("expected exact 0 after fade time, got %f", v)
	}
}

func TestUpdatePausedFrameSkipsDecayButMerges(t *testing.T) {
	u, f, m, shaped := newTestStage()

	m.Stamp(0, 0, 2, 0.8)
	stepOnce(u, f, m, shaped, 0)

	center := 31*64 + 31
	if v := f.Readable()[center]; v != 0.8 {
		t.Fatalf("expected merge on paused frame, got %f", v)
	}

	// Repeated paused frames neither decay nor accumulate.
	m.Reset(0, 0)
	for i := 0; i < 10; i++ {
		stepOnce(u, f, m, shaped, 0)
	}
	if v := f.Readable()[center]; v != 0.8 {
		t.Errorf("expected unchanged intensity across paused frames, got %f", v)
	}

	stepOnce(u, f, m, shaped, -1)
	if v := f.Readable()[center]; v != 0.8 {
		t.Errorf("expected negative dt to behave as paused, got %f", v)
	}
}

func TestUpdateShapedAppliesRimRemapOnlyWhereDisturbed(t *testing.T) {
	u, f, m, shaped := newTestStage()

	m.Stamp(0, 0, 2, 0.5)
	stepOnce(u, f, m, shaped, 0)

	remap := DefaultRemap()
	center := 31*64 + 31
	want := remap.Apply(0.5)
	if math.Abs(float64(shaped[center]-want)) > 1e-6 {
		t.Errorf("expected shaped value %f at disturbed cell, got %f", want, shaped[center])
	}

	// Untouched ground must stay exactly zero despite the remap floor.
	corner := 0
	if shaped[corner] != 0 {
		t.Errorf("expected shaped 0 on untouched ground, got %f", shaped[corner])
	}
}

func TestUpdateSlideShiftsHistoryOneSample(t *testing.T) {
	u, f, m, shaped := newTestStage()

	m.Stamp(0, 0, 2, 1)
	stepOnce(u, f, m, shaped, 0)

	before := make([]float32, len(f.Readable()))
	copy(before, f.Readable())

	// Anchor moves exactly one sample width in +x; no decay, no input.
	m.Reset(1, 0)
	offX, offY := f.Advance(1, 0)
	u.Step(f, m, shaped, offX, offY, 0)
	f.Swap()

	res := 64
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			var want float32
			if x+1 < res {
				want = before[y*res+x+1]
			}
			if got := f.Readable()[y*res+x]; got != want {
				t.Fatalf("expected exact one-sample shift at (%d, %d): want %f, got %f", x, y, want, got)
			}
		}
	}
}

func TestUpdateLegacyEventQueueDrainsEveryFrame(t *testing.T) {
	u, f, m, shaped := newTestStage()

	u.QueueFootprint(FootprintEvent{X: 0, Y: 0, Radius: 2, Intensity: 1})
	u.QueueFootprint(FootprintEvent{X: 5, Y: 5, Radius: 1, Intensity: 0.5})
	if u.PendingEvents() != 2 {
		t.Fatalf("expected 2 queued events, got %d", u.PendingEvents())
	}

	stepOnce(u, f, m, shaped, 0)
	if u.PendingEvents() != 0 {
		t.Errorf("expected queue drained after step, got %d pending", u.PendingEvents())
	}

	center := 31*64 + 31
	if v := f.Readable()[center]; v != 1 {
		t.Errorf("expected event stamped into field, got %f", v)
	}
}
