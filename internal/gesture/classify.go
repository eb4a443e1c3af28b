package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Thresholds in normalized image units.
const (
	PinchDist     = 0.05
	FistReach     = 0.25
	PalmReach     = 0.4
	Extended      = 0.4
	Retracted     = 0.3
	PunchDepth    = 0.1
	ClapDist      = 0.1
	SmashDist     = 0.15
	SnapDist      = 0.04
	NoHandsApart  = 100.0
	LabelNoHands  = "NO HANDS"
	LabelTracking = "TRACKING..."
)

// Labels in priority order, highest first.
const (
	LabelClap    = "CLAP (MODE SWITCH)"
	LabelSmash   = "SMASH (RESET)"
	LabelSnap    = "SNAP (COLOR)"
	LabelVictory = "VICTORY (FREEZE)"
	LabelPunch   = "PUNCH (ZOOM)"
	LabelFist    = "FIST (GRAB)"
	LabelPinch   = "PINCH (DRAG)"
	LabelPalm    = "PALM (HOVER)"
)

// Snapshot is one classified detection. It holds no references, so
// copying the struct copies everything.
type Snapshot struct {
	Seq        uint64
	IndexTip   mgl64.Vec3
	Wrist      mgl64.Vec3
	Pinch      bool
	PalmOpen   bool
	Fist       bool
	Pointing   bool
	Victory    bool
	Clap       bool
	Punch      bool
	Smash      bool
	Snap       bool
	HandsCount int
	HandsApart float64
	Label      string
}

// EmptySnapshot is the state with no hands in view.
func EmptySnapshot() Snapshot {
	return Snapshot{HandsApart: NoHandsApart, Label: LabelNoHands}
}

// toView maps image coordinates to [-1,1] with y up.
func toView(l Landmark) mgl64.Vec3 {
	return mgl64.Vec3{(l.X - 0.5) * 2, (l.Y - 0.5) * -2, l.Z}
}

// Classifier turns raw hands into snapshots. It keeps the previous wrist
// depth of the primary hand so punches can be detected between detections.
type Classifier struct {
	prevWristZ float64
	seenWrist  bool
	Velocity   float64
}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify derives every gesture flag and the label. Hands beyond the
// second are ignored.
func (c *Classifier) Classify(hands []Hand) Snapshot {
	s := EmptySnapshot()
	if len(hands) == 0 {
		c.seenWrist = false
		return s
	}
	if len(hands) > 2 {
		hands = hands[:2]
	}
	s.HandsCount = len(hands)
	h := &hands[0]
	wrist := h[Wrist]

	s.IndexTip = toView(h[IndexTip])
	s.Wrist = toView(wrist)

	s.Pinch = dist(h[ThumbTip], h[IndexTip]) < PinchDist
	reach := meanReach(h)
	s.Fist = reach < FistReach
	s.PalmOpen = !s.Fist && !s.Pinch && reach > PalmReach
	s.Victory = dist(h[IndexTip], wrist) > Extended &&
		dist(h[MiddleTip], wrist) > Extended &&
		dist(h[RingTip], wrist) < Retracted &&
		dist(h[PinkyTip], wrist) < Retracted
	s.Pointing = dist(h[IndexTip], wrist) > Extended &&
		dist(h[MiddleTip], wrist) < Retracted &&
		dist(h[RingTip], wrist) < Retracted &&
		dist(h[PinkyTip], wrist) < Retracted
	s.Snap = dist(h[MiddleTip], h[ThumbTip]) < SnapDist && dist(h[IndexTip], wrist) > Extended

	if c.seenWrist {
		c.Velocity = wrist.Z - c.prevWristZ
		s.Punch = s.Fist && math.Abs(c.Velocity) > PunchDepth
	}
	c.prevWristZ = wrist.Z
	c.seenWrist = true

	if len(hands) == 2 {
		other := &hands[1]
		s.HandsApart = dist(wrist, other[Wrist])
		s.Clap = s.HandsApart < ClapDist
		s.Smash = s.Fist && meanReach(other) < FistReach && s.HandsApart < SmashDist
	}

	s.Label = label(s)
	return s
}

func meanReach(h *Hand) float64 {
	w := h[Wrist]
	return (dist(h[IndexTip], w) + dist(h[MiddleTip], w) + dist(h[RingTip], w) + dist(h[PinkyTip], w)) / 4
}

func label(s Snapshot) string {
	switch {
	case s.HandsCount == 0:
		return LabelNoHands
	case s.Clap:
		return LabelClap
	case s.Smash:
		return LabelSmash
	case s.Snap:
		return LabelSnap
	case s.Victory:
		return LabelVictory
	case s.Punch:
		return LabelPunch
	case s.Fist:
		return LabelFist
	case s.Pinch:
		return LabelPinch
	case s.PalmOpen:
		return LabelPalm
	default:
		return LabelTracking
	}
}
