package gesture

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Landmark indices in a 21-point hand.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleTip = 12
	RingTip   = 16
	PinkyTip  = 20

	NumLandmarks = 21
)

// Landmark is a normalized image-space point: x and y in [0,1] with y
// growing downward, z relative depth.
type Landmark struct {
	X, Y, Z float64
}

// UnmarshalYAML reads a landmark written as a flow sequence [x, y, z].
func (l *Landmark) UnmarshalYAML(value *yaml.Node) error {
	var xyz []float64
	if err := value.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("%w: landmark has %d coordinates", ErrBadHand, len(xyz))
	}
	l.X, l.Y, l.Z = xyz[0], xyz[1], xyz[2]
	return nil
}

func (l Landmark) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{l.X, l.Y, l.Z} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return n, nil
}

type Hand [NumLandmarks]Landmark

// Points returns the landmarks as a slice, as stored in recordings.
func (h Hand) Points() []Landmark { return h[:] }

// HandFromSlice copies exactly NumLandmarks points into a Hand.
func HandFromSlice(pts []Landmark) (Hand, error) {
	var h Hand
	if len(pts) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d landmarks, want %d", ErrBadHand, len(pts), NumLandmarks)
	}
	copy(h[:], pts)
	return h, nil
}

// dist is the planar distance; depth is too noisy to use.
func dist(a, b Landmark) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
