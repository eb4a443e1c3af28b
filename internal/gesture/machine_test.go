package gesture

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const frame = 1.0 / 60

var unit = Sensitivity{Pinch: 1, Attraction: 1}

func held(s Snapshot) Snapshot {
	s.HandsCount = 1
	return s
}

var _ = Describe("Machine", func() {
	var m *Machine

	BeforeEach(func() {
		m = NewMachine()
	})

	Describe("clap", func() {
		It("toggles the interaction mode once per clap", func() {
			clap := held(Snapshot{Clap: true})
			eff := m.Step(clap, frame, unit)
			Expect(eff.ModeToggled).To(BeTrue())
			Expect(m.Mode).To(Equal(Fly))

			for i := 0; i < 120; i++ {
				Expect(m.Step(clap, frame, unit).ModeToggled).To(BeFalse())
			}
			Expect(m.Mode).To(Equal(Fly))
		})

		It("ignores a second clap inside the cooldown", func() {
			clap := held(Snapshot{Clap: true})
			open := held(Snapshot{PalmOpen: true})
			m.Step(clap, frame, unit)
			m.Step(open, frame, unit)
			Expect(m.Step(clap, frame, unit).ModeToggled).To(BeFalse())
			Expect(m.Mode).To(Equal(Fly))
		})

		It("accepts a new clap after the cooldown", func() {
			clap := held(Snapshot{Clap: true})
			open := held(Snapshot{PalmOpen: true})
			m.Step(clap, frame, unit)
			for elapsed := 0.0; elapsed < ClapCooldown+0.1; elapsed += 0.05 {
				m.Step(open, 0.05, unit)
			}
			Expect(m.Step(clap, frame, unit).ModeToggled).To(BeTrue())
			Expect(m.Mode).To(Equal(Orbit))
		})

		It("re-arms when hands leave the frame", func() {
			clap := held(Snapshot{Clap: true})
			m.Step(clap, frame, unit)
			for i := 0; i < 30; i++ {
				m.Step(EmptySnapshot(), 0.05, unit)
			}
			Expect(m.Step(clap, frame, unit).ModeToggled).To(BeTrue())
		})
	})

	Describe("snap", func() {
		It("cycles the palette on the rising edge only", func() {
			snap := held(Snapshot{Snap: true})
			Expect(m.Step(snap, frame, unit).CyclePalette).To(BeTrue())
			Expect(m.Step(snap, frame, unit).CyclePalette).To(BeFalse())
		})
	})

	Describe("smash", func() {
		It("resets the view with a one-shot impulse", func() {
			smash := held(Snapshot{Smash: true, Fist: true})
			eff := m.Step(smash, frame, unit)
			Expect(eff.ResetView).To(BeTrue())
			Expect(eff.Repel).To(Equal(SmashImpulse))

			eff = m.Step(smash, frame, unit)
			Expect(eff.ResetView).To(BeFalse())
			Expect(eff.Repel).To(BeZero())
		})
	})

	Describe("orbit mode", func() {
		It("pans with a fist proportional to hand motion", func() {
			m.Step(held(Snapshot{Fist: true, IndexTip: mgl64.Vec3{0, 0, 0}}), frame, unit)
			eff := m.Step(held(Snapshot{Fist: true, IndexTip: mgl64.Vec3{0.1, 0.2, 0}}), frame, unit)
			Expect(eff.PanDelta[0]).To(BeNumerically("~", 0.25, 1e-9))
			Expect(eff.PanDelta[1]).To(BeNumerically("~", -0.5, 1e-9))
		})

		It("scales the pan by pinch sensitivity", func() {
			sens := Sensitivity{Pinch: 2, Attraction: 1}
			m.Step(held(Snapshot{Fist: true}), frame, sens)
			eff := m.Step(held(Snapshot{Fist: true, IndexTip: mgl64.Vec3{0.1, 0, 0}}), frame, sens)
			Expect(eff.PanDelta[0]).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("zooms with a pinch moved vertically", func() {
			m.Step(held(Snapshot{Pinch: true}), frame, unit)
			eff := m.Step(held(Snapshot{Pinch: true, IndexTip: mgl64.Vec3{0, 0.1, 0}}), frame, unit)
			Expect(eff.ZoomFactor).To(BeNumerically("~", 1.15, 1e-9))
		})

		It("does not jump when a hand first appears", func() {
			eff := m.Step(held(Snapshot{Fist: true, IndexTip: mgl64.Vec3{0.9, 0.9, 0}}), frame, unit)
			Expect(eff.PanDelta).To(Equal(mgl64.Vec2{}))
		})
	})

	Describe("fly mode", func() {
		BeforeEach(func() {
			m.Mode = Fly
		})

		It("zooms forward while a fist is held", func() {
			eff := m.Step(held(Snapshot{Fist: true}), 0.05, unit)
			Expect(eff.ZoomFactor).To(BeNumerically("~", 1.04, 1e-9))
		})

		It("steers toward an open palm", func() {
			eff := m.Step(held(Snapshot{PalmOpen: true, IndexTip: mgl64.Vec3{0.5, -0.5, 0}}), 0.05, unit)
			Expect(eff.PanDelta[0]).To(BeNumerically("~", 0.02, 1e-9))
			Expect(eff.PanDelta[1]).To(BeNumerically("~", -0.02, 1e-9))
		})
	})

	It("zooms on punch in either mode", func() {
		eff := m.Step(held(Snapshot{Punch: true}), 0.05, unit)
		Expect(eff.ZoomFactor).To(BeNumerically("~", 1.15, 1e-9))
	})

	It("rewinds time while victory is held", func() {
		eff := m.Step(held(Snapshot{Victory: true}), 0.05, unit)
		Expect(eff.TimeDelta).To(BeNumerically("~", -0.05, 1e-12))
	})

	It("emits a pulse per rising edge", func() {
		eff := m.Step(held(Snapshot{Fist: true, Victory: true}), frame, unit)
		names := []string{}
		for _, p := range eff.Pulses {
			names = append(names, p.Gesture)
		}
		Expect(names).To(ConsistOf("fist", "victory"))
		Expect(m.Step(held(Snapshot{Fist: true, Victory: true}), frame, unit).Pulses).To(BeEmpty())
	})

	It("does nothing without hands", func() {
		eff := m.Step(EmptySnapshot(), frame, unit)
		Expect(eff).To(Equal(Effect{ZoomFactor: 1}))
	})
})

var _ = Describe("Force", func() {
	DescribeTable("targets per gesture",
		func(s Snapshot, attract, repel float64) {
			a, r := Force(s, Sensitivity{Attraction: 2})
			Expect(a).To(Equal(attract))
			Expect(r).To(Equal(repel))
		},
		Entry("no hands", Snapshot{}, 0.0, 0.0),
		Entry("smash", held(Snapshot{Smash: true, Fist: true}), 0.0, 20.0),
		Entry("fist", held(Snapshot{Fist: true}), 6.0, 0.0),
		Entry("pinch", held(Snapshot{Pinch: true}), 2.0, 0.0),
		Entry("idle", held(Snapshot{}), 0.0, 1.0),
	)
})
