package grid_test

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
)

func TestGridSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grid Suite")
}

var _ = Describe("Sampler", func() {
	var (
		m   *motor.Motor
		cfg grid.Config
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		m, err = motor.New(motor.Config{Poles: 3, Radius: 30})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.GenerateCoils(motor.StatorConfig{Length: 6, Offset: 18, Radius: 4, Turns: 2, Resolution: 10})).To(Succeed())
		Expect(m.GenerateMagnets(motor.RotorConfig{
			Pairs: 1, Radius: 8, Depth: 3, Height: 2, CurrentDensity: 1, Resolution: 6, AngleStep: 0.4,
		})).To(Succeed())
		m.SetCurrentVector(0.5, 3)

		cfg = grid.Config{Width: 9, Height: 7, ZHeight: 1, WorldOffset: mgl64.Vec3{-4, -3, 0}, Workers: 4}
	})

	It("matches point queries on the motor", func() {
		s, err := grid.NewSampler(cfg)
		Expect(err).NotTo(HaveOccurred())

		g, err := s.SampleField(ctx, m.Snapshot().Sources())
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Width).To(Equal(9))
		Expect(g.Height).To(Equal(7))

		for _, c := range [][2]int{{0, 0}, {4, 3}, {8, 6}, {2, 5}} {
			v, err := g.At(c[0], c[1])
			Expect(err).NotTo(HaveOccurred())
			want := m.FieldAt(cfg.World(c[0], c[1]))
			Expect(v.Sub(want).Len()).To(BeNumerically("<=", 1e-9*math.Max(1, want.Len())))
		}
	})

	It("samples a snapshot taken before the rotor turns", func() {
		s, err := grid.NewSampler(cfg)
		Expect(err).NotTo(HaveOccurred())

		before := m.Snapshot()
		Expect(m.SetRotorAngle(1.0)).To(Succeed())

		stale, err := s.SampleField(ctx, before.Sources())
		Expect(err).NotTo(HaveOccurred())
		fresh, err := s.SampleField(ctx, m.Snapshot().Sources())
		Expect(err).NotTo(HaveOccurred())

		want := before.FieldAt(cfg.World(4, 3))
		got, _ := stale.At(4, 3)
		Expect(got.Sub(want).Len()).To(BeNumerically("<=", 1e-9*math.Max(1, want.Len())))

		moved, _ := fresh.At(4, 3)
		Expect(moved.Sub(got).Len()).To(BeNumerically(">", 0))
	})

	It("returns finite probe forces everywhere", func() {
		s, err := grid.NewSampler(cfg)
		Expect(err).NotTo(HaveOccurred())

		g, err := s.SampleForce(ctx, m.Snapshot().Sources(), grid.DipoleProbe(grid.ProbeConfig{Radius: 0.5, Resolution: 6, Current: 2}))
		Expect(err).NotTo(HaveOccurred())
		for y := 0; y < g.Height; y++ {
			row, err := g.Row(y)
			Expect(err).NotTo(HaveOccurred())
			for _, f := range row {
				Expect(field.IsFinite(f)).To(BeTrue())
			}
		}
		peak, _, _ := g.Peak()
		Expect(peak).To(BeNumerically(">", 0))
	})

	DescribeTable("rejects out-of-range cells",
		func(x, y int) {
			g := grid.New(cfg.Width, cfg.Height)
			_, err := g.At(x, y)
			Expect(err).To(MatchError(field.ErrOutOfBounds))
		},
		Entry("past the right edge", 9, 0),
		Entry("past the bottom edge", 0, 7),
		Entry("negative x", -1, 3),
	)

	It("fails fast on an invalid window", func() {
		cfg.Width = 0
		_, err := grid.NewSampler(cfg)
		Expect(err).To(MatchError(field.ErrInvalidConfig))
	})
})
