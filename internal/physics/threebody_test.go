package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

const radius = 1.5e11

func equilateral(mass float64) dynamo.System {
	h := math.Sqrt(3) / 2
	return dynamo.System{
		{Mass: mass, Position: dynamo.Vec3{X: 1}.Scale(radius)},
		{Mass: mass, Position: dynamo.Vec3{X: -0.5, Y: h}.Scale(radius)},
		{Mass: mass, Position: dynamo.Vec3{X: -0.5, Y: -h}.Scale(radius)},
	}
}

func cross(a, b dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}

var _ = Describe("Gravity", func() {
	var law *physics.Gravity

	BeforeEach(func() {
		law = physics.NewGravity()
	})

	It("uses the SI gravitational constant", func() {
		Expect(law.G).To(Equal(6.6743e-11))
	})

	It("follows the inverse-square law along the separation", func() {
		a := dynamo.Body{Mass: 2e30}
		b := dynamo.Body{Mass: 3e30, Position: dynamo.Vec3{X: 2e11}}

		f, err := law.Force(a, b)
		Expect(err).NotTo(HaveOccurred())

		want := physics.G * 2e30 * 3e30 / (2e11 * 2e11)
		Expect(f.X).To(BeNumerically("~", want, want*1e-12))
		Expect(f.Y).To(BeZero())
		Expect(f.Z).To(BeZero())
	})

	It("satisfies Newton's third law exactly", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			a := dynamo.Body{
				Mass:     1e29 + rng.Float64()*1e31,
				Position: dynamo.Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}.Scale(radius),
			}
			b := dynamo.Body{
				Mass:     1e29 + rng.Float64()*1e31,
				Position: dynamo.Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}.Scale(radius),
			}

			fab, err := law.Force(a, b)
			Expect(err).NotTo(HaveOccurred())
			fba, err := law.Force(b, a)
			Expect(err).NotTo(HaveOccurred())

			Expect(fba).To(Equal(fab.Neg()))
		}
	})

	It("reports coincident bodies instead of an infinite force", func() {
		p := dynamo.Vec3{X: 1, Y: 2, Z: 3}
		_, err := law.Force(dynamo.Body{Mass: 1, Position: p}, dynamo.Body{Mass: 1, Position: p})
		Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
	})

	It("reports overflow as a non-finite force", func() {
		a := dynamo.Body{Mass: 1e300}
		b := dynamo.Body{Mass: 1e300, Position: dynamo.Vec3{X: 1e-100}}
		_, err := law.Force(a, b)
		Expect(err).To(MatchError(dynamo.ErrNonFinite))
	})
})

var _ = Describe("NetForces", func() {
	It("points every body at the centroid of an equilateral triangle with equal magnitude", func() {
		s := equilateral(2e30)
		forces, err := physics.NetForces(physics.NewGravity(), s)
		Expect(err).NotTo(HaveOccurred())

		c := physics.Centroid(s)
		mag := forces[0].Norm()
		Expect(mag).To(BeNumerically(">", 0))

		for i, f := range forces {
			toCentre := c.Sub(s[i].Position)
			Expect(f.Dot(toCentre)).To(BeNumerically(">", 0), "body %d points away from centroid", i)
			sin := cross(f, toCentre).Norm() / (f.Norm() * toCentre.Norm())
			Expect(sin).To(BeNumerically("<", 1e-12), "body %d is off-axis", i)
			Expect(f.Norm()).To(BeNumerically("~", mag, mag*1e-12))
		}
	})

	It("sums to zero over the system", func() {
		s := equilateral(2e30)
		s[1].Mass = 5e30
		s[2].Position.Z = 4e10

		forces, err := physics.NetForces(physics.NewGravity(), s)
		Expect(err).NotTo(HaveOccurred())

		total := forces[0].Add(forces[1]).Add(forces[2])
		scale := forces[0].Norm()
		Expect(total.Norm()).To(BeNumerically("<", scale*1e-12))
	})

	It("names the pair that coincides", func() {
		s := equilateral(1e30)
		s[2].Position = s[1].Position

		_, err := physics.NetForces(physics.NewGravity(), s)
		Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
		Expect(err.Error()).To(ContainSubstring("bodies 1 and 2"))
	})
})

var _ = Describe("Separations", func() {
	It("returns the three pairwise distances", func() {
		s := equilateral(1)
		side := radius * math.Sqrt(3)
		for _, d := range physics.Separations(s) {
			Expect(d).To(BeNumerically("~", side, side*1e-12))
		}
	})
})

var _ = Describe("Centroid", func() {
	It("weights positions by mass", func() {
		s := equilateral(1)
		s[0].Mass = 2
		s[0].Position = dynamo.Vec3{X: 4}
		s[1].Position = dynamo.Vec3{}
		s[2].Position = dynamo.Vec3{Y: 4}

		c := physics.Centroid(s)
		Expect(c.X).To(BeNumerically("~", 2, 1e-12))
		Expect(c.Y).To(BeNumerically("~", 1, 1e-12))
	})

	It("is the origin for a massless system", func() {
		Expect(physics.Centroid(dynamo.System{})).To(Equal(dynamo.Vec3{}))
	})
})
