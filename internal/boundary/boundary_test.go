package boundary

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

const radius = 100.0

func seededRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func particleAt(position, velocity vec.Vec3) *body.Particle {
	return body.NewParticle(1, position, velocity)
}

var _ = Describe("New", func() {
	It("rejects unknown kinds", func() {
		_, err := New("teleport", radius, 0, 0, seededRng())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown boundary kind"))
	})

	It("builds a wrap gate", func() {
		p, err := New(KindWrap, radius, 0, 0, seededRng())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Kind()).To(Equal(KindWrap))
		Expect(p.Radius()).To(Equal(radius))
	})

	It("builds a reflect wall", func() {
		p, err := New(KindReflect, radius, math.Pi/4, 0, seededRng())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Kind()).To(Equal(KindReflect))
	})

	It("defaults the wrap angle range to pi", func() {
		p, err := New(KindWrap, radius, math.Pi/2, 0, seededRng())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.(*WrapGate).angleRange).To(Equal(math.Pi))
	})

	It("defaults the reflect angle range to pi/3", func() {
		p, err := New(KindReflect, radius, math.Pi/4, 0, seededRng())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.(*ReflectWall).angleRange).To(Equal(math.Pi / 3))
	})
})

var _ = Describe("CheckCollision", func() {
	var policy Policy

	BeforeEach(func() {
		var err error
		policy, err = New(KindWrap, radius, 0, 0, seededRng())
		Expect(err).NotTo(HaveOccurred())
	})

	It("is false strictly inside", func() {
		p := particleAt(vec.New(50, 0, 0), vec.Zero)
		Expect(policy.CheckCollision(p)).To(BeFalse())
		Expect(p.Position).To(Equal(vec.New(50, 0, 0)))
	})

	It("is true exactly at the boundary", func() {
		p := particleAt(vec.New(radius, 0, 0), vec.Zero)
		Expect(policy.CheckCollision(p)).To(BeTrue())
	})

	It("clamps an escaped particle to 95% of the radius", func() {
		p := particleAt(vec.New(0, 2*radius, 0), vec.Zero)
		Expect(policy.CheckCollision(p)).To(BeTrue())
		Expect(p.Position.Mag()).To(BeNumerically("~", 0.95*radius, 1e-9))
		Expect(p.Position.Normalize().Y).To(BeNumerically("~", 1, 1e-9))
	})
})

var _ = Describe("WrapGate", func() {
	Context("deterministic", func() {
		var gate Policy

		BeforeEach(func() {
			var err error
			gate, err = New(KindWrap, radius, 0, 0, seededRng())
			Expect(err).NotTo(HaveOccurred())
		})

		It("teleports through the origin with a velocity-side offset", func() {
			p := particleAt(vec.New(0.95*radius, 0, 0), vec.New(0, 2, 0))
			pos, vel := gate.HandleCollision(p, 1.0)

			Expect(pos.X).To(BeNumerically("~", -radius, 1e-9))
			Expect(pos.Y).To(BeNumerically("~", 0.05*radius, 1e-9))
			Expect(pos.Z).To(BeNumerically("~", 0, 1e-12))
			Expect(vel).To(Equal(vec.New(0, 1.2, 0)))
		})

		It("damps the speed by 0.6", func() {
			p := particleAt(vec.New(0, 0.95*radius, 0), vec.New(3, 4, 0))
			_, vel := gate.HandleCollision(p, 1.0)
			Expect(vel.Mag()).To(BeNumerically("~", 5*0.6, 1e-9))
		})
	})

	Context("randomized", func() {
		It("re-enters on the boundary sphere heading for the origin", func() {
			gate, err := New(KindWrap, radius, math.Pi/2, 0, seededRng())
			Expect(err).NotTo(HaveOccurred())

			p := particleAt(vec.New(0.95*radius, 0, 0), vec.New(0, 5, 0))
			pos, vel := gate.HandleCollision(p, 1.0)

			Expect(pos.Mag()).To(BeNumerically("~", radius, 1e-9))
			Expect(vel.Mag()).To(BeNumerically("~", 5*0.6, 1e-9))

			inward := vec.Zero.Sub(pos).Normalize()
			Expect(vel.Normalize().Dot(inward)).To(BeNumerically("~", 1, 1e-9))
		})

		It("is reproducible under the same seed", func() {
			run := func() (vec.Vec3, vec.Vec3) {
				gate, err := New(KindWrap, radius, math.Pi/2, 0, seededRng())
				Expect(err).NotTo(HaveOccurred())
				p := particleAt(vec.New(0.95*radius, 0, 0), vec.New(0, 5, 0))
				return gate.HandleCollision(p, 1.0)
			}
			pos1, vel1 := run()
			pos2, vel2 := run()
			Expect(pos1).To(Equal(pos2))
			Expect(vel1).To(Equal(vel2))
		})
	})
})

var _ = Describe("ReflectWall", func() {
	Context("specular", func() {
		It("sends the particle straight back at the origin", func() {
			wall, err := New(KindReflect, radius, 0, 0, seededRng())
			Expect(err).NotTo(HaveOccurred())

			p := particleAt(vec.New(0.95*radius, 0, 0), vec.New(3, 4, 0))
			pos, vel := wall.HandleCollision(p, 1.0)

			Expect(vel).To(Equal(vec.New(-3, 0, 0)))
			Expect(pos).To(Equal(vec.New(0.95*radius-3, 0, 0)))
		})

		It("advances the position by one step of the new velocity", func() {
			wall, err := New(KindReflect, radius, 0, 0, seededRng())
			Expect(err).NotTo(HaveOccurred())

			p := particleAt(vec.New(0, 0.95*radius, 0), vec.New(0, 5, 0))
			pos, vel := wall.HandleCollision(p, 0.5)
			Expect(pos).To(Equal(p.Position.Add(vel.Scale(0.5))))
		})
	})

	Context("diffuse", func() {
		It("always heads inward and damps the speed", func() {
			wall, err := New(KindReflect, radius, math.Pi/6, math.Pi/3, seededRng())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				p := particleAt(vec.New(0, 0, 0.95*radius), vec.New(1, 2, 2))
				pos, vel := wall.HandleCollision(p, 1.0)

				radial := vec.New(0, 0, 1)
				Expect(vel.Normalize().Dot(radial)).To(BeNumerically("<", 0))
				Expect(vel.Mag()).To(BeNumerically("~", 3*0.6, 1e-9))
				Expect(pos).To(Equal(vec.New(0, 0, 0.95*radius).Add(vel)))
			}
		})

		It("handles positions aligned with the reference axis", func() {
			wall, err := New(KindReflect, radius, math.Pi/6, math.Pi/3, seededRng())
			Expect(err).NotTo(HaveOccurred())

			// Radial direction along +x forces the fallback reference axis.
			p := particleAt(vec.New(0.95*radius, 0, 0), vec.New(2, 0, 0))
			_, vel := wall.HandleCollision(p, 1.0)

			Expect(vel.Normalize().X).To(BeNumerically("<", 0))
			Expect(vel.Mag()).To(BeNumerically("~", 2*0.6, 1e-9))
		})
	})
})
