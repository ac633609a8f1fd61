package hashtocurve_test

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jonasnick/purify/crypto/curve"
	"github.com/jonasnick/purify/crypto/hashtocurve"
)

func TestHashToCurve(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HashToCurve Suite")
}

var p, _ = new(big.Int).SetString("115792089237316195423570985008687907852837564279074904382605163141518161494337", 10)

var _ = Describe("HashToInt", func() {
	It("is deterministic for the same data and info", func() {
		rng := big.NewInt(1000000)
		a, err := hashtocurve.HashToInt([]byte("hello"), rng, []byte("tag"))
		Expect(err).NotTo(HaveOccurred())
		b, err := hashtocurve.HashToInt([]byte("hello"), rng, []byte("tag"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Cmp(b)).To(Equal(0))
		Expect(a.Cmp(rng)).To(Equal(-1))
		Expect(a.Sign()).To(BeNumerically(">=", 0))
	})

	It("differs for different domain tags", func() {
		rng := big.NewInt(1000000)
		a, err := hashtocurve.HashToInt([]byte("hello"), rng, []byte("tag1"))
		Expect(err).NotTo(HaveOccurred())
		b, err := hashtocurve.HashToInt([]byte("hello"), rng, []byte("tag2"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Cmp(b)).NotTo(Equal(0))
	})
})

var _ = Describe("HashToCurve", func() {
	It("produces a point that lies on the curve", func() {
		c := curve.New(p, big.NewInt(118), big.NewInt(339), p)
		pt, err := hashtocurve.HashToCurve([]byte("Generator/1"), c)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.IsXCoord(pt.X)).To(BeTrue())
		affine, err := c.Affine(pt)
		Expect(err).NotTo(HaveOccurred())
		lhs := new(big.Int).Exp(affine.Y, big.NewInt(2), p)
		x3 := new(big.Int).Exp(affine.X, big.NewInt(3), p)
		rhs := new(big.Int).Add(x3, new(big.Int).Mul(big.NewInt(118), affine.X))
		rhs.Add(rhs, big.NewInt(339))
		rhs.Mod(rhs, p)
		Expect(lhs.Cmp(rhs)).To(Equal(0))
	})

	It("is deterministic", func() {
		c := curve.New(p, big.NewInt(118), big.NewInt(339), p)
		a, err := hashtocurve.HashToCurve([]byte("Generator/1"), c)
		Expect(err).NotTo(HaveOccurred())
		b, err := hashtocurve.HashToCurve([]byte("Generator/1"), c)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.X.Cmp(b.X)).To(Equal(0))
		Expect(a.Y.Cmp(b.Y)).To(Equal(0))
	})
})
