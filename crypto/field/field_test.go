package field_test

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jonasnick/purify/crypto/field"
)

func TestField(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Field Suite")
}

var p256k1, _ = new(big.Int).SetString("115792089237316195423570985008687907852837564279074904382605163141518161494337", 10)

var _ = Describe("ModInverse", func() {
	It("computes a modular inverse that round-trips to 1", func() {
		a := big.NewInt(3)
		inv, err := field.ModInverse(a, p256k1)
		Expect(err).NotTo(HaveOccurred())
		prod := new(big.Int).Mod(new(big.Int).Mul(a, inv), p256k1)
		Expect(prod.Cmp(big.NewInt(1))).To(Equal(0))
	})

	It("rejects non-invertible values", func() {
		_, err := field.ModInverse(big.NewInt(4), big.NewInt(8))
		Expect(err).To(Equal(field.ErrNotInvertible))
	})
})

var _ = Describe("LegendreSymbol", func() {
	It("flags small quadratic residues under a small prime", func() {
		p := big.NewInt(11)
		// 3^2 = 9 mod 11, so 9 is a QR.
		Expect(field.LegendreSymbol(big.NewInt(9), p)).To(Equal(1))
	})

	It("flags non-residues", func() {
		p := big.NewInt(11)
		Expect(field.LegendreSymbol(big.NewInt(2), p)).To(Equal(-1))
	})
})

var _ = Describe("ModSqrt", func() {
	It("finds a square root when p % 4 == 3", func() {
		p := big.NewInt(11) // 11 % 4 == 3
		root, err := field.ModSqrt(big.NewInt(9), p)
		Expect(err).NotTo(HaveOccurred())
		sq := new(big.Int).Mod(new(big.Int).Mul(root, root), p)
		Expect(sq.Int64()).To(Equal(int64(9)))
	})

	It("finds a square root via the general Tonelli-Shanks branch (p % 4 == 1)", func() {
		p := big.NewInt(17) // 17 % 8 == 1: math/big takes its Tonelli-Shanks path
		root, err := field.ModSqrt(big.NewInt(4), p)
		Expect(err).NotTo(HaveOccurred())
		sq := new(big.Int).Mod(new(big.Int).Mul(root, root), p)
		Expect(sq.Int64()).To(Equal(int64(4)))
	})

	It("errors on non-residues", func() {
		_, err := field.ModSqrt(big.NewInt(2), big.NewInt(11))
		Expect(err).To(Equal(field.ErrNoSquareRoot))
	})

	It("matches the field order used by the PRF parameter set", func() {
		// D=5 must be a non-residue mod P (GLOSSARY invariant).
		Expect(field.LegendreSymbol(big.NewInt(5), p256k1)).To(Equal(-1))
	})
})
