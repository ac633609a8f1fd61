package prf_test

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jonasnick/purify/crypto/hashtocurve"
	"github.com/jonasnick/purify/crypto/prf"
	"github.com/jonasnick/purify/crypto/transcript"
)

func TestPRF(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PRF Suite")
}

var _ = Describe("Pack/unpack helpers", func() {
	It("round-trips a public coordinate pair through pack/unpack", func() {
		x1 := big.NewInt(12345)
		x2 := big.NewInt(67890)
		packed := prf.PackPublic(x1, x2)
		ux1, ux2 := prf.UnpackPublic(packed)
		Expect(ux1.Cmp(x1)).To(Equal(0))
		Expect(ux2.Cmp(x2)).To(Equal(0))
	})

	It("unpacks a secret into two scalars each at least 1", func() {
		z1, z2 := prf.UnpackSecret(big.NewInt(0))
		Expect(z1.Cmp(big.NewInt(1))).To(Equal(0))
		Expect(z2.Cmp(big.NewInt(1))).To(Equal(0))
	})
})

var _ = Describe("KeyToBits", func() {
	It("rejects scalars that don't fit in the requested bit width", func() {
		_, err := prf.KeyToBits(big.NewInt(100), 3)
		Expect(err).To(Equal(prf.ErrScalarOutOfRange))
	})

	It("produces exactly `bits` boolean values for an in-range scalar", func() {
		bits, err := prf.KeyToBits(big.NewInt(5), 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(bits).To(HaveLen(8))
		for _, b := range bits {
			Expect(b == 0 || b == 1).To(BeTrue())
		}
	})
})

var _ = Describe("Combine", func() {
	It("is deterministic for the same inputs", func() {
		a := prf.Default.Combine(big.NewInt(7), big.NewInt(11))
		b := prf.Default.Combine(big.NewInt(7), big.NewInt(11))
		Expect(a.Cmp(b)).To(Equal(0))
	})
})

var _ = Describe("CircuitMain end-to-end", func() {
	It("produces a circuit whose transcript-evaluated outputs match the native PRF computation", func() {
		params := prf.Default
		z1 := big.NewInt(12345)
		z2 := big.NewInt(67890)

		m1, err := hashtocurve.HashToCurve([]byte("Eval/1/test"), params.E1)
		Expect(err).NotTo(HaveOccurred())
		m2, err := hashtocurve.HashToCurve([]byte("Eval/2/test"), params.E2)
		Expect(err).NotTo(HaveOccurred())

		p1, err := params.E1.Affine(params.E1.Mul(params.G1, z1))
		Expect(err).NotTo(HaveOccurred())
		p2, err := params.E2.Affine(params.E2.Mul(params.G2, z2))
		Expect(err).NotTo(HaveOccurred())

		q1, err := params.E1.Affine(params.E1.Mul(m1, z1))
		Expect(err).NotTo(HaveOccurred())
		q2, err := params.E2.Affine(params.E2.Mul(m2, z2))
		Expect(err).NotTo(HaveOccurred())
		outNative := params.Combine(q1.X, q2.X)

		tr := transcript.New(params.Field)
		out, err := params.CircuitMain(tr, m1, m2, z1, z2)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.Evaluate(out.P1x).Cmp(p1.X)).To(Equal(0))
		Expect(tr.Evaluate(out.P2x).Cmp(p2.X)).To(Equal(0))
		Expect(tr.Evaluate(out.Out).Cmp(outNative)).To(Equal(0))
	})

	It("builds a witness-free circuit of the same shape for verifier-only use", func() {
		params := prf.Default
		m1, err := hashtocurve.HashToCurve([]byte("Eval/1/test2"), params.E1)
		Expect(err).NotTo(HaveOccurred())
		m2, err := hashtocurve.HashToCurve([]byte("Eval/2/test2"), params.E2)
		Expect(err).NotTo(HaveOccurred())

		tr := transcript.New(params.Field)
		out, err := params.CircuitMain(tr, m1, m2, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Evaluate(out.Out)).To(BeNil())
	})
})
