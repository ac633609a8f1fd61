package prf_test

import (
	"math/big"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/prf"
	"github.com/jonasnick/purify/crypto/transcript"
)

var _ = Describe("Verifier/prove script rendering", func() {
	It("renders a python verifier script asserting every recorded constraint", func() {
		f := expr.NewField(prf.P)
		tr := transcript.New(f)
		a := tr.Secret(big.NewInt(3))
		b := tr.Secret(big.NewInt(4))
		m := tr.Mul(a, b)
		script := prf.RenderPythonVerifier(tr, a, b, m)
		Expect(script).To(HavePrefix("def verify(pubkey, output, v):"))
		Expect(script).To(ContainSubstring("assert("))
		Expect(strings.Count(script, "assert(")).To(BeNumerically(">=", len(tr.Muls())))
	})

	It("renders a z3 script that declares one integer variable per witness", func() {
		f := expr.NewField(prf.P)
		tr := transcript.New(f)
		tr.Secret(big.NewInt(1))
		tr.Secret(big.NewInt(2))
		script := prf.RenderZ3Verifier(tr, f.ConstInt64(0), f.ConstInt64(0), f.ConstInt64(0), f.ConstInt64(0))
		Expect(script).To(ContainSubstring("from z3 import *"))
		Expect(script).To(ContainSubstring("IntVector('v', 2)"))
	})

	It("renders a single prove call line with the full witness vector", func() {
		f := expr.NewField(prf.P)
		tr := transcript.New(f)
		tr.Secret(big.NewInt(5))
		tr.Secret(big.NewInt(6))
		line := prf.RenderPythonProveCall(tr, "ab", "cd")
		Expect(line).To(HavePrefix("verify(0xab, 0xcd, ["))
		Expect(line).To(ContainSubstring("5,6"))
	})
})
