package prf

import (
	"math/big"

	"github.com/jonasnick/purify/crypto/curve"
	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/gadget"
	"github.com/jonasnick/purify/crypto/transcript"
)

// CircuitOutput is the result of composing the PRF's main circuit: the
// combined output expression, the two public-key x-coordinate expressions,
// and the number of bit-boolean constraints allocated (needed downstream by
// the Bulletproofs rewriter to divert those constraints into implicit bit
// commitments).
type CircuitOutput struct {
	Out   expr.Expr
	P1x   expr.Expr
	P2x   expr.Expr
	NBits int
}

// combineCircuit builds the circuit form of Combine: fold two x-coordinates
// into one uniform GF(P) output.
func (p *Params) combineCircuit(t *transcript.Transcript, x1, x2 expr.Expr) (expr.Expr, error) {
	f := p.Field
	u := x1
	v := f.Mul(x2, p.DI)
	uv := t.Mul(u, v)
	left := t.Mul(f.Add(u, v), f.Add(uv, f.Const(A)))
	left = f.Add(left, f.Mul(f.Const(B), big.NewInt(2)))
	den := t.Mul(f.Sub(u, v), f.Sub(u, v))
	return t.Div(left, den)
}

// boolBits allocates n boolean witness variables from vals (vals[i] == -1
// means the witness is unknown), returning their expressions.
func boolBits(t *transcript.Transcript, vals []int) ([]expr.Expr, error) {
	ret := make([]expr.Expr, len(vals))
	for i, v := range vals {
		var w *big.Int
		if v >= 0 {
			w = big.NewInt(int64(v))
		}
		e, err := t.Boolean(t.Secret(w))
		if err != nil {
			return nil, err
		}
		ret[i] = e
	}
	return ret, nil
}

// CircuitMain composes the full PRF circuit over M1 (on E1) and M2 (on E2),
// optionally witnessed by the actual secret scalars z1, z2 (pass nil, nil
// for a witness-free, verifier-only circuit).
func (p *Params) CircuitMain(t *transcript.Transcript, m1, m2 curve.Point, z1, z2 *big.Int) (*CircuitOutput, error) {
	n1Bits := N1.BitLen() - 1
	n2Bits := N2.BitLen() - 1

	z1Vals := make([]int, n1Bits)
	z2Vals := make([]int, n2Bits)
	for i := range z1Vals {
		z1Vals[i] = -1
	}
	for i := range z2Vals {
		z2Vals[i] = -1
	}
	if z1 != nil && z2 != nil {
		v1, err := KeyToBits(z1, n1Bits)
		if err != nil {
			return nil, err
		}
		v2, err := KeyToBits(z2, n2Bits)
		if err != nil {
			return nil, err
		}
		z1Vals, z2Vals = v1, v2
	}

	z1Bits, err := boolBits(t, z1Vals)
	if err != nil {
		return nil, err
	}
	z2Bits, err := boolBits(t, z2Vals)
	if err != nil {
		return nil, err
	}
	nBits := len(z1Bits) + len(z2Bits)

	outP1x, err := gadget.ECMultiplyX(p.E1, p.Field, t, p.G1, z1Bits)
	if err != nil {
		return nil, err
	}
	outP2x, err := gadget.ECMultiplyX(p.E2, p.Field, t, p.G2, z2Bits)
	if err != nil {
		return nil, err
	}
	outX1, err := gadget.ECMultiplyX(p.E1, p.Field, t, m1, z1Bits)
	if err != nil {
		return nil, err
	}
	outX2, err := gadget.ECMultiplyX(p.E2, p.Field, t, m2, z2Bits)
	if err != nil {
		return nil, err
	}

	out, err := p.combineCircuit(t, outX1, outX2)
	if err != nil {
		return nil, err
	}

	return &CircuitOutput{Out: out, P1x: outP1x, P2x: outP2x, NBits: nBits}, nil
}
