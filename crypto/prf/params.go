// Package prf implements the two-curve PRF: parameter setup, native key
// generation/evaluation, the bit-recoding scheme used to feed scalars into
// the circuit, and the circuit composer that ties the crypto/gadget
// building blocks into one constraint system per crypto/transcript.
package prf

import (
	"errors"
	"math/big"

	"github.com/jonasnick/purify/crypto/curve"
	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/field"
	"github.com/jonasnick/purify/crypto/hashtocurve"
	"github.com/jonasnick/purify/internal/logger"
)

// ErrScalarOutOfRange is returned by KeyToBits when n-1 does not fit in bits bits.
var ErrScalarOutOfRange = errors.New("prf: scalar out of range for bit width")

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("prf: invalid decimal constant " + s)
	}
	return v
}

// Parameters generated using gen_params.sage for secp256k1 (the only active
// parameter set; see GLOSSARY / SPEC_FULL.md design notes for the others).
var (
	P  = mustBig("115792089237316195423570985008687907852837564279074904382605163141518161494337")
	A  = big.NewInt(118)
	B  = big.NewInt(339)
	D  = big.NewInt(5)
	N1 = mustBig("115792089237316195423570985008687907853146579067639158218940405176378157516777")
	N2 = mustBig("115792089237316195423570985008687907852528549490510650546269921106658165471899")
)

// Params bundles the two related curves, their generators, and the field
// they share.
type Params struct {
	Field *expr.Field
	E1    *curve.Curve
	E2    *curve.Curve
	G1    curve.Point
	G2    curve.Point
	DI    *big.Int
}

// NewParams computes the PRF's fixed public parameters: E2's coefficients
// (A*D^2, B*D^3), the hash-derived generators G1/G2, and D's modular
// inverse. It fails if the domain's structural invariants don't hold.
func NewParams() (*Params, error) {
	e1 := curve.New(P, A, B, N1)
	d2 := new(big.Int).Mul(D, D)
	d3 := new(big.Int).Mul(d2, D)
	a2 := new(big.Int).Mod(new(big.Int).Mul(A, d2), P)
	b2 := new(big.Int).Mod(new(big.Int).Mul(B, d3), P)
	e2 := curve.New(P, a2, b2, N2)

	g1, err := hashtocurve.HashToCurve([]byte("Generator/1"), e1)
	if err != nil {
		return nil, err
	}
	g2, err := hashtocurve.HashToCurve([]byte("Generator/2"), e2)
	if err != nil {
		return nil, err
	}

	if e1.Mul(g1, N1).Z.Sign() != 0 {
		return nil, errors.New("prf: G1's order does not divide N1")
	}
	if e2.Mul(g2, N2).Z.Sign() != 0 {
		return nil, errors.New("prf: G2's order does not divide N2")
	}
	if field.LegendreSymbol(D, P) != -1 {
		return nil, errors.New("prf: D must be a quadratic non-residue mod P")
	}
	di, err := field.ModInverse(D, P)
	if err != nil {
		return nil, err
	}

	return &Params{
		Field: expr.NewField(P),
		E1:    e1,
		E2:    e2,
		G1:    g1,
		G2:    g2,
		DI:    di,
	}, nil
}

// Default is the parameter set active for the secp256k1-derived curves;
// computed once at process start, mirroring the original's module-level
// setup and asserts.
var Default *Params

func init() {
	p, err := NewParams()
	if err != nil {
		logger.Logger().Crit("failed to initialize PRF parameters", "err", err)
		panic(err)
	}
	Default = p
}

var big1 = big.NewInt(1)
var big2 = big.NewInt(2)

// UnpackSecret converts a single integer in [0, (N1-1)/2 * (N2-1)/2) into a
// pair of scalars (z1, z2), each in range [1, (Ni-1)/2].
func UnpackSecret(z *big.Int) (z1, z2 *big.Int) {
	half1 := new(big.Int).Rsh(new(big.Int).Sub(N1, big1), 1)
	q, r := new(big.Int).DivMod(z, half1, new(big.Int))
	z1 = new(big.Int).Add(big1, r)
	z2 = new(big.Int).Add(big1, q)
	return z1, z2
}

// UnpackPublic converts a single integer in [0, P^2) into a pair of
// coordinates (x1, x2).
func UnpackPublic(p *big.Int) (x1, x2 *big.Int) {
	x2, x1 = new(big.Int).DivMod(p, P, new(big.Int))
	return x1, x2
}

// PackPublic converts a pair of coordinates into a single integer in [0, P^2).
func PackPublic(x1, x2 *big.Int) *big.Int {
	return new(big.Int).Add(x1, new(big.Int).Mul(P, x2))
}

// Combine folds two x-coordinates (on E1 and E2) into one uniform GF(P)
// element: the PRF's output.
func (p *Params) Combine(x1, x2 *big.Int) *big.Int {
	u := new(big.Int).Mod(x1, P)
	v := new(big.Int).Mod(new(big.Int).Mul(x2, p.DI), P)
	w, err := field.ModInverse(new(big.Int).Add(new(big.Int).Sub(u, v), P), P)
	if err != nil {
		panic(err)
	}
	uv := new(big.Int).Mod(new(big.Int).Mul(u, v), P)
	inner := new(big.Int).Add(A, uv)
	sum := new(big.Int).Add(u, v)
	res := new(big.Int).Mul(sum, inner)
	res.Add(res, new(big.Int).Mul(big2, B))
	res.Mul(res, w)
	res.Mul(res, w)
	return res.Mod(res, P)
}

// KeyToBits converts the scalar n to the signed 3-bit-window-friendly bit
// schedule the circuit's scalar multiplication gadget expects.
func KeyToBits(n *big.Int, bits int) ([]int, error) {
	nn := new(big.Int).Sub(n, big1)
	limit := new(big.Int).Lsh(big1, uint(bits))
	if nn.Cmp(limit) >= 0 || nn.Sign() < 0 {
		return nil, ErrScalarOutOfRange
	}
	ret := make([]int, bits)
	for i := 0; i < bits; i++ {
		ret[i] = int(nn.Bit(i))
	}
	for i := 3; i < bits; i += 3 {
		if ret[i] == 0 {
			ret[i-1] = 1 - ret[i-1]
			ret[i-2] = 1 - ret[i-2]
		}
		ret[i] = 1 - ret[i]
	}
	return ret, nil
}
