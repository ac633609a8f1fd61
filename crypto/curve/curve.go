// Package curve implements Jacobian-coordinate point arithmetic for short
// Weierstrass curves y^2 = x^3 + A*x + B over a prime field, generalized from
// the fixed NIST/SEC parameters that crypto/ecpointgrouplaw wraps so the two
// related curves the PRF needs can share the same implementation.
package curve

import (
	"errors"
	"math/big"

	"github.com/jonasnick/purify/crypto/field"
)

var (
	// ErrPointAtInfinity is returned by Affine when the point has no affine representation.
	ErrPointAtInfinity = errors.New("curve: point at infinity has no affine coordinates")
	// ErrNotOnCurve is returned by LiftX when x is not the x-coordinate of any curve point.
	ErrNotOnCurve = errors.New("curve: x is not a valid x-coordinate")

	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big3 = big.NewInt(3)
	big4 = big.NewInt(4)
	big8 = big.NewInt(8)
)

// Point is a curve point in Jacobian (X, Y, Z) coordinates; Z == 0 denotes the
// point at infinity.
type Point struct {
	X, Y, Z *big.Int
}

// Curve is a short Weierstrass curve y^2 = x^3 + A*x + B over GF(P), with
// (possibly composite, per the GLOSSARY's N1/N2) group order N.
type Curve struct {
	P, A, B, N *big.Int
}

// New returns the curve y^2 = x^3 + a*x + b over GF(p) with order n.
func New(p, a, b, n *big.Int) *Curve {
	return &Curve{
		P: new(big.Int).Set(p),
		A: new(big.Int).Mod(a, p),
		B: new(big.Int).Mod(b, p),
		N: new(big.Int).Set(n),
	}
}

// Identity returns the point at infinity.
func (c *Curve) Identity() Point {
	return Point{X: big.NewInt(0), Y: big.NewInt(1), Z: big.NewInt(0)}
}

// Affine reduces p to an affine representative (Z == 1). It fails for the
// point at infinity.
func (c *Curve) Affine(p Point) (Point, error) {
	if p.Z.Sign() == 0 {
		return Point{}, ErrPointAtInfinity
	}
	inv, err := field.ModInverse(p.Z, c.P)
	if err != nil {
		return Point{}, err
	}
	inv2 := new(big.Int).Mod(new(big.Int).Mul(inv, inv), c.P)
	inv3 := new(big.Int).Mod(new(big.Int).Mul(inv2, inv), c.P)
	x := new(big.Int).Mod(new(big.Int).Mul(inv2, p.X), c.P)
	y := new(big.Int).Mod(new(big.Int).Mul(inv3, p.Y), c.P)
	return Point{X: x, Y: y, Z: big.NewInt(1)}, nil
}

// Negate returns -p.
func (c *Curve) Negate(p Point) Point {
	y := new(big.Int).Mod(new(big.Int).Sub(c.P, p.Y), c.P)
	return Point{X: new(big.Int).Set(p.X), Y: y, Z: new(big.Int).Set(p.Z)}
}

// IsXCoord reports whether x is the x-coordinate of some point on the curve.
func (c *Curve) IsXCoord(x *big.Int) bool {
	v := c.rhs(x)
	return field.LegendreSymbol(v, c.P) != -1
}

// rhs computes x^3 + A*x + B mod P.
func (c *Curve) rhs(x *big.Int) *big.Int {
	x3 := new(big.Int).Exp(x, big3, c.P)
	ax := new(big.Int).Mul(c.A, x)
	v := new(big.Int).Add(x3, ax)
	v.Add(v, c.B)
	return v.Mod(v, c.P)
}

// LiftX returns an affine point with the given x-coordinate, choosing
// whichever of the two square roots modsqrt returns.
func (c *Curve) LiftX(x *big.Int) (Point, error) {
	v := c.rhs(x)
	y, err := field.ModSqrt(v, c.P)
	if err != nil {
		return Point{}, ErrNotOnCurve
	}
	return Point{X: new(big.Int).Set(x), Y: y, Z: big.NewInt(1)}, nil
}

// Double returns 2*p.
func (c *Curve) Double(p Point) Point {
	if p.Z.Sign() == 0 {
		return c.Identity()
	}
	P := c.P
	y1 := p.Y
	y1_2 := new(big.Int).Mod(new(big.Int).Mul(y1, y1), P)
	y1_4 := new(big.Int).Mod(new(big.Int).Mul(y1_2, y1_2), P)
	x1_2 := new(big.Int).Mod(new(big.Int).Mul(p.X, p.X), P)
	s := new(big.Int).Mul(big4, p.X)
	s.Mul(s, y1_2)
	s.Mod(s, P)
	m := new(big.Int).Mul(big3, x1_2)
	if c.A.Sign() != 0 {
		z4 := new(big.Int).Exp(p.Z, big4, P)
		m.Add(m, new(big.Int).Mul(c.A, z4))
	}
	m.Mod(m, P)
	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, new(big.Int).Mul(big2, s))
	x3.Mod(x3, P)
	y3 := new(big.Int).Sub(s, x3)
	y3.Mul(y3, m)
	y3.Sub(y3, new(big.Int).Mul(big8, y1_4))
	y3.Mod(y3, P)
	z3 := new(big.Int).Mul(big2, y1)
	z3.Mul(z3, p.Z)
	z3.Mod(z3, P)
	return Point{X: x3, Y: y3, Z: z3}
}

// AddMixed adds p1 (Jacobian) to p2, which must be affine (Z == 1).
func (c *Curve) AddMixed(p1, p2 Point) Point {
	P := c.P
	if p1.Z.Sign() == 0 {
		return p2
	}
	z1_2 := new(big.Int).Mod(new(big.Int).Mul(p1.Z, p1.Z), P)
	z1_3 := new(big.Int).Mod(new(big.Int).Mul(z1_2, p1.Z), P)
	u2 := new(big.Int).Mod(new(big.Int).Mul(p2.X, z1_2), P)
	s2 := new(big.Int).Mod(new(big.Int).Mul(p2.Y, z1_3), P)
	if p1.X.Cmp(u2) == 0 {
		if p1.Y.Cmp(s2) != 0 {
			return c.Identity()
		}
		return c.Double(p1)
	}
	h := new(big.Int).Sub(u2, p1.X)
	r := new(big.Int).Sub(s2, p1.Y)
	h2 := new(big.Int).Mod(new(big.Int).Mul(h, h), P)
	h3 := new(big.Int).Mod(new(big.Int).Mul(h2, h), P)
	u1h2 := new(big.Int).Mod(new(big.Int).Mul(p1.X, h2), P)
	x3 := new(big.Int).Mul(r, r)
	x3.Sub(x3, h3)
	x3.Sub(x3, new(big.Int).Mul(big2, u1h2))
	x3.Mod(x3, P)
	y3 := new(big.Int).Sub(u1h2, x3)
	y3.Mul(y3, r)
	y3.Sub(y3, new(big.Int).Mul(p1.Y, h3))
	y3.Mod(y3, P)
	z3 := new(big.Int).Mul(h, p1.Z)
	z3.Mod(z3, P)
	return Point{X: x3, Y: y3, Z: z3}
}

// Add returns p1 + p2 for general Jacobian points.
func (c *Curve) Add(p1, p2 Point) Point {
	P := c.P
	if p1.Z.Sign() == 0 {
		return p2
	}
	if p2.Z.Sign() == 0 {
		return p1
	}
	if p1.Z.Cmp(big1) == 0 {
		return c.AddMixed(p2, p1)
	}
	if p2.Z.Cmp(big1) == 0 {
		return c.AddMixed(p1, p2)
	}
	z1_2 := new(big.Int).Mod(new(big.Int).Mul(p1.Z, p1.Z), P)
	z1_3 := new(big.Int).Mod(new(big.Int).Mul(z1_2, p1.Z), P)
	z2_2 := new(big.Int).Mod(new(big.Int).Mul(p2.Z, p2.Z), P)
	z2_3 := new(big.Int).Mod(new(big.Int).Mul(z2_2, p2.Z), P)
	u1 := new(big.Int).Mod(new(big.Int).Mul(p1.X, z2_2), P)
	u2 := new(big.Int).Mod(new(big.Int).Mul(p2.X, z1_2), P)
	s1 := new(big.Int).Mod(new(big.Int).Mul(p1.Y, z2_3), P)
	s2 := new(big.Int).Mod(new(big.Int).Mul(p2.Y, z1_3), P)
	if u1.Cmp(u2) == 0 {
		if s1.Cmp(s2) != 0 {
			return c.Identity()
		}
		return c.Double(p1)
	}
	h := new(big.Int).Sub(u2, u1)
	r := new(big.Int).Sub(s2, s1)
	h2 := new(big.Int).Mod(new(big.Int).Mul(h, h), P)
	h3 := new(big.Int).Mod(new(big.Int).Mul(h2, h), P)
	u1h2 := new(big.Int).Mod(new(big.Int).Mul(u1, h2), P)
	x3 := new(big.Int).Mul(r, r)
	x3.Sub(x3, h3)
	x3.Sub(x3, new(big.Int).Mul(big2, u1h2))
	x3.Mod(x3, P)
	y3 := new(big.Int).Sub(u1h2, x3)
	y3.Mul(y3, r)
	y3.Sub(y3, new(big.Int).Mul(s1, h3))
	y3.Mod(y3, P)
	z3 := new(big.Int).Mul(h, p1.Z)
	z3.Mul(z3, p2.Z)
	z3.Mod(z3, P)
	return Point{X: x3, Y: y3, Z: z3}
}

// Mul returns n*p via double-and-add from the most significant bit.
func (c *Curve) Mul(p Point, n *big.Int) Point {
	r := c.Identity()
	for i := n.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if n.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}
