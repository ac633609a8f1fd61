// Package gadget implements the circuit building blocks the PRF composer
// wires together: boolean k-bit lookup tables, conditional point selection
// and negation, affine EC addition, and windowed (3-bit) scalar
// multiplication with its accompanying bit-recoded lookup schedule.
package gadget

import (
	"math/big"

	"github.com/jonasnick/purify/crypto/curve"
	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/transcript"
)

// AffinePoint is a point on a curve expressed as a pair of circuit
// expressions, rather than concrete field elements.
type AffinePoint struct {
	X, Y expr.Expr
}

// Lookup1 selects between v[0] and v[1] based on the boolean expression x.
func Lookup1(f *expr.Field, v [2]*big.Int, x expr.Expr) expr.Expr {
	diff := new(big.Int).Sub(v[1], v[0])
	return f.Add(f.Const(v[0]), f.Mul(x, diff))
}

// Lookup2 selects one of v[0..3] based on the booleans x, y (x + 2*y as index).
func Lookup2(f *expr.Field, t *transcript.Transcript, v [4]*big.Int, x, y expr.Expr) expr.Expr {
	xy := t.Mul(x, y)
	ret := f.Const(v[0])
	ret = f.Add(ret, f.Mul(x, diff(v[1], v[0])))
	ret = f.Add(ret, f.Mul(y, diff(v[2], v[0])))
	ret = f.Add(ret, f.Mul(xy, quad(v[0], v[3], v[1], v[2])))
	return ret
}

// Lookup3 selects one of v[0..7] based on the booleans x, y, z
// (x + 2*y + 4*z as index).
func Lookup3(f *expr.Field, t *transcript.Transcript, v [8]*big.Int, x, y, z expr.Expr) expr.Expr {
	xy := t.Mul(x, y)
	yz := t.Mul(y, z)
	zx := t.Mul(z, x)
	xyz := t.Mul(xy, z)
	ret := f.Const(v[0])
	ret = f.Add(ret, f.Mul(x, diff(v[1], v[0])))
	ret = f.Add(ret, f.Mul(y, diff(v[2], v[0])))
	ret = f.Add(ret, f.Mul(z, diff(v[4], v[0])))
	ret = f.Add(ret, f.Mul(xy, quad(v[0], v[3], v[1], v[2])))
	ret = f.Add(ret, f.Mul(zx, quad(v[0], v[5], v[1], v[4])))
	ret = f.Add(ret, f.Mul(yz, quad(v[0], v[6], v[2], v[4])))
	ret = f.Add(ret, f.Mul(xyz, octal(v[1], v[2], v[4], v[7], v[0], v[3], v[5], v[6])))
	return ret
}

// diff returns a - b.
func diff(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// quad returns a + d - b - c, the (v0+v3-v1-v2)-shaped coefficient used by
// the 2-bit and 3-bit lookup tables.
func quad(a, d, b, c *big.Int) *big.Int {
	r := new(big.Int).Add(a, d)
	r.Sub(r, b)
	r.Sub(r, c)
	return r
}

// octal returns a+b+c+d-e-f-g-h, the coefficient of the xyz term in the
// 3-bit lookup table.
func octal(a, b, c, d, e, f, g, h *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	r.Add(r, c)
	r.Add(r, d)
	r.Sub(r, e)
	r.Sub(r, f)
	r.Sub(r, g)
	r.Sub(r, h)
	return r
}

func affineAll(c *curve.Curve, ps []curve.Point) ([]curve.Point, error) {
	out := make([]curve.Point, len(ps))
	for i, p := range ps {
		a, err := c.Affine(p)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// Point1 selects between 2 points based on the boolean b0.
func Point1(c *curve.Curve, f *expr.Field, ps [2]curve.Point, b0 expr.Expr) (AffinePoint, error) {
	aps, err := affineAll(c, ps[:])
	if err != nil {
		return AffinePoint{}, err
	}
	x := Lookup1(f, [2]*big.Int{aps[0].X, aps[1].X}, b0)
	y := Lookup1(f, [2]*big.Int{aps[0].Y, aps[1].Y}, b0)
	return AffinePoint{X: x, Y: y}, nil
}

// Point2 selects between 4 points based on the booleans b0, b1.
func Point2(c *curve.Curve, f *expr.Field, t *transcript.Transcript, ps [4]curve.Point, b0, b1 expr.Expr) (AffinePoint, error) {
	aps, err := affineAll(c, ps[:])
	if err != nil {
		return AffinePoint{}, err
	}
	x := Lookup2(f, t, [4]*big.Int{aps[0].X, aps[1].X, aps[2].X, aps[3].X}, b0, b1)
	y := Lookup2(f, t, [4]*big.Int{aps[0].Y, aps[1].Y, aps[2].Y, aps[3].Y}, b0, b1)
	return AffinePoint{X: x, Y: y}, nil
}

// Point3 selects between 8 points based on the booleans b0, b1, b2.
func Point3(c *curve.Curve, f *expr.Field, t *transcript.Transcript, ps [8]curve.Point, b0, b1, b2 expr.Expr) (AffinePoint, error) {
	aps, err := affineAll(c, ps[:])
	if err != nil {
		return AffinePoint{}, err
	}
	xv, yv := [8]*big.Int{}, [8]*big.Int{}
	for i, a := range aps {
		xv[i], yv[i] = a.X, a.Y
	}
	x := Lookup3(f, t, xv, b0, b1, b2)
	y := Lookup3(f, t, yv, b0, b1, b2)
	return AffinePoint{X: x, Y: y}, nil
}

// OptionallyNegate flips the sign of p's Y coordinate when bn is 1.
func OptionallyNegate(f *expr.Field, t *transcript.Transcript, p AffinePoint, bn expr.Expr) AffinePoint {
	coeff := f.Sub(f.ConstInt64(1), f.Mul(bn, big.NewInt(2)))
	return AffinePoint{X: p.X, Y: t.Mul(coeff, p.Y)}
}

// ECAdd adds two affine points known (by the caller) not to be equal or
// each other's negation.
func ECAdd(f *expr.Field, t *transcript.Transcript, p1, p2 AffinePoint) (AffinePoint, error) {
	lam, err := t.Div(f.Sub(p2.Y, p1.Y), f.Sub(p2.X, p1.X))
	if err != nil {
		return AffinePoint{}, err
	}
	x := f.Sub(f.Sub(t.Mul(lam, lam), p1.X), p2.X)
	y := f.Sub(t.Mul(lam, f.Sub(p1.X, x)), p1.Y)
	return AffinePoint{X: x, Y: y}, nil
}

// ECAddX computes only the X coordinate of p1 + p2.
func ECAddX(f *expr.Field, t *transcript.Transcript, p1, p2 AffinePoint) (expr.Expr, error) {
	lam, err := t.Div(f.Sub(p2.Y, p1.Y), f.Sub(p2.X, p1.X))
	if err != nil {
		return expr.Expr{}, err
	}
	return f.Sub(f.Sub(t.Mul(lam, lam), p1.X), p2.X), nil
}

// ECMultiplyX computes the X coordinate of p times the scalar whose
// bit-decomposition (via prf.KeyToBits) is bits, using signed 3-bit windows.
func ECMultiplyX(c *curve.Curve, f *expr.Field, t *transcript.Transcript, p curve.Point, bits []expr.Expr) (expr.Expr, error) {
	n := len(bits)
	pPows := make([]curve.Point, 1, n)
	pPows[0] = p
	for i := 0; i < n-1; i++ {
		pPows = append(pPows, c.Double(pPows[len(pPows)-1]))
	}

	var lookups []AffinePoint
	for i := 0; i < (n-1)/3; i++ {
		p1 := pPows[i*3]
		p3 := c.Add(p1, pPows[i*3+1])
		p5 := c.Add(p3, pPows[i*3+1])
		p7 := c.Add(p5, pPows[i*3+1])
		sel, err := Point2(c, f, t, [4]curve.Point{p1, p3, p5, p7}, bits[i*3+1], bits[i*3+2])
		if err != nil {
			return expr.Expr{}, err
		}
		lookups = append(lookups, OptionallyNegate(f, t, sel, bits[i*3+3]))
	}

	switch n % 3 {
	case 0:
		pn := pPows[n-3]
		p3n := c.Add(pn, pPows[n-2])
		p5n := c.Add(p3n, pPows[n-2])
		p7n := c.Add(p5n, pPows[n-2])
		pn1 := c.Add(pn, pPows[0])
		p3n1 := c.Add(p3n, pPows[0])
		p5n1 := c.Add(p5n, pPows[0])
		p7n1 := c.Add(p7n, pPows[0])
		sel, err := Point3(c, f, t, [8]curve.Point{pn, pn1, p3n, p3n1, p5n, p5n1, p7n, p7n1}, bits[0], bits[n-2], bits[n-1])
		if err != nil {
			return expr.Expr{}, err
		}
		lookups = append(lookups, sel)
	case 1:
		pn := pPows[n-1]
		pn1 := c.Add(pn, pPows[0])
		sel, err := Point1(c, f, [2]curve.Point{pn, pn1}, bits[0])
		if err != nil {
			return expr.Expr{}, err
		}
		lookups = append(lookups, sel)
	default: // 2
		pn := pPows[n-2]
		p3n := c.Add(pn, pPows[n-1])
		pn1 := c.Add(pn, pPows[0])
		p3n1 := c.Add(p3n, pPows[0])
		sel, err := Point2(c, f, t, [4]curve.Point{pn, pn1, p3n, p3n1}, bits[0], bits[n-1])
		if err != nil {
			return expr.Expr{}, err
		}
		lookups = append(lookups, sel)
	}

	ret := lookups[0]
	var err error
	for i := 1; i < len(lookups)-1; i++ {
		ret, err = ECAdd(f, t, ret, lookups[i])
		if err != nil {
			return expr.Expr{}, err
		}
	}
	return ECAddX(f, t, ret, lookups[len(lookups)-1])
}
