// Package expr implements affine linear-combination algebra over GF(P): the
// symbolic expressions a Transcript's constraints are built from.
package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Term is a single variable summand factor*Var in an affine combination.
type Term struct {
	Var    string
	Factor *big.Int
}

// Expr is an affine combination Const + sum(factor_i * Var_i), held in
// canonical form: Linear sorted by Var name, ascending, with zero-factor
// terms dropped.
type Expr struct {
	Const  *big.Int
	Linear []Term
}

// Field is GF(P), the home of a family of Expr values. All Expr operations
// that need the modulus go through a *Field, mirroring curve.Curve's
// parameterized-struct shape instead of relying on a package-level modulus.
type Field struct {
	P *big.Int
}

// NewField returns the field GF(p).
func NewField(p *big.Int) *Field {
	return &Field{P: new(big.Int).Set(p)}
}

// Const returns the constant expression v mod P.
func (f *Field) Const(v *big.Int) Expr {
	return Expr{Const: new(big.Int).Mod(v, f.P)}
}

// ConstInt64 returns the constant expression v mod P.
func (f *Field) ConstInt64(v int64) Expr {
	return f.Const(big.NewInt(v))
}

// Var returns the expression consisting of a single variable with factor 1.
func (f *Field) Var(name string) Expr {
	return Expr{Const: big.NewInt(0), Linear: []Term{{Var: name, Factor: big.NewInt(1)}}}
}

// Add returns a + b, in canonical form.
func (f *Field) Add(a, b Expr) Expr {
	ret := Expr{Const: new(big.Int).Mod(new(big.Int).Add(a.Const, b.Const), f.P)}
	merged := make([]Term, 0, len(a.Linear)+len(b.Linear))
	merged = append(merged, a.Linear...)
	merged = append(merged, b.Linear...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Var < merged[j].Var })
	for _, t := range merged {
		n := len(ret.Linear)
		if n > 0 && ret.Linear[n-1].Var == t.Var {
			sum := new(big.Int).Mod(new(big.Int).Add(ret.Linear[n-1].Factor, t.Factor), f.P)
			ret.Linear[n-1].Factor = sum
		} else {
			ret.Linear = append(ret.Linear, Term{Var: t.Var, Factor: new(big.Int).Mod(t.Factor, f.P)})
		}
		if n := len(ret.Linear); n > 0 && ret.Linear[n-1].Factor.Sign() == 0 {
			ret.Linear = ret.Linear[:n-1]
		}
	}
	return ret
}

// Mul returns a scaled by the integer scalar.
func (f *Field) Mul(a Expr, scalar *big.Int) Expr {
	if new(big.Int).Mod(scalar, f.P).Sign() == 0 {
		return f.ConstInt64(0)
	}
	ret := Expr{Const: new(big.Int).Mod(new(big.Int).Mul(a.Const, scalar), f.P)}
	ret.Linear = make([]Term, len(a.Linear))
	for i, t := range a.Linear {
		ret.Linear[i] = Term{Var: t.Var, Factor: new(big.Int).Mod(new(big.Int).Mul(t.Factor, scalar), f.P)}
	}
	return ret
}

// Neg returns -a.
func (f *Field) Neg(a Expr) Expr {
	return f.Mul(a, big.NewInt(-1))
}

// Sub returns a - b.
func (f *Field) Sub(a, b Expr) Expr {
	return f.Add(a, f.Neg(b))
}

// String renders e in the canonical form used as a cache key: a single term
// on its own, or parenthesized "a + b + ..." otherwise.
func (e Expr) String() string {
	var terms []string
	if e.Const.Sign() != 0 || len(e.Linear) == 0 {
		terms = append(terms, e.Const.String())
	}
	for _, t := range e.Linear {
		if t.Factor.Cmp(big.NewInt(1)) == 0 {
			terms = append(terms, t.Var)
		} else {
			terms = append(terms, fmt.Sprintf("%s * %s", t.Factor.String(), t.Var))
		}
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return "(" + strings.Join(terms, " + ") + ")"
}

// Evaluate substitutes known values for variables from m, returning nil if
// any referenced variable is unknown or unset.
func (f *Field) Evaluate(e Expr, m map[string]*big.Int) *big.Int {
	ret := new(big.Int).Set(e.Const)
	for _, t := range e.Linear {
		v, ok := m[t.Var]
		if !ok || v == nil {
			return nil
		}
		ret.Add(ret, new(big.Int).Mul(v, t.Factor))
	}
	return ret.Mod(ret, f.P)
}

// Split separates e into its constant part and its purely linear part, such
// that Add(const, linear) == e.
func (e Expr) Split() (constPart, linearPart Expr) {
	constPart = Expr{Const: new(big.Int).Set(e.Const)}
	linearPart = Expr{Const: big.NewInt(0), Linear: e.Linear}
	return
}

// Clone returns a deep copy of e, safe to mutate (e.g. via in-place wire
// substitution) without affecting any other Expr sharing e's backing arrays.
func (e Expr) Clone() Expr {
	ret := Expr{Const: new(big.Int).Set(e.Const), Linear: make([]Term, len(e.Linear))}
	for i, t := range e.Linear {
		ret.Linear[i] = Term{Var: t.Var, Factor: new(big.Int).Set(t.Factor)}
	}
	return ret
}
