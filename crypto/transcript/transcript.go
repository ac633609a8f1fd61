// Package transcript records the multiplication, division, boolean and
// equality constraints that make up an arithmetic circuit, caching
// duplicate sub-expressions by their canonical string form so the same
// gadget invoked twice on the same inputs produces a single constraint.
package transcript

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/jonasnick/purify/crypto/expr"
)

var (
	// ErrDivisionByZero is returned by Div when the divisor is known to evaluate to zero.
	ErrDivisionByZero = errors.New("transcript: division by zero")
	// ErrNonBooleanWitness is returned by Boolean when the witness value is neither 0 nor 1.
	ErrNonBooleanWitness = errors.New("transcript: boolean constraint on non-boolean witness")
	// ErrEqualityMismatch is returned by Equal when the two expressions disagree on a known witness.
	ErrEqualityMismatch = errors.New("transcript: equality constraint violated by witness")
)

// Mul is a recorded multiplication constraint L * R == O.
type Mul struct {
	L, R, O expr.Expr
}

// Transcript accumulates the constraint system for one circuit.
type Transcript struct {
	field *expr.Field

	varnames []string
	varmap   map[string]*big.Int

	muls      []Mul
	mulCache  map[string]expr.Expr
	divCache  map[string]expr.Expr
	boolCache map[string]bool

	eqs []expr.Expr
}

// New returns an empty transcript over the given field.
func New(f *expr.Field) *Transcript {
	return &Transcript{
		field:     f,
		varmap:    map[string]*big.Int{},
		mulCache:  map[string]expr.Expr{},
		divCache:  map[string]expr.Expr{},
		boolCache: map[string]bool{},
	}
}

// Field returns the field this transcript's expressions are drawn from.
func (t *Transcript) Field() *expr.Field { return t.field }

// Muls returns the recorded multiplication constraints, in order.
func (t *Transcript) Muls() []Mul { return t.muls }

// Eqs returns the recorded equality constraints (each meant to equal zero).
func (t *Transcript) Eqs() []expr.Expr { return t.eqs }

// VarMap returns the witness values assigned so far, keyed by "v[i]" name.
func (t *Transcript) VarMap() map[string]*big.Int { return t.varmap }

// Secret allocates a fresh witness variable with value v (nil if unknown)
// and returns the expression referring to it.
func (t *Transcript) Secret(v *big.Int) expr.Expr {
	name := fmt.Sprintf("v[%d]", len(t.varnames))
	t.varnames = append(t.varnames, name)
	t.varmap[name] = v
	return t.field.Var(name)
}

// Mul records (or returns the cached) witness variable equal to e1*e2.
func (t *Transcript) Mul(e1, e2 expr.Expr) expr.Expr {
	s1, s2 := e1.String(), e2.String()
	if cached, ok := t.mulCache[s1+"\x00"+s2]; ok {
		return cached
	}
	if cached, ok := t.mulCache[s2+"\x00"+s1]; ok {
		return cached
	}
	v1 := t.field.Evaluate(e1, t.varmap)
	v2 := t.field.Evaluate(e2, t.varmap)
	var val *big.Int
	if v1 != nil && v2 != nil {
		val = new(big.Int).Mod(new(big.Int).Mul(v1, v2), t.field.P)
	}
	ret := t.Secret(val)
	t.mulCache[s1+"\x00"+s2] = ret
	t.muls = append(t.muls, Mul{L: e1, R: e2, O: ret})
	return ret
}

// Div records (or returns the cached) witness variable equal to e1/e2,
// encoded as the multiplication constraint ret*e2 == e1.
func (t *Transcript) Div(e1, e2 expr.Expr) (expr.Expr, error) {
	s1, s2 := e1.String(), e2.String()
	key := s1 + "\x00" + s2
	if cached, ok := t.divCache[key]; ok {
		return cached, nil
	}
	v1 := t.field.Evaluate(e1, t.varmap)
	v2 := t.field.Evaluate(e2, t.varmap)
	if v2 != nil && v2.Sign() == 0 {
		return expr.Expr{}, ErrDivisionByZero
	}
	var val *big.Int
	if v1 != nil && v2 != nil {
		inv := new(big.Int).ModInverse(v2, t.field.P)
		val = new(big.Int).Mod(new(big.Int).Mul(v1, inv), t.field.P)
	}
	ret := t.Secret(val)
	t.divCache[key] = ret
	t.muls = append(t.muls, Mul{L: ret, R: e2, O: e1})
	return ret, nil
}

// Boolean constrains e to be 0 or 1 and returns e unchanged.
func (t *Transcript) Boolean(e expr.Expr) (expr.Expr, error) {
	s := e.String()
	if t.boolCache[s] {
		return e, nil
	}
	v := t.field.Evaluate(e, t.varmap)
	if v != nil && v.Sign() != 0 && v.Cmp(big.NewInt(1)) != 0 {
		return expr.Expr{}, ErrNonBooleanWitness
	}
	t.boolCache[s] = true
	t.muls = append(t.muls, Mul{L: e, R: t.field.Sub(e, t.field.ConstInt64(1)), O: t.field.ConstInt64(0)})
	return e, nil
}

// Equal records that e1 == e2 must hold, checking any known witnesses now.
func (t *Transcript) Equal(e1, e2 expr.Expr) error {
	eq := t.field.Sub(e1, e2)
	v := t.field.Evaluate(eq, t.varmap)
	if v != nil && v.Sign() != 0 {
		return ErrEqualityMismatch
	}
	t.eqs = append(t.eqs, eq)
	return nil
}

// Evaluate returns e's value under the current witness assignment, or nil
// if any referenced variable is unknown.
func (t *Transcript) Evaluate(e expr.Expr) *big.Int {
	return t.field.Evaluate(e, t.varmap)
}
