// Package bulletproof rewrites a crypto/transcript.Transcript into the wire
// layout a libsecp256k1-zkp-compatible Bulletproofs circuit expects: L/R/O
// multiplication wires plus a single pedersen-committed V0 wire, and
// serializes both the circuit and a satisfying assignment in the expected
// little-endian binary format. Modeled, in package shape, on
// crypto/proofofreserve/bulletproof's PublicParameter/Prover split, though
// the wire format itself is specific to this PRF's rank-1 constraints.
package bulletproof

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/transcript"
)

// ErrVerifyFailure is returned by Evaluate's caller contract when a
// generated assignment does not satisfy the rewritten circuit.
var ErrVerifyFailure = errors.New("bulletproof: assignment failed to satisfy circuit")

// version is the on-disk format version written into circuit/assignment files.
const version = 1

// Assignment names a wire by its rewritten name ("L3", "R0", ...) and gives
// the expression (in terms of other wires) it is assigned from.
type Assignment struct {
	Name string
	Expr expr.Expr
}

// Constraint is a rank-1 linear constraint LHS == RHS, where RHS carries
// only the constant part after Transcript's rewrite.
type Constraint struct {
	LHS, RHS expr.Expr
}

// Transcript is the Bulletproofs-rewritten form of a transcript.Transcript:
// every "v[i]" wire is aliased to an "L"/"R"/"O" wire wherever the
// transcript's own multiplication constraints allow it, and whatever can't
// be aliased becomes an explicit linear constraint.
type Transcript struct {
	field *expr.Field

	NBits        int
	NMuls        int
	NCommitments int

	Assignments       []Assignment
	LinearAssignments []Assignment
	BitConstraints    []Constraint
	Constraints       []Constraint

	vToA map[string]string
}

// New rewrites t (which must already hold nBits boolean constraints, as
// produced by prf.CircuitMain) into Bulletproofs wire form. libsecp256k1-zkp
// requires a power-of-two multiplication count; muls are padded with
// zero-constraints up to the next power of two.
func New(f *expr.Field, t *transcript.Transcript, nBits int) *Transcript {
	muls := t.Muls()
	nMuls := 1
	if len(muls) > 0 {
		nMuls = 1 << int(math.Ceil(math.Log2(float64(len(muls)))))
	}

	bt := &Transcript{
		field:        f,
		NBits:        nBits,
		NMuls:        nMuls,
		NCommitments: 1,
		vToA:         map[string]string{},
	}

	for i, m := range muls {
		bt.addMul("L", i, m.L.Clone())
		bt.addMul("R", i, m.R.Clone())
		bt.addMul("O", i, m.O.Clone())
	}
	for i := len(muls); i < nMuls; i++ {
		zero := f.ConstInt64(0)
		bt.addMul("L", i, zero)
		bt.addMul("R", i, zero)
		bt.addMul("O", i, zero)
	}

	return bt
}

// replaceVWithWire substitutes every "v[i]" linear term in e with its
// aliased Bulletproofs wire name, in place.
func (bt *Transcript) replaceVWithWire(e *expr.Expr) {
	for i, term := range e.Linear {
		if wire, ok := bt.vToA[term.Var]; ok {
			e.Linear[i].Var = wire
		}
	}
}

// replaceAndInsert rewrites e's "v[i]" references to wires, and reports
// whether e is a simple "wire := v[i]" assignment — in which case s becomes
// that v[i]'s alias instead of a fresh constraint.
func (bt *Transcript) replaceAndInsert(e *expr.Expr, s string) bool {
	if len(e.Linear) < 1 {
		return false
	}
	bt.replaceVWithWire(e)
	if e.Const.Sign() == 0 && len(e.Linear) == 1 && e.Linear[0].Factor.Cmp(big.NewInt(1)) == 0 {
		name := e.Linear[0].Var
		if _, aliased := bt.vToA[name]; !aliased {
			if len(name) >= 2 && name[:2] == "v[" {
				bt.vToA[name] = s
				return true
			}
		}
	}
	return false
}

func (bt *Transcript) addMul(side string, i int, e expr.Expr) {
	varname := fmt.Sprintf("%s%d", side, i)
	if bt.replaceAndInsert(&e, varname) {
		bt.Assignments = append(bt.Assignments, Assignment{Name: varname, Expr: e})
		return
	}
	c, l := e.Split()
	bt.LinearAssignments = append(bt.LinearAssignments, Assignment{Name: varname, Expr: e})
	lhs := bt.field.Sub(bt.field.Var(varname), l)
	if len(bt.BitConstraints) < 2*bt.NBits {
		bt.BitConstraints = append(bt.BitConstraints, Constraint{LHS: lhs, RHS: c})
	} else {
		bt.Constraints = append(bt.Constraints, Constraint{LHS: lhs, RHS: c})
	}
}

// AddPubkeyAndOut binds the packed public key's two halves (against P1x,
// P2x) and the PRF output (against the single commitment wire V0).
func (bt *Transcript) AddPubkeyAndOut(pubkey *big.Int, p1x, p2x, out expr.Expr) {
	bind := func(pk *big.Int, px expr.Expr) {
		px = px.Clone()
		bt.replaceVWithWire(&px)
		c, l := px.Split()
		bt.Constraints = append(bt.Constraints, Constraint{LHS: l, RHS: bt.field.Sub(bt.field.Const(pk), c)})
	}
	x1, x2 := new(big.Int).Mod(pubkey, bt.field.P), new(big.Int).Div(pubkey, bt.field.P)
	bind(x1, p1x)
	bind(x2, p2x)

	out = out.Clone()
	bt.replaceVWithWire(&out)
	bt.Constraints = append(bt.Constraints, Constraint{LHS: bt.field.Sub(out, bt.field.Var("V0")), RHS: bt.field.ConstInt64(0)})
}

// PlaintextCircuit renders the rewritten circuit in a human-readable
// "n_muls,n_commitments,n_bits,n_constraints;lhs = rhs;..." form, useful for
// debugging and tests; it is not wired to a CLI flag (the original tool
// never exposed one for it either).
func (bt *Transcript) PlaintextCircuit() string {
	s := fmt.Sprintf("%d,%d,%d,%d;", bt.NMuls, bt.NCommitments, bt.NBits, len(bt.Constraints))
	for _, c := range bt.Constraints {
		s += fmt.Sprintf("%s = %s;", stripParens(c.LHS.String()), stripParens(c.RHS.String()))
	}
	return s
}

func stripParens(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != '(' && r != ')' {
			out = append(out, r)
		}
	}
	return string(out)
}

func encodingWidth(n int) int {
	switch {
	case n < 0x100:
		return 1
	case n < 0x10000:
		return 2
	case n < 0x100000000:
		return 4
	default:
		return 8
	}
}

func writeLEUint(w io.Writer, v uint64, width int) error {
	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, err := w.Write(buf)
	return err
}

func writeLEBig(w io.Writer, v *big.Int, width int) error {
	buf := make([]byte, width)
	b := v.Bytes() // big-endian
	for i := 0; i < len(b) && i < width; i++ {
		buf[i] = b[len(b)-1-i]
	}
	_, err := w.Write(buf)
	return err
}

type wireEntry struct {
	constraintIdx int
	factor        *big.Int
}

// WriteCircuit serializes the rewritten circuit in the exact little-endian
// binary layout libsecp256k1-zkp's Bulletproofs circuit parser expects:
// header, then one row per L/R/O/V wire (each row's entries referencing the
// constraints that wire appears in), then each constraint's constant term.
func (bt *Transcript) WriteCircuit(w io.Writer) error {
	if err := writeLEUint(w, version, 4); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(bt.NCommitments), 4); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(bt.NMuls), 8); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(bt.NBits), 8); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(len(bt.Constraints)), 8); err != nil {
		return err
	}

	rowWidth := encodingWidth(bt.NMuls)
	wl := make([][]wireEntry, bt.NMuls)
	wr := make([][]wireEntry, bt.NMuls)
	wo := make([][]wireEntry, bt.NMuls)
	wv := make([][]wireEntry, bt.NCommitments)

	addEntry := func(rows [][]wireEntry, varName string, constraintIdx int, factor *big.Int) {
		idx := 0
		fmt.Sscanf(varName[1:], "%d", &idx)
		rows[idx] = append(rows[idx], wireEntry{constraintIdx: constraintIdx, factor: factor})
	}

	for i, c := range bt.Constraints {
		for _, term := range c.LHS.Linear {
			switch term.Var[0] {
			case 'L':
				addEntry(wl, term.Var, i, term.Factor)
			case 'R':
				addEntry(wr, term.Var, i, term.Factor)
			case 'O':
				addEntry(wo, term.Var, i, term.Factor)
			case 'V':
				addEntry(wv, term.Var, i, term.Factor)
			}
		}
	}

	allRows := append(append(append(append([][]wireEntry{}, wl...), wr...), wo...), wv...)
	for _, row := range allRows {
		if err := writeLEUint(w, uint64(len(row)), rowWidth); err != nil {
			return err
		}
		for _, entry := range row {
			if err := writeLEUint(w, uint64(entry.constraintIdx), rowWidth); err != nil {
				return err
			}
			if _, err := w.Write([]byte{0x20}); err != nil {
				return err
			}
			if err := writeLEBig(w, entry.factor, 32); err != nil {
				return err
			}
		}
	}

	for _, c := range bt.Constraints {
		if _, err := w.Write([]byte{0x20}); err != nil {
			return err
		}
		if err := writeLEBig(w, c.RHS.Const, 32); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate fills in m (the transcript's variable map, which this mutates
// with the derived wire values) with V0 = commitment and checks every
// multiplication and linear constraint holds.
func (bt *Transcript) Evaluate(m map[string]*big.Int, commitment *big.Int) bool {
	m["V0"] = commitment
	for v, a := range bt.vToA {
		m[a] = m[v]
	}
	for _, a := range bt.Assignments {
		m[a.Name] = bt.field.Evaluate(a.Expr, m)
	}
	for _, a := range bt.LinearAssignments {
		m[a.Name] = bt.field.Evaluate(a.Expr, m)
	}
	for i := 0; i < bt.NMuls; i++ {
		l, r, o := m[fmt.Sprintf("L%d", i)], m[fmt.Sprintf("R%d", i)], m[fmt.Sprintf("O%d", i)]
		if l == nil || r == nil || o == nil {
			return false
		}
		prod := new(big.Int).Mod(new(big.Int).Mul(l, r), bt.field.P)
		if prod.Cmp(o) != 0 {
			return false
		}
	}
	all := append(append([]Constraint{}, bt.Constraints...), bt.BitConstraints...)
	for _, c := range all {
		lv := bt.field.Evaluate(c.LHS, m)
		rv := bt.field.Evaluate(c.RHS, m)
		if lv == nil || rv == nil || lv.Cmp(rv) != 0 {
			return false
		}
	}
	return true
}

// WriteAssignment serializes a satisfying assignment m (populated by a
// prior call to Evaluate) in the little-endian binary format the
// Bulletproofs prover expects: header, then all L, R, O wire values, then
// the single V0 commitment.
func (bt *Transcript) WriteAssignment(m map[string]*big.Int, w io.Writer) error {
	if err := writeLEUint(w, version, 4); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(bt.NCommitments), 4); err != nil {
		return err
	}
	if err := writeLEUint(w, uint64(bt.NMuls), 8); err != nil {
		return err
	}
	writeWire := func(prefix string) error {
		for i := 0; i < bt.NMuls; i++ {
			if _, err := w.Write([]byte{0x20}); err != nil {
				return err
			}
			v := m[fmt.Sprintf("%s%d", prefix, i)]
			if v == nil {
				return fmt.Errorf("bulletproof: missing witness for wire %s%d", prefix, i)
			}
			if err := writeLEBig(w, v, 32); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeWire("L"); err != nil {
		return err
	}
	if err := writeWire("R"); err != nil {
		return err
	}
	if err := writeWire("O"); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0x20}); err != nil {
		return err
	}
	return writeLEBig(w, m["V0"], 32)
}
