package prf

import (
	"fmt"
	"strings"

	"github.com/jonasnick/purify/crypto/expr"
	"github.com/jonasnick/purify/crypto/transcript"
)

// RenderPythonVerifier renders a self-contained Python verifier script
// ("def verify(pubkey, output, v): ...") asserting every constraint the
// transcript recorded, plus the public-key and output bindings. This is
// the `verifier` subcommand's default (no `--z3`/`--bulletproofs-outfile`)
// output format.
func RenderPythonVerifier(t *transcript.Transcript, p1x, p2x, out expr.Expr) string {
	var b strings.Builder
	fmt.Fprintln(&b, "def verify(pubkey, output, v):")
	fmt.Fprintf(&b, "    P = %s\n", P.String())
	fmt.Fprintf(&b, "    # %d multiplications\n", len(t.Muls()))
	for _, m := range t.Muls() {
		fmt.Fprintf(&b, "    assert((%s * %s - %s) %% P == 0)\n", m.L.String(), m.R.String(), m.O.String())
	}
	fmt.Fprintf(&b, "    # %d linear equations\n", len(t.Eqs()))
	for _, eq := range t.Eqs() {
		fmt.Fprintf(&b, "    assert((%s) %% P == 0)\n", eq.String())
	}
	fmt.Fprintln(&b, "    # Verify public key")
	fmt.Fprintf(&b, "    assert(%s %% P == pubkey %% P)\n", p1x.String())
	fmt.Fprintf(&b, "    assert(%s %% P == pubkey // P)\n", p2x.String())
	fmt.Fprintln(&b, "    # Verify output")
	fmt.Fprintf(&b, "    assert(output == %s %% P)\n", out.String())
	return b.String()
}

// RenderZ3Verifier renders a Python script that asks the Z3 theorem prover
// to find a satisfying wire assignment for the circuit without the secret
// key; Z3 finding one is evidence the circuit under-constrains the witness
// (testable property: soundness against a missing secret key).
func RenderZ3Verifier(t *transcript.Transcript, pubkey, p1x, p2x, out expr.Expr) string {
	lenV := len(t.VarMap())
	var b strings.Builder
	fmt.Fprintln(&b, "from z3 import *")
	fmt.Fprintln(&b, "s = Solver()")
	fmt.Fprintf(&b, "P = %s\n", P.String())
	fmt.Fprintf(&b, "v = IntVector('v', %d)\n", lenV)
	for i := 0; i < lenV; i++ {
		fmt.Fprintf(&b, "s.add(v[%d] >= 0, v[%d] < P)\n", i, i)
	}
	fmt.Fprintf(&b, "# %d multiplications\n", len(t.Muls()))
	for _, m := range t.Muls() {
		fmt.Fprintf(&b, "s.add((%s * %s - %s) %% P == 0)\n", m.L.String(), m.R.String(), m.O.String())
	}
	fmt.Fprintf(&b, "# %d linear equations\n", len(t.Eqs()))
	for _, eq := range t.Eqs() {
		fmt.Fprintf(&b, "s.add((%s) %% P == 0)\n", eq.String())
	}
	fmt.Fprintln(&b, "# Verify public key")
	fmt.Fprintf(&b, "s.add(%s %% P == %s %% P)\n", p1x.String(), pubkey.String())
	fmt.Fprintf(&b, "s.add(%s %% P == %s // P)\n", p2x.String(), pubkey.String())
	fmt.Fprintln(&b, `print("Checking...")`)
	fmt.Fprintln(&b, "s.check()")
	fmt.Fprintln(&b, "model = s.model()")
	fmt.Fprintln(&b, "for var in model:")
	fmt.Fprintln(&b, `    print(var, model[var])`)
	return b.String()
}

// RenderPythonProveCall renders the single `verify(pubkey, output, [...])`
// call line that feeds a witness vector into RenderPythonVerifier's script.
// This is the `prove` subcommand's default output format.
func RenderPythonProveCall(t *transcript.Transcript, pubkey, outNative string) string {
	n := len(t.VarMap())
	vals := make([]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("v[%d]", i)
		v := t.VarMap()[name]
		if v == nil {
			vals[i] = "None"
		} else {
			vals[i] = v.String()
		}
	}
	return fmt.Sprintf("verify(0x%s, 0x%s, [%s])", pubkey, outNative, strings.Join(vals, ","))
}
