package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonasnick/purify/crypto/bulletproof"
	"github.com/jonasnick/purify/crypto/hashtocurve"
	"github.com/jonasnick/purify/crypto/prf"
	"github.com/jonasnick/purify/crypto/transcript"
	"github.com/jonasnick/purify/internal/logger"
)

var proveBulletproofsFile string

var proveCmd = &cobra.Command{
	Use:   "prove <hexmsg> <seckey>",
	Short: "produce input for verifier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := prf.Default

		msg, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("prove: invalid hexmsg: %w", err)
		}
		z, ok := new(big.Int).SetString(args[1], 16)
		if !ok {
			return fmt.Errorf("prove: invalid hex seckey %q", args[1])
		}
		z1, z2 := prf.UnpackSecret(z)

		m1, err := hashtocurve.HashToCurve(append([]byte("Eval/1/"), msg...), params.E1)
		if err != nil {
			return wrapInternal(err)
		}
		m2, err := hashtocurve.HashToCurve(append([]byte("Eval/2/"), msg...), params.E2)
		if err != nil {
			return wrapInternal(err)
		}

		p1, err := params.E1.Affine(params.E1.Mul(params.G1, z1))
		if err != nil {
			return wrapInternal(err)
		}
		p2, err := params.E2.Affine(params.E2.Mul(params.G2, z2))
		if err != nil {
			return wrapInternal(err)
		}
		q1, err := params.E1.Affine(params.E1.Mul(m1, z1))
		if err != nil {
			return wrapInternal(err)
		}
		q2, err := params.E2.Affine(params.E2.Mul(m2, z2))
		if err != nil {
			return wrapInternal(err)
		}
		outNative := params.Combine(q1.X, q2.X)

		tr := transcript.New(params.Field)
		circ, err := params.CircuitMain(tr, m1, m2, z1, z2)
		if err != nil {
			return wrapInternal(err)
		}
		if tr.Evaluate(circ.P1x).Cmp(p1.X) != 0 || tr.Evaluate(circ.P2x).Cmp(p2.X) != 0 || tr.Evaluate(circ.Out).Cmp(outNative) != 0 {
			logger.Logger().Error("circuit witness disagrees with native PRF evaluation")
			return wrapInternal(fmt.Errorf("prove: internal inconsistency between circuit and native evaluation"))
		}
		pubkey := prf.PackPublic(p1.X, p2.X)

		if proveBulletproofsFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), prf.RenderPythonProveCall(tr, pubkey.Text(16), outNative.Text(16)))
			return nil
		}

		bt := bulletproof.New(params.Field, tr, circ.NBits)
		bt.AddPubkeyAndOut(pubkey, circ.P1x, circ.P2x, circ.Out)
		m := map[string]*big.Int{}
		for k, v := range tr.VarMap() {
			m[k] = v
		}
		if !bt.Evaluate(m, outNative) {
			return wrapInternal(bulletproof.ErrVerifyFailure)
		}
		f, err := os.Create(proveBulletproofsFile)
		if err != nil {
			return wrapInternal(err)
		}
		defer f.Close()
		return wrapInternal(bt.WriteAssignment(m, f))
	},
}

func init() {
	proveCmd.Flags().StringVarP(&proveBulletproofsFile, "bulletproofs-outfile", "b", "", "write a Bulletproofs assignment file instead")
}
