package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/jonasnick/purify/crypto/hashtocurve"
	"github.com/jonasnick/purify/crypto/prf"
)

var evalCmd = &cobra.Command{
	Use:   "eval <hexmsg> <seckey>",
	Short: "evaluate the PRF",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := prf.Default

		msg, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("eval: invalid hexmsg: %w", err)
		}
		z, ok := new(big.Int).SetString(args[1], 16)
		if !ok {
			return fmt.Errorf("eval: invalid hex seckey %q", args[1])
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
		q1, err := params.E1.Affine(params.E1.Mul(m1, z1))
		if err != nil {
			return wrapInternal(err)
		}
		q2, err := params.E2.Affine(params.E2.Mul(m2, z2))
		if err != nil {
			return wrapInternal(err)
		}
		out := params.Combine(q1.X, q2.X)

		fmt.Fprintf(cmd.OutOrStdout(), "eval: %x\n", out)
		return nil
	},
}
