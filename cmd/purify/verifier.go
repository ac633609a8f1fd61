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
)

var (
	verifierZ3               bool
	verifierBulletproofsFile string
)

var verifierCmd = &cobra.Command{
	Use:   "verifier <hexmsg> <pubkey>",
	Short: "output verifier circuit for a given message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifierZ3 && verifierBulletproofsFile != "" {
			return fmt.Errorf("verifier: --z3 and --bulletproofs-outfile are mutually exclusive")
		}

		params := prf.Default

		msg, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("verifier: invalid hexmsg: %w", err)
		}
		pubkey, ok := new(big.Int).SetString(args[1], 16)
		if !ok {
			return fmt.Errorf("verifier: invalid hex pubkey %q", args[1])
		}

		m1, err := hashtocurve.HashToCurve(append([]byte("Eval/1/"), msg...), params.E1)
		if err != nil {
			return wrapInternal(err)
		}
		m2, err := hashtocurve.HashToCurve(append([]byte("Eval/2/"), msg...), params.E2)
		if err != nil {
			return wrapInternal(err)
		}

		tr := transcript.New(params.Field)
		circ, err := params.CircuitMain(tr, m1, m2, nil, nil)
		if err != nil {
			return wrapInternal(err)
		}

		switch {
		case verifierZ3:
			fmt.Fprint(cmd.OutOrStdout(), prf.RenderZ3Verifier(tr, params.Field.Const(pubkey), circ.P1x, circ.P2x, circ.Out))
		case verifierBulletproofsFile != "":
			bt := bulletproof.New(params.Field, tr, circ.NBits)
			bt.AddPubkeyAndOut(pubkey, circ.P1x, circ.P2x, circ.Out)
			f, err := os.Create(verifierBulletproofsFile)
			if err != nil {
				return wrapInternal(err)
			}
			defer f.Close()
			if err := bt.WriteCircuit(f); err != nil {
				return wrapInternal(err)
			}
		default:
			fmt.Fprint(cmd.OutOrStdout(), prf.RenderPythonVerifier(tr, circ.P1x, circ.P2x, circ.Out))
		}
		return nil
	},
}

func init() {
	verifierCmd.Flags().BoolVarP(&verifierZ3, "z3", "z", false, "emit a Z3 solver script instead")
	verifierCmd.Flags().StringVarP(&verifierBulletproofsFile, "bulletproofs-outfile", "b", "", "write a Bulletproofs circuit file instead")
	verifierCmd.MarkFlagsMutuallyExclusive("z3", "bulletproofs-outfile")
}
