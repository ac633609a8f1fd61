package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/jonasnick/purify/crypto/prf"
)

var genSeckeyHex string

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "generate a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := prf.Default

		var z *big.Int
		if genSeckeyHex == "" {
			half1 := new(big.Int).Rsh(new(big.Int).Sub(prf.N1, big.NewInt(1)), 1)
			half2 := new(big.Int).Rsh(new(big.Int).Sub(prf.N2, big.NewInt(1)), 1)
			limit := new(big.Int).Mul(half1, half2)
			v, err := rand.Int(rand.Reader, limit)
			if err != nil {
				return wrapInternal(err)
			}
			z = v
		} else {
			v, ok := new(big.Int).SetString(genSeckeyHex, 16)
			if !ok {
				return fmt.Errorf("gen: invalid hex seckey %q", genSeckeyHex)
			}
			z = v
		}

		z1, z2 := prf.UnpackSecret(z)
		p1, err := params.E1.Affine(params.E1.Mul(params.G1, z1))
		if err != nil {
			return wrapInternal(err)
		}
		p2, err := params.E2.Affine(params.E2.Mul(params.G2, z2))
		if err != nil {
			return wrapInternal(err)
		}
		pubkey := prf.PackPublic(p1.X, p2.X)

		fmt.Fprintf(cmd.OutOrStdout(), "z=%x # private key\n", z)
		fmt.Fprintf(cmd.OutOrStdout(), "x=%x # public key\n", pubkey)
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genSeckeyHex, "seckey", "", "use this hex-encoded secret key instead of generating one")
}
