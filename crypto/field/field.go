// Package field implements the modular arithmetic primitives the PRF and its
// circuit gadgets are built on: modular inversion, Legendre symbols and
// Tonelli-Shanks square roots. These are thin wraps of the equivalent
// math/big methods, the same way crypto/oprf/hasher/secp256k1.go calls
// ModInverse/Jacobi/ModSqrt directly rather than reimplementing them.
package field

import (
	"errors"
	"math/big"
)

var (
	// ErrNotInvertible is returned when a value has no inverse modulo m.
	ErrNotInvertible = errors.New("field: value is not invertible modulo m")
	// ErrNoSquareRoot is returned when a has no square root modulo p.
	ErrNoSquareRoot = errors.New("field: value is not a quadratic residue")
)

// ModInverse returns the inverse of a modulo m.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// LegendreSymbol returns the Legendre symbol (a/p) for an odd prime p: 1 if a
// is a nonzero quadratic residue, -1 if it is a non-residue, 0 if a == 0 mod p.
func LegendreSymbol(a, p *big.Int) int {
	return big.Jacobi(a, p)
}

// ModSqrt solves x^2 = a mod p, for odd prime p.
func ModSqrt(a, p *big.Int) (*big.Int, error) {
	root := new(big.Int).ModSqrt(a, p)
	if root == nil {
		return nil, ErrNoSquareRoot
	}
	return root, nil
}
