// Package hashtocurve derives uniform integers and curve points from
// arbitrary byte strings using HKDF-SHA256 driven rejection sampling, in the
// style of crypto/oprf/hasher's Shallue-van de Woestijne rejection loop but
// replacing its iterated blake2b hash with RFC 5869 HKDF.
package hashtocurve

import (
	"crypto/sha256"
	"errors"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/jonasnick/purify/crypto/curve"
)

// ErrExceedMaxRetry is returned when rejection sampling fails to find a
// suitable value within the fixed retry budget.
var ErrExceedMaxRetry = errors.New("hashtocurve: exceeded max retry count")

// maxRetry mirrors the original's 256 rounds of rejection sampling, one byte
// of domain-separating counter per round.
const maxRetry = 256

var (
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// expand runs HKDF-Expand (with HKDF-Extract over salt) producing length
// pseudorandom bytes derived from ikm, salt and info.
func expand(ikm, salt, info []byte, length int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// HashToInt derives a uniform integer in [0, rng) from data, domain-separated
// by info, using HKDF-driven rejection sampling.
func HashToInt(data []byte, rng *big.Int, info []byte) (*big.Int, error) {
	bits := rng.BitLen()
	mask := new(big.Int).Sub(new(big.Int).Lsh(big1, uint(bits)), big1)
	nbytes := (bits + 7) / 8
	for i := 0; i < maxRetry; i++ {
		salt := []byte{byte(i)}
		buf, err := expand(data, salt, info, nbytes)
		if err != nil {
			return nil, err
		}
		v := new(big.Int).SetBytes(buf)
		v.And(v, mask)
		if v.Cmp(rng) < 0 {
			return v, nil
		}
	}
	return nil, ErrExceedMaxRetry
}

// HashToCurve derives a uniform point on c from data, using rejection
// sampling over lift-able x-coordinates (x = v/2, sign from v's low bit).
func HashToCurve(data []byte, c *curve.Curve) (curve.Point, error) {
	rng := new(big.Int).Mul(big2, c.P)
	for i := 0; i < maxRetry; i++ {
		info := []byte{byte(i)}
		v, err := HashToInt(data, rng, info)
		if err != nil {
			return curve.Point{}, err
		}
		x := new(big.Int).Rsh(v, 1)
		if c.IsXCoord(x) {
			p, err := c.LiftX(x)
			if err != nil {
				return curve.Point{}, err
			}
			if v.Bit(0) == 1 {
				p = c.Negate(p)
			}
			return p, nil
		}
	}
	return curve.Point{}, ErrExceedMaxRetry
}
