package render

import (
	"math"
	"math/big"
	"strings"

	"github.com/okian/riskboard/internal/domain/model"
)

// exactPrec holds any float64 scaled by a small power of ten without loss.
const exactPrec = 2048

// ToFixed formats x with exactly digits fractional digits. The decimal is
// picked from the exact binary value of x and exact halves round away from
// zero, so 1.005 (stored as 1.00499...) gives "1.00" while 0.125 gives
// "0.13". Any negative input keeps its sign, even when it rounds to zero.
// Magnitudes of 1e21 and above fall back to the shortest representation.
func ToFixed(x float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 0), math.Abs(x) >= 1e21:
		return model.NumberString(x)
	}

	neg := x < 0
	scaled := new(big.Float).SetPrec(exactPrec).SetFloat64(math.Abs(x))
	pow := new(big.Float).SetPrec(exactPrec).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	scaled.Mul(scaled, pow)

	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(exactPrec).Sub(scaled, new(big.Float).SetPrec(exactPrec).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
