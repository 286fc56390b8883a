package recognizer

import (
	"fmt"
	"math"
)

// Cap is a length policy: either a fixed count or a fraction of the current
// database size with a floor. It bounds how many images a single visual word
// may contribute during candidate gathering; words whose inverted file
// exceeds the resolved cap act like stopwords and are skipped.
type Cap struct {
	// Fraction of the total the cap resolves to. Negative means fixed.
	Fraction float64
	// Length is the fixed cap, or the floor when Fraction >= 0.
	Length int
}

// Fixed returns a cap of exactly n, regardless of database size.
func Fixed(n int) Cap {
	return Cap{Fraction: -1, Length: n}
}

// Relative returns a cap of fraction*total, but never less than min.
func Relative(fraction float64, min int) Cap {
	return Cap{Fraction: fraction, Length: min}
}

// Resolve computes the cap against the given total.
func (c Cap) Resolve(total int) int {
	if c.Fraction >= 0 {
		if v := int(math.Round(c.Fraction * float64(total))); v > c.Length {
			return v
		}
		return c.Length
	}

	return c.Length
}

func (c Cap) String() string {
	if c.Fraction >= 0 {
		return fmt.Sprintf("Cap(%.2f%% min=%d)", c.Fraction*100, c.Length)
	}
	return fmt.Sprintf("Cap(fixed=%d)", c.Length)
}
