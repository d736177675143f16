// Package roulette implements the multi-bet roulette round: a user
// accumulates up to 16 bets against a virtual balance mirror, spins once,
// and the round settles against the ledger with a single net delta.
package roulette

// Color of a wheel pocket.
type Color int

const (
	// Green is the zero pocket.
	Green Color = iota
	// Red pockets.
	Red
	// Black pockets.
	Black
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "green"
	}
}

// Emoji returns the color marker used in renders and history logs.
func (c Color) Emoji() string {
	switch c {
	case Red:
		return "🔴"
	case Black:
		return "⚫"
	default:
		return "🟢"
	}
}

// redNumbers are the red pockets of a European wheel.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns the pocket color for a number in [0,36].
// Zero is green and counts as neither red, black, even nor odd.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

// column pockets, numbered as on the table layout.
var (
	column1 = []int{3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36}
	column2 = []int{2, 5, 8, 11, 14, 17, 20, 23, 26, 29, 32, 35}
	column3 = []int{1, 4, 7, 10, 13, 16, 19, 22, 25, 28, 31, 34}
)

func colorNumbers(c Color) []int {
	out := make([]int, 0, 18)
	for n := 1; n <= 36; n++ {
		if ColorOf(n) == c {
			out = append(out, n)
		}
	}
	return out
}

func parityNumbers(odd bool) []int {
	out := make([]int, 0, 18)
	start := 2
	if odd {
		start = 1
	}
	for n := start; n <= 36; n += 2 {
		out = append(out, n)
	}
	return out
}

func spanNumbers(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}
