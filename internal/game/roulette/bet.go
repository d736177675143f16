package roulette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnrecognizedBet is returned when a bet specifier matches no grammar rule.
var ErrUnrecognizedBet = errors.New("unrecognized bet type")

// Kind tags a parsed bet.
type Kind string

// Bet kinds.
const (
	KindSingle  Kind = "single"
	KindRange   Kind = "range"
	KindSplit   Kind = "split"
	KindRed     Kind = "red"
	KindBlack   Kind = "black"
	KindOdd     Kind = "odd"
	KindEven    Kind = "even"
	KindLow     Kind = "low"
	KindHigh    Kind = "high"
	KindDozen1  Kind = "dozen1"
	KindDozen2  Kind = "dozen2"
	KindDozen3  Kind = "dozen3"
	KindColumn1 Kind = "column1"
	KindColumn2 Kind = "column2"
	KindColumn3 Kind = "column3"
)

// Bet is one wager inside a round. Every kind normalizes to a concrete set
// of covered numbers, so winning is always a membership test and the payout
// is always amount*36/|covered|.
type Bet struct {
	Kind    Kind
	Name    string
	Numbers []int
	Amount  int64

	covered map[int]bool
}

func newBet(kind Kind, name string, numbers []int, amount int64) *Bet {
	covered := make(map[int]bool, len(numbers))
	uniq := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if !covered[n] {
			covered[n] = true
			uniq = append(uniq, n)
		}
	}
	return &Bet{Kind: kind, Name: name, Numbers: uniq, Amount: amount, covered: covered}
}

// Covers reports whether the drawn number makes this bet a winner.
func (b *Bet) Covers(n int) bool {
	return b.covered[n]
}

// Multiplier returns the payout multiplier for display.
func (b *Bet) Multiplier() float64 {
	return 36 / float64(len(b.Numbers))
}

// Payout returns the gross payout if this bet wins, truncated toward zero.
func (b *Bet) Payout() int64 {
	return b.Amount * 36 / int64(len(b.Numbers))
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func isAnyOf(s string, words ...string) bool {
	for _, w := range words {
		if s == w {
			return true
		}
	}
	return false
}

// Parse parses a bet specifier into a Bet. The grammar is case-insensitive
// and accepts both Russian and English synonyms, matching the commands the
// players actually type.
func Parse(spec string, amount int64) (*Bet, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return nil, ErrUnrecognizedBet
	}

	// Single number: 0..36.
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 36 {
			return nil, ErrUnrecognizedBet
		}
		return newBet(KindSingle, fmt.Sprintf("число %d", n), []int{n}, amount), nil
	}

	// Range A-B, including the named spans (halves and dozens).
	if strings.Count(s, "-") == 1 && !strings.ContainsAny(s, ", ") {
		if bet := parseRange(s, amount); bet != nil {
			return bet, nil
		}
	}

	// Split: comma-separated list of numbers.
	if strings.Contains(s, ",") {
		if bet := parseSplit(s, amount); bet != nil {
			return bet, nil
		}
		return nil, ErrUnrecognizedBet
	}

	switch {
	case containsAny(s, "красн", "крас", "red"):
		return newBet(KindRed, "красное", colorNumbers(Red), amount), nil
	case containsAny(s, "черн", "чёрн", "black"):
		return newBet(KindBlack, "черное", colorNumbers(Black), amount), nil
	// Odd must be checked before even: "нечет" contains "чет".
	case containsAny(s, "нечет", "нечёт", "odd"):
		return newBet(KindOdd, "нечетное", parityNumbers(true), amount), nil
	case containsAny(s, "чет", "чёт", "even"):
		return newBet(KindEven, "четное", parityNumbers(false), amount), nil
	case isAnyOf(s, "малое", "малый", "low", "1/18"):
		return newBet(KindLow, "1-18", spanNumbers(1, 18), amount), nil
	case isAnyOf(s, "большое", "большой", "high", "19/36"):
		return newBet(KindHigh, "19-36", spanNumbers(19, 36), amount), nil
	case isAnyOf(s, "1/12"):
		return newBet(KindDozen1, "1-12", spanNumbers(1, 12), amount), nil
	case isAnyOf(s, "13/24"):
		return newBet(KindDozen2, "13-24", spanNumbers(13, 24), amount), nil
	case isAnyOf(s, "25/36"):
		return newBet(KindDozen3, "25-36", spanNumbers(25, 36), amount), nil
	case containsAny(s, "первая колонка", "колонка1", "column1"):
		return newBet(KindColumn1, "1 колонка", column1, amount), nil
	case containsAny(s, "вторая колонка", "колонка2", "column2"):
		return newBet(KindColumn2, "2 колонка", column2, amount), nil
	case containsAny(s, "третья колонка", "колонка3", "column3"):
		return newBet(KindColumn3, "3 колонка", column3, amount), nil
	}

	return nil, ErrUnrecognizedBet
}

// parseRange handles "A-B" with 1<=A<=B<=36. The well-known spans keep their
// table names and kinds; the multiplier is 36/count either way.
func parseRange(s string, amount int64) *Bet {
	parts := strings.SplitN(s, "-", 2)
	from, errA := strconv.Atoi(parts[0])
	to, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil {
		return nil
	}
	if from < 1 || from > to || to > 36 {
		return nil
	}

	name := fmt.Sprintf("%d-%d", from, to)
	switch {
	case from == 1 && to == 18:
		return newBet(KindLow, name, spanNumbers(1, 18), amount)
	case from == 19 && to == 36:
		return newBet(KindHigh, name, spanNumbers(19, 36), amount)
	case from == 1 && to == 12:
		return newBet(KindDozen1, name, spanNumbers(1, 12), amount)
	case from == 13 && to == 24:
		return newBet(KindDozen2, name, spanNumbers(13, 24), amount)
	case from == 25 && to == 36:
		return newBet(KindDozen3, name, spanNumbers(25, 36), amount)
	}
	return newBet(KindRange, name, spanNumbers(from, to), amount)
}

// parseSplit handles "A,B,C,...". Numbers outside [0,36] are dropped; the bet
// stands on whatever valid numbers remain.
func parseSplit(s string, amount int64) *Bet {
	var numbers []int
	for _, tok := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil
		}
		if n >= 0 && n <= 36 {
			numbers = append(numbers, n)
		}
	}
	if len(numbers) == 0 {
		return nil
	}

	names := make([]string, len(numbers))
	for i, n := range numbers {
		names[i] = strconv.Itoa(n)
	}
	return newBet(KindSplit, strings.Join(names, ", "), numbers, amount)
}
