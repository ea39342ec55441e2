// Package selection parses user-supplied surah selection expressions into a
// validated, deduplicated, ascending list of surah numbers.
package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/qurandl/qurandl/internal/domain"
)

const (
	MinSurah = 1
	MaxSurah = 114
)

// Parse accepts "all", a range "a-b", a comma list "a,b,c" or a single
// number. The result only contains values in [1,114], without duplicates,
// in ascending order. Anything else fails with domain.ErrInvalidSelection.
func Parse(expr string) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", domain.ErrInvalidSelection)
	}

	if strings.EqualFold(expr, "all") {
		return fullRange(), nil
	}

	if strings.Contains(expr, "-") && !strings.Contains(expr, ",") {
		return parseRange(expr)
	}

	if strings.Contains(expr, ",") {
		return parseList(expr)
	}

	n, err := parseSurah(expr)
	if err != nil {
		return nil, err
	}
	return []int{n}, nil
}

func fullRange() []int {
	out := make([]int, 0, MaxSurah)
	for i := MinSurah; i <= MaxSurah; i++ {
		out = append(out, i)
	}
	return out
}

func parseRange(expr string) ([]int, error) {
	parts := strings.SplitN(expr, "-", 2)
	start, err := parseSurah(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := parseSurah(parts[1])
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("%w: range %d-%d is reversed", domain.ErrInvalidSelection, start, end)
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out, nil
}

func parseList(expr string) ([]int, error) {
	seen := make(map[int]bool)
	var out []int
	for _, tok := range strings.Split(expr, ",") {
		n, err := parseSurah(tok)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

func parseSurah(tok string) (int, error) {
	tok = strings.TrimSpace(tok)
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidSelection, tok)
	}
	if n < MinSurah || n > MaxSurah {
		return 0, fmt.Errorf("%w: surah %d out of range %d-%d", domain.ErrInvalidSelection, n, MinSurah, MaxSurah)
	}
	return n, nil
}
