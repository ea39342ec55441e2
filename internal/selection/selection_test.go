package selection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/qurandl/qurandl/internal/domain"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []int
	}{
		{"single", "5", []int{5}},
		{"single with spaces", "  42  ", []int{42}},
		{"range", "10-12", []int{10, 11, 12}},
		{"range single member", "7-7", []int{7}},
		{"list sorted and deduped", "3,1,2,1", []int{1, 2, 3}},
		{"list with spaces", " 9 , 4 ", []int{4, 9}},
		{"bounds", "1,114", []int{1, 114}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	for _, expr := range []string{"all", "ALL", "All"} {
		got, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", expr, err)
		}
		if len(got) != MaxSurah {
			t.Fatalf("Parse(%q) returned %d surahs, want %d", expr, len(got), MaxSurah)
		}
		for i, n := range got {
			if n != i+1 {
				t.Fatalf("Parse(%q)[%d] = %d, want %d", expr, i, n, i+1)
			}
		}
	}
}

func TestParseInvalid(t *testing.T) {
	exprs := []string{
		"",
		"   ",
		"0",
		"115",
		"-3",
		"5-3",
		"1-115",
		"abc",
		"1,,2",
		"1,abc",
		"3-",
		"2-4-6",
		"1.5",
	}

	for _, expr := range exprs {
		if _, err := Parse(expr); !errors.Is(err, domain.ErrInvalidSelection) {
			t.Errorf("Parse(%q) = %v, want ErrInvalidSelection", expr, err)
		}
	}
}
