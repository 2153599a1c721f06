package viewer_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/flyer-viewer/internal/viewer"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		pageCount int
		want      []int
		wantErr   error
	}{
		{"single page", "1", 5, []int{0}, nil},
		{"span", "2-4", 5, []int{1, 2, 3}, nil},
		{"list", "1,3,5", 5, []int{0, 2, 4}, nil},
		{"mixed with duplicates", "1-3,2,5", 5, []int{0, 1, 2, 4}, nil},
		{"open start", "-2", 5, []int{0, 1}, nil},
		{"open end", "4-", 5, []int{3, 4}, nil},
		{"spaces", " 1 , 2 - 3 ", 5, []int{0, 1, 2}, nil},
		{"empty", "", 5, nil, viewer.ErrInvalidPageRange},
		{"only commas", ",,", 5, nil, viewer.ErrInvalidPageRange},
		{"not a number", "abc", 5, nil, viewer.ErrInvalidPageRange},
		{"zero", "0", 5, nil, viewer.ErrPageOutOfRange},
		{"past end", "6", 5, nil, viewer.ErrPageOutOfRange},
		{"span past end", "3-9", 5, nil, viewer.ErrPageOutOfRange},
		{"backwards", "4-2", 5, nil, viewer.ErrInvalidPageRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := viewer.ParsePageRange(tt.expr, tt.pageCount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParsePageRange() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePageRange() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParsePageRange() = %v, want %v", got, tt.want)
			}
		})
	}
}
