package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "", 7)
	if err != nil {
		t.Fatal(err)
	}
	if page != 1 || limit != 7 {
		t.Fatalf("got page=%d limit=%d", page, limit)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "25", 7)
	if err != nil {
		t.Fatal(err)
	}
	if page != 3 || limit != 25 {
		t.Fatalf("got page=%d limit=%d", page, limit)
	}
}

func TestParsePaginationParamsInvalid(t *testing.T) {
	for _, args := range [][2]string{
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", "0"},
		{"", "-5"},
		{"", "xyz"},
	} {
		if _, _, err := parsePaginationParams(args[0], args[1], 7); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", args[0], args[1])
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, want int64
	}{
		{0, 7, 0},
		{1, 7, 1},
		{7, 7, 1},
		{8, 7, 2},
		{20, 20, 1},
		{21, 20, 2},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
