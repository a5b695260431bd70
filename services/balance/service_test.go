package balance

import "testing"

func TestAllowedToRequest(t *testing.T) {
	cases := []struct {
		debit float64
		limit float64
		want  bool
	}{
		{0, 100000, true},
		{100000, 100000, true}, // at the limit is still allowed
		{100001, 100000, false},
		{50000, 0, false},
		{0, 0, true},
	}
	for _, tc := range cases {
		if got := AllowedToRequest(tc.debit, tc.limit); got != tc.want {
			t.Errorf("AllowedToRequest(%v, %v) = %v, want %v", tc.debit, tc.limit, got, tc.want)
		}
	}
}
