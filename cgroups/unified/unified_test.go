package unified

import "testing"

func TestWeightFromShares(t *testing.T) {
	cases := []struct {
		shares uint64
		want   uint64
	}{
		{shares: 2, want: 1},
		{shares: 1024, want: 39},
		{shares: 262144, want: 10000},
	}
	for _, c := range cases {
		if got := weightFromShares(c.shares); got != c.want {
			t.Errorf("weightFromShares(%d) = %d, want %d", c.shares, got, c.want)
		}
	}
}
