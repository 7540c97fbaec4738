package httpapi

import "testing"

func TestOrderIDFromReference(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"ORD-ord-1-1700000000000", "ord-1"},
		{"ORD-550e8400-e29b-41d4-a716-446655440000-1700000000000", "550e8400-e29b-41d4-a716-446655440000"},
		{"ORD-", ""},
		{"ORD-abc", ""},
		{"random-ref", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := orderIDFromReference(tc.ref); got != tc.want {
			t.Errorf("orderIDFromReference(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}
