package utils

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{"Grilled Chicken", "grilled-chicken"},
		{"Grilled  Chicken", "grilled--chicken"},
		{"  pad thai ", "--pad-thai-"},
		{"Tab\tSeparated\nLine", "tab-separated-line"},
		{"CRÈME brûlée", "crème-brûlée"},
		{"no\u00a0break", "no-break"},
		{"ideo\u3000space", "ideo-space"},
		{"\ufeffbom", "-bom"},
		{"next\u0085line", "next\u0085line"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeKeyIsIdempotent(t *testing.T) {
	for _, in := range []string{"Grilled  Chicken", "Pad Thai", "x"} {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Errorf("NormalizeKey(NormalizeKey(%q)) = %q, want %q", in, twice, once)
		}
	}
}
