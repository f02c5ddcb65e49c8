package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"10.0", "10", true},
		{"5.5", "5.5", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-3", "-3", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err != ErrInvalidAmount {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	d, _ := ParseAmount("15.5")
	if s := FormatAmount(d, "$"); s != "$15.50" {
		t.Fatalf("unexpected %q", s)
	}
}
