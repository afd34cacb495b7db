package x11

import "testing"

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#2e3440", 0x2e3440, false},
		{"2e3440", 0x2e3440, false},
		{" #ffffff ", 0xffffff, false},
		{"#000000", 0, false},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}
