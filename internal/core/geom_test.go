package core

import "testing"

func TestParseVec3(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Vec3
		wantErr  bool
	}{
		{"integers", "1340 3377 -127", Vec3{1340, 3377, -127}, false},
		{"floats", "1.5 -2.25 0", Vec3{1.5, -2.25, 0}, false},
		{"extra whitespace", "  1   2\t3 ", Vec3{1, 2, 3}, false},
		{"too few", "1 2", Vec3{}, true},
		{"too many", "1 2 3 4", Vec3{}, true},
		{"not a number", "1 two 3", Vec3{}, true},
		{"nan", "NaN 0 0", Vec3{}, true},
		{"infinity", "0 Inf 0", Vec3{}, true},
		{"negative infinity", "0 0 -inf", Vec3{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseVec3(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseVec3(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if v != tc.expected {
				t.Errorf("ParseVec3(%q) = %v, expected %v", tc.in, v, tc.expected)
			}
		})
	}
}

func TestVec3StringRoundTrip(t *testing.T) {
	v := Vec3{X: 125, Y: -1562, Z: 64.5}
	if got := v.String(); got != "125 -1562 64.5" {
		t.Errorf("String() = %q, expected %q", got, "125 -1562 64.5")
	}
	parsed, err := ParseVec3(v.String())
	if err != nil {
		t.Fatalf("ParseVec3() failed: %v", err)
	}
	if parsed != v {
		t.Errorf("round trip = %v, expected %v", parsed, v)
	}
}

func TestVec3Cell(t *testing.T) {
	x, y := Vec3{X: 3.7, Y: -0.5}.Cell()
	if x != 3 || y != -1 {
		t.Errorf("Cell() = (%d, %d), expected (3, -1)", x, y)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(18, 3, 2, 5)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left", 18, 3, true},
		{"bottom-right", 19, 7, true},
		{"right edge", 20, 3, false},
		{"bottom edge", 18, 8, false},
		{"left of", 17, 5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}
