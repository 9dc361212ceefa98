package tracking

import "testing"

func TestSanitizeBlur(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"one", 1, 1},
		{"even bumps to odd", 4, 5},
		{"odd unchanged", 7, 7},
		{"max odd", 99, 99},
		{"even just below max", 98, 99},
		{"above max clamps", 101, 99},
		{"even above max clamps", 200, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeBlur(tt.pos); got != tt.want {
				t.Errorf("SanitizeBlur(%d) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestSanitizeBlur_AlwaysOddAndBounded(t *testing.T) {
	for pos := -10; pos <= 300; pos++ {
		r := SanitizeBlur(pos)
		if r%2 != 1 {
			t.Fatalf("SanitizeBlur(%d) = %d is even", pos, r)
		}
		if r < 1 || r > MaxBlur {
			t.Fatalf("SanitizeBlur(%d) = %d out of [1, %d]", pos, r, MaxBlur)
		}
	}
}
