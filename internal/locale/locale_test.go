package locale

import "testing"

func TestHoursSwedish(t *testing.T) {
	f := New("sv")
	tests := []struct {
		h    float64
		prec int
		want string
	}{
		{2.5, 2, "2,50"},
		{0.75, 2, "0,75"},
		{32, 1, "32,0"},
		{3.5333, 2, "3,53"},
	}
	for _, tt := range tests {
		if got := f.Hours(tt.h, tt.prec); got != tt.want {
			t.Errorf("Hours(%v, %d) = %q, want %q", tt.h, tt.prec, got, tt.want)
		}
	}
}

func TestHoursEnglish(t *testing.T) {
	f := New("en")
	if got := f.Hours(1.5, 2); got != "1.50" {
		t.Fatalf("Hours = %q, want 1.50", got)
	}
}

func TestBadTagFallsBack(t *testing.T) {
	f := New("!!")
	if f.Tag() != DefaultTag {
		t.Fatalf("Tag = %q, want %q", f.Tag(), DefaultTag)
	}
	if got := f.Hours(2.5, 2); got != "2,50" {
		t.Fatalf("Hours = %q", got)
	}
}

func TestHM(t *testing.T) {
	if got := New("sv").HM(135); got != "2:15" {
		t.Fatalf("HM = %q", got)
	}
}
