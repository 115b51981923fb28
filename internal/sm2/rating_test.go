package sm2

import "testing"

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{in: "fruitful", want: Fruitful},
		{in: "skip", want: Skip},
		{in: "unfruitful", want: Unfruitful},
		{in: "Fruitful", wantErr: true},
		{in: "good", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRating(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRating(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRating(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRatingQualityValues(t *testing.T) {
	// The rating values are the SM-2 quality scores fed to the scheduler.
	if int(Fruitful) != 0 {
		t.Errorf("Fruitful = %d, want 0", int(Fruitful))
	}
	if int(Skip) != 3 {
		t.Errorf("Skip = %d, want 3", int(Skip))
	}
	if int(Unfruitful) != 5 {
		t.Errorf("Unfruitful = %d, want 5", int(Unfruitful))
	}
}

func TestRatingString(t *testing.T) {
	if got := Skip.String(); got != "skip" {
		t.Errorf("Skip.String() = %q", got)
	}
	if got := Rating(2).String(); got != "Rating(2)" {
		t.Errorf("Rating(2).String() = %q", got)
	}
}

func TestRatingTextRoundTrip(t *testing.T) {
	for _, r := range []Rating{Fruitful, Skip, Unfruitful} {
		text, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", r, err)
		}
		var back Rating
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != r {
			t.Errorf("round trip: %v != %v", back, r)
		}
	}

	if _, err := Rating(1).MarshalText(); err == nil {
		t.Error("MarshalText on invalid rating: want error")
	}
}
