package odds

import (
	"errors"
	"math"
	"testing"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

const tolerance = 1e-9

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		american float64
		want     float64
	}{
		{150, 0.4},
		{-150, 0.6},
		{100, 0.5},
		{-100, 0.5},
		{-110, 110.0 / 210.0},
		{900, 0.1},
	}

	for _, tt := range tests {
		got, err := ImpliedProbability(tt.american)
		if err != nil {
			t.Fatalf("ImpliedProbability(%v) error = %v", tt.american, err)
		}
		if math.Abs(got-tt.want) > tolerance {
			t.Errorf("ImpliedProbability(%v) = %v, want %v", tt.american, got, tt.want)
		}
	}

	if _, err := ImpliedProbability(0); !errors.Is(err, domain.ErrInvalidOdds) {
		t.Errorf("ImpliedProbability(0) error = %v, want ErrInvalidOdds", err)
	}
}

func TestImpliedProbabilityMonotonic(t *testing.T) {
	// Longer underdog odds mean a smaller probability; heavier favourites a
	// larger one. Every favourite sits at or above 0.5, every underdog at or
	// below it.
	prevDog, prevFav := 0.5, 0.5
	for a := 100.0; a <= 100000; a += 100 {
		dog, err := ImpliedProbability(a)
		if err != nil {
			t.Fatalf("ImpliedProbability(%v) error = %v", a, err)
		}
		fav, err := ImpliedProbability(-a)
		if err != nil {
			t.Fatalf("ImpliedProbability(%v) error = %v", -a, err)
		}
		if a > 100 {
			if dog >= prevDog {
				t.Fatalf("ImpliedProbability(%v) = %v, not below %v", a, dog, prevDog)
			}
			if fav <= prevFav {
				t.Fatalf("ImpliedProbability(%v) = %v, not above %v", -a, fav, prevFav)
			}
		}
		if dog <= 0 || dog > 0.5 || fav < 0.5 || fav >= 1 {
			t.Fatalf("odds %v: got dog=%v fav=%v, want 0 < dog <= 0.5 <= fav < 1", a, dog, fav)
		}
		prevDog, prevFav = dog, fav
	}
}

func TestDecimalImpliedProbability(t *testing.T) {
	got, err := DecimalImpliedProbability(2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.4) > tolerance {
		t.Errorf("DecimalImpliedProbability(2.5) = %v, want 0.4", got)
	}
	for _, bad := range []float64{1, 0.5, 0, -2, math.Inf(1)} {
		if _, err := DecimalImpliedProbability(bad); !errors.Is(err, domain.ErrInvalidOdds) {
			t.Errorf("DecimalImpliedProbability(%v) error = %v, want ErrInvalidOdds", bad, err)
		}
	}
}

func TestConvert(t *testing.T) {
	a, err := Convert(FormatAmerican, 150)
	if err != nil || math.Abs(a-0.4) > tolerance {
		t.Errorf("Convert(american, 150) = %v, %v", a, err)
	}
	d, err := Convert(FormatDecimal, 2.5)
	if err != nil || math.Abs(d-0.4) > tolerance {
		t.Errorf("Convert(decimal, 2.5) = %v, %v", d, err)
	}
	if _, err := Convert(Format("fractional"), 1); err == nil {
		t.Error("Convert with unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatAmerican {
		t.Errorf("ParseFormat(\"\") = %v, %v, want american", f, err)
	}
	if f, err := ParseFormat("decimal"); err != nil || f != FormatDecimal {
		t.Errorf("ParseFormat(decimal) = %v, %v", f, err)
	}
	if _, err := ParseFormat("hongkong"); err == nil {
		t.Error("ParseFormat(hongkong) should fail")
	}
}

func TestDevigSumsToOne(t *testing.T) {
	pairs := [][2]float64{
		{0.5238, 0.5238},
		{0.6, 0.45},
		{0.01, 0.99},
		{0.3, 0.3},
		{1e-6, 5},
	}
	for _, p := range pairs {
		a, b, err := Devig(p[0], p[1])
		if err != nil {
			t.Fatalf("Devig(%v, %v) error = %v", p[0], p[1], err)
		}
		if math.Abs(a+b-1) > tolerance {
			t.Errorf("Devig(%v, %v) sums to %v", p[0], p[1], a+b)
		}
		if math.Abs(a/b-p[0]/p[1]) > 1e-6*math.Max(1, p[0]/p[1]) {
			t.Errorf("Devig(%v, %v) changed the ratio", p[0], p[1])
		}
	}
}

func TestDevigDegenerate(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {-0.5, 0.2}} {
		if _, _, err := Devig(p[0], p[1]); !errors.Is(err, domain.ErrDegenerateProbabilities) {
			t.Errorf("Devig(%v, %v) error = %v, want ErrDegenerateProbabilities", p[0], p[1], err)
		}
	}
}

func TestVig(t *testing.T) {
	p, _ := ImpliedProbability(-110)
	if got := Vig(p, p); math.Abs(got-(220.0/210.0-1)) > tolerance {
		t.Errorf("Vig(-110, -110) = %v", got)
	}
}
