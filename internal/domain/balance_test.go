package domain

import (
	"errors"
	"math"
	"testing"
)

func TestComputeBirthBalance(t *testing.T) {
	tests := []struct {
		name     string
		lon      float64
		wantLord Lord
		want     float64
		tol      float64
	}{
		{"start of Ashwini", 0, Ketu, 7, 0},
		{"middle of Ashwini", 20.0 / 3.0, Ketu, 3.5, 1e-9},
		{"exact start of Bharani", 40.0 / 3.0, Venus, 20, 0},
		{"just into Bharani", 40.0/3.0 + 1e-4, Venus, 20, 0.01},
		{"just into Krittika", 80.0/3.0 + 1e-4, Sun, 6, 0.01},
		{"end of Revati", 359.999, Mercury, 0, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bal, err := ComputeBirthBalance(tt.lon)
			if err != nil {
				t.Fatalf("ComputeBirthBalance failed: %v", err)
			}
			if bal.Lord != tt.wantLord {
				t.Errorf("expected %s, got %s", tt.wantLord, bal.Lord)
			}
			if !approx(bal.BalanceYears, tt.want, tt.tol) {
				t.Errorf("expected balance %v, got %v", tt.want, bal.BalanceYears)
			}
		})
	}
}

func TestComputeBirthBalance_WithinLordShare(t *testing.T) {
	for lon := 0.0; lon < FullCircle; lon += 0.37 {
		bal, err := ComputeBirthBalance(lon)
		if err != nil {
			t.Fatalf("ComputeBirthBalance(%v) failed: %v", lon, err)
		}
		w := float64(bal.Lord.Weight())
		if bal.BalanceYears <= 0 || bal.BalanceYears > w {
			t.Errorf("lon %v: balance %v outside (0, %v]", lon, bal.BalanceYears, w)
		}
		if !approx(bal.ElapsedYears()+bal.BalanceYears, w, 1e-9) {
			t.Errorf("lon %v: elapsed + balance != %v", lon, w)
		}
	}
}

func TestBirthBalance_CycleOffset(t *testing.T) {
	bal, err := ComputeBirthBalance(40.0/3.0 + 20.0/3.0)
	if err != nil {
		t.Fatalf("ComputeBirthBalance failed: %v", err)
	}
	// half way through Venus, which starts 7 years into the cycle
	if !approx(bal.CycleOffsetYears(), 17, 1e-9) {
		t.Errorf("expected cycle offset 17, got %v", bal.CycleOffsetYears())
	}
	if !approx(bal.BalanceDays(DefaultDaysPerYear), 10*DefaultDaysPerYear, 1e-6) {
		t.Errorf("unexpected balance days %v", bal.BalanceDays(DefaultDaysPerYear))
	}
}

func TestComputeBirthBalance_RejectsNaN(t *testing.T) {
	if _, err := ComputeBirthBalance(math.NaN()); !errors.Is(err, ErrOutOfRangeInput) {
		t.Errorf("expected ErrOutOfRangeInput, got %v", err)
	}
}
