package gesture

import (
	"math"
	"testing"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
)

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		dx, dy float64
		want   canon.Direction
		ok     bool
	}{
		{"swipe left", -120, 10, canon.Forward, true},
		{"swipe right", 120, -10, canon.Backward, true},
		{"exact threshold", -50, 0, canon.Forward, true},
		{"too short", -49, 0, 0, false},
		{"tap", 0, 0, 0, false},
		{"vertical scroll", -80, 200, 0, false},
		{"diagonal at slope limit", 100, 50, canon.Backward, true},
		{"diagonal past slope limit", 100, 51, 0, false},
		{"NaN dx", math.NaN(), 0, 0, false},
		{"NaN dy", -120, math.NaN(), 0, false},
		{"NaN both", math.NaN(), math.NaN(), 0, false},
		{"infinite dx", math.Inf(-1), 0, 0, false},
		{"infinite both", math.Inf(1), math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfg.Classify(tt.dx, tt.dy)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, %v; want %v, %v", tt.dx, tt.dy, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	cfg := DefaultConfig()

	start, err := canon.NewPosition("Génesis", 50)
	if err != nil {
		t.Fatalf("NewPosition error = %v", err)
	}

	next, moved := cfg.Navigate(start, -200, 0)
	if !moved || next.Book.Name != "Éxodo" || next.Chapter != 0 {
		t.Errorf("Navigate(swipe left) = %s, %v; want Éxodo 0, true", next, moved)
	}

	back, moved := cfg.Navigate(next, 200, 0)
	if !moved || back != start {
		t.Errorf("Navigate(swipe right) = %s, %v; want %s, true", back, moved, start)
	}

	same, moved := cfg.Navigate(start, 10, 0)
	if moved || same != start {
		t.Errorf("Navigate(short) = %s, %v; want unchanged", same, moved)
	}

	for _, d := range [][2]float64{{math.NaN(), 0}, {math.Inf(1), math.Inf(1)}, {math.NaN(), math.NaN()}} {
		if got, moved := cfg.Navigate(start, d[0], d[1]); moved || got != start {
			t.Errorf("Navigate(%v, %v) = %s, %v; want unchanged", d[0], d[1], got, moved)
		}
	}
}

func TestNavigateTerminal(t *testing.T) {
	cfg := DefaultConfig()
	first := canon.Start(canon.First())

	got, moved := cfg.Navigate(first, 300, 0)
	if moved || got != first {
		t.Errorf("Navigate at Génesis 0 backward = %s, %v; want unchanged, false", got, moved)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if err := (Config{MinDistance: 0, MaxSlope: 1}).Validate(); err == nil {
		t.Error("expected error for zero MinDistance")
	}
	if err := (Config{MinDistance: 10, MaxSlope: -1}).Validate(); err == nil {
		t.Error("expected error for negative MaxSlope")
	}
	if err := (Config{MinDistance: math.NaN(), MaxSlope: 1}).Validate(); err == nil {
		t.Error("expected error for NaN MinDistance")
	}
	if err := (Config{MinDistance: 10, MaxSlope: math.NaN()}).Validate(); err == nil {
		t.Error("expected error for NaN MaxSlope")
	}
	if err := (Config{MinDistance: math.Inf(1), MaxSlope: 1}).Validate(); err == nil {
		t.Error("expected error for infinite MinDistance")
	}
}
