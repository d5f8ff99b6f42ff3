package render

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestLookupColorScheme(t *testing.T) {
	for _, name := range []string{"seagreen", "Reds", "Blues", "Purples", "flare", "diverging"} {
		t.Run(name, func(t *testing.T) {
			cm, err := LookupColorScheme(name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Hex(cm.At(0)) == Hex(cm.At(1)) {
				t.Errorf("expected distinct colors at both ends, got %s", Hex(cm.At(0)))
			}
		})
	}
}

func TestLookupColorSchemeUnknown(t *testing.T) {
	_, err := LookupColorScheme("no-such-palette")
	var target *UnknownColorSchemeError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnknownColorSchemeError, got %v", err)
	}
	if target.Name != "no-such-palette" {
		t.Errorf("unexpected name %q", target.Name)
	}
}

func TestSequentialSchemeDarkensWithValue(t *testing.T) {
	cm, err := LookupColorScheme("Blues")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lum := func(c color.Color) uint32 {
		r, g, b, _ := c.RGBA()
		return r + g + b
	}
	if lum(cm.At(0)) <= lum(cm.At(1)) {
		t.Errorf("expected low values lighter than high values")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{math.NaN(), 0},
		{-0.5, 0},
		{0.25, 0.25},
		{1.5, 1},
	}
	for _, tt := range tests {
		if got := clamp(tt.in); got != tt.want {
			t.Errorf("clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	got := Hex(color.RGBA{R: 255, G: 0, B: 16, A: 255})
	if got != "#FF0010" {
		t.Errorf("got %s", got)
	}
}
