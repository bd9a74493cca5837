package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ShadeTarget is the navy that odd bars are darkened toward.
const ShadeTarget = "#1a3a5c"

// ShadeAmount is how far odd bars move toward ShadeTarget.
const ShadeAmount = 0.4

// Blend linearly interpolates each 8-bit RGB channel of a toward b by t in [0,1],
// rounding half away from zero, and returns the result as lowercase #rrggbb.
func Blend(a, b string, t float64) (string, error) {
	ca, err := parseHex(a)
	if err != nil {
		return "", err
	}
	cb, err := parseHex(b)
	if err != nil {
		return "", err
	}
	t = min(max(t, 0), 1)
	ar, ag, ab := ca.RGB255()
	br, bg, bb := cb.RGB255()
	return fmt.Sprintf("#%02x%02x%02x", lerp(ar, br, t), lerp(ag, bg, t), lerp(ab, bb, t)), nil
}

func lerp(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a) + (float64(b)-float64(a))*t)
	return uint8(min(max(v, 0), 255))
}

// Shade returns the darkened alternate of base, or base itself when it is not a hex color.
func Shade(base string) string {
	dark, err := Blend(base, ShadeTarget, ShadeAmount)
	if err != nil {
		return base
	}
	return dark
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// ValidColor reports whether s parses as a 24-bit hex color.
func ValidColor(s string) bool {
	_, err := parseHex(s)
	return err == nil
}
