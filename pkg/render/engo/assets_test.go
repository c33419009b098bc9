package engo

import (
	"image/color"
	"testing"

	"github.com/opd-ai/go-planes/pkg/state"
)

func TestPatternImage(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 255}
	img := PatternImage([][]int{
		{0, 1, 0},
		{1, 1, 1, 1},
	}, c)

	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("Expected 4x2 image, got %dx%d", b.Dx(), b.Dy())
	}
	if got := img.NRGBAAt(1, 0); got != c {
		t.Errorf("Expected set pixel %v, got %v", c, got)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("Expected transparent pixel, got %v", got)
	}
	if got := img.NRGBAAt(3, 1); got != c {
		t.Errorf("Expected ragged row to draw, got %v", got)
	}
}

func TestSprites_AreWiderThanTall(t *testing.T) {
	for name, pattern := range map[string][][]int{"aircraft": aircraftPattern, "escort": escortPattern} {
		b := PatternImage(pattern, colorPlayer).Bounds()
		if b.Dx() <= b.Dy() {
			t.Errorf("%s: expected a wingspan wider than the fuselage, got %dx%d", name, b.Dx(), b.Dy())
		}
	}
}

func TestSceneryColours(t *testing.T) {
	seen := make(map[color.NRGBA]bool)
	for b := state.BiomeForest; b <= state.BiomeTundra; b++ {
		seen[GroundColor(b)] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected a distinct ground per biome, got %d", len(seen))
	}
	if GroundColor(state.Biome(42)) != GroundColor(state.BiomeForest) {
		t.Error("Expected unknown biome to fall back to forest")
	}
	if SkyColor(state.Weather(42)) != SkyColor(state.WeatherClear) {
		t.Error("Expected unknown weather to fall back to clear")
	}
}

func TestAssetManager_LoadFonts(t *testing.T) {
	am := NewAssetManager()
	if am.Font() != nil || am.Aircraft() != nil {
		t.Fatal("Expected nothing loaded before LoadFonts")
	}

	if err := am.LoadFonts(); err != nil {
		t.Fatalf("LoadFonts failed: %v", err)
	}
	if am.Font() == nil || am.BannerFont() == nil {
		t.Fatal("Expected both fonts")
	}

	sw, _, _ := am.Font().TextDimensions("MISSION COMPLETE")
	lw, _, _ := am.BannerFont().TextDimensions("MISSION COMPLETE")
	if sw <= 0 || lw <= sw {
		t.Errorf("Expected the banner font wider than the small font, got %d and %d", lw, sw)
	}
}
