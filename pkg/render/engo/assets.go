// pkg/render/engo/assets.go
package engo

import (
	"fmt"
	"image"
	"image/color"

	"github.com/EngoEngine/engo/common"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-planes/pkg/state"
)

// Font sizes in points.
const (
	FontSmall = 18
	FontLarge = 64
)

// Sprite patterns are drawn nose up, as seen from behind.
var (
	aircraftPattern = [][]int{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}

	escortPattern = [][]int{
		{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
	}
)

var (
	colorPlayer = color.NRGBA{230, 60, 50, 255}
	colorEscort = color.NRGBA{90, 110, 130, 255}
	colorHUD    = color.NRGBA{255, 255, 255, 255}
)

var groundColors = map[state.Biome]color.NRGBA{
	state.BiomeForest: {46, 96, 48, 255},
	state.BiomeDesert: {206, 172, 110, 255},
	state.BiomeCity:   {88, 88, 96, 255},
	state.BiomeTundra: {226, 234, 240, 255},
}

var skyColors = map[state.Weather]color.NRGBA{
	state.WeatherClear: {135, 190, 235, 255},
	state.WeatherRain:  {104, 118, 134, 255},
	state.WeatherStorm: {48, 52, 66, 255},
	state.WeatherFog:   {200, 204, 208, 255},
}

// GroundColor returns the ground fill for a biome.
func GroundColor(b state.Biome) color.NRGBA {
	if c, ok := groundColors[b]; ok {
		return c
	}
	return groundColors[state.BiomeForest]
}

// SkyColor returns the clear colour for a weather setting.
func SkyColor(w state.Weather) color.NRGBA {
	if c, ok := skyColors[w]; ok {
		return c
	}
	return skyColors[state.WeatherClear]
}

// AssetManager builds the sprites and fonts the scene draws with.
type AssetManager struct {
	aircraft common.Drawable
	escort   common.Drawable

	ttf   *truetype.Font
	small *common.Font
	large *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets loads all game assets. Textures need a GL context.
func (am *AssetManager) LoadAssets() error {
	if err := am.LoadFonts(); err != nil {
		return err
	}
	am.aircraft = toTexture(PatternImage(aircraftPattern, colorPlayer))
	am.escort = toTexture(PatternImage(escortPattern, colorEscort))
	return nil
}

// LoadFonts parses the bundled Go Regular face into the HUD fonts.
func (am *AssetManager) LoadFonts() error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse hud font: %w", err)
	}
	am.ttf = ttf

	am.small, err = am.newFont(FontSmall)
	if err != nil {
		return err
	}
	am.large, err = am.newFont(FontLarge)
	return err
}

func (am *AssetManager) newFont(size float64) (*common.Font, error) {
	f := &common.Font{
		Size: size,
		FG:   colorHUD,
		BG:   color.Transparent,
		TTF:  am.ttf,
	}
	if err := f.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("failed to create %.0fpt font: %w", size, err)
	}
	return f, nil
}

// PatternImage draws a 0/1 pattern in c on a transparent image.
func PatternImage(pattern [][]int, c color.NRGBA) *image.NRGBA {
	height := len(pattern)
	width := 0
	for _, row := range pattern {
		width = max(width, len(row))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range pattern {
		for x, pixel := range row {
			if pixel == 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

func toTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}

// Aircraft returns the player sprite.
func (am *AssetManager) Aircraft() common.Drawable {
	return am.aircraft
}

// Escort returns the wingman sprite.
func (am *AssetManager) Escort() common.Drawable {
	return am.escort
}

// Font returns the small HUD font.
func (am *AssetManager) Font() *common.Font {
	return am.small
}

// BannerFont returns the large HUD font.
func (am *AssetManager) BannerFont() *common.Font {
	return am.large
}
