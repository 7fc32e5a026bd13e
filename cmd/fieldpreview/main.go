// Food field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/render"
	"github.com/pthm-cable/slime/rng"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// previewState is everything the sliders control.
type previewState struct {
	Food        food.Params
	Seed        int64
	View        int // index into palette names used to display the value channel
	FoodPalette int // 0 = none, else index+1 into palette names
}

func defaultState(names []string) previewState {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load defaults", "error", err)
		os.Exit(1)
	}
	st := previewState{Food: cfg.Food, Seed: cfg.Agents.Seed}
	if !st.Food.Strategy.Procedural() {
		st.Food.Strategy = food.Clusters
	}
	st.View = indexOf(names, render.DefaultPalette)
	st.FoodPalette = indexOf(names, st.Food.Palette) + 1
	return st
}

func main() {
	names := palette.Names()
	procedural := proceduralStrategies()

	rl.InitWindow(windowWidth, windowHeight, "Food Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	st := defaultState(names)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, gridSize*gridSize)
	var field *food.Field
	var genErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			st.Food.Palette = foodPaletteName(names, st.FoodPalette)
			field, genErr = food.Generate(st.Food, gridSize, gridSize, rng.New(st.Seed), nil)
			if genErr == nil {
				lut, _ := palette.LUT(names[st.View])
				fieldPixels(field, lut, pixels)
				rl.UpdateTexture(texture, pixels)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			lo, hi, avg := fieldStats(field)
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", lo, hi, avg), 15, statsY, 16, rl.DarkGray)
			if field.HasColor() {
				rl.DrawText("Showing carried colors", 15, statsY+20, 16, rl.DarkGray)
			}
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Food Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		si := indexOfStrategy(procedural, st.Food.Strategy)
		if v := intSlider(&panelY, panelX, "Strategy", st.Food.Strategy.String(), si, 0, len(procedural)-1); v != si {
			st.Food.Strategy = procedural[v]
			needsRegen = true
		}
		if v := intSlider(&panelY, panelX, "Clusters (blobs / grid cells)", "", st.Food.Clusters, 1, 40); v != st.Food.Clusters {
			st.Food.Clusters = v
			needsRegen = true
		}
		if v := floatSlider(&panelY, panelX, "Density (amplitude)", st.Food.Density, 0.1, 3); v != st.Food.Density {
			st.Food.Density = v
			needsRegen = true
		}
		if v := intSlider(&panelY, panelX, "Seed", "", int(st.Seed), 0, 99999); int64(v) != st.Seed {
			st.Seed = int64(v)
			needsRegen = true
		}
		if v := intSlider(&panelY, panelX, "View palette", names[st.View], st.View, 0, len(names)-1); v != st.View {
			st.View = v
			needsRegen = true
		}
		fpLabel := foodPaletteName(names, st.FoodPalette)
		if fpLabel == "" {
			fpLabel = "none"
		}
		if v := intSlider(&panelY, panelX, "Food palette (carried color)", fpLabel, st.FoodPalette, 0, len(names)); v != st.FoodPalette {
			st.FoodPalette = v
			needsRegen = true
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			st.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			st = defaultState(names)
			needsRegen = true
		}
		panelY += 55

		block := foodYAML(st.Food, st.Seed)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(block)
		}

		rl.EndDrawing()
	}
}

// intSlider draws a labelled slider and returns its integer value.
func intSlider(y *float32, x float32, label, valueText string, value, lo, hi int) int {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprint(lo), fmt.Sprint(hi),
		float32(value), float32(lo), float32(hi),
	)
	if valueText == "" {
		valueText = fmt.Sprint(value)
	}
	rl.DrawText(valueText, int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return int(v + 0.5)
}

func floatSlider(y *float32, x float32, label string, value, lo, hi float64) float64 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%.1f", lo), fmt.Sprintf("%.1f", hi),
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.2f", value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float32(value) == v {
		return value
	}
	return float64(v)
}
