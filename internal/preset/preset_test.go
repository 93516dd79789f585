package preset

import (
	"testing"

	"github.com/AnyUserName/glitchart-cli/internal/glitch"
)

func TestGet_Default(t *testing.T) {
	p := Get(DefaultName)
	if p.Intensity != 50 || p.ColorWeight != 60 || p.TextureWeight != 40 || p.PatternWeight != 30 {
		t.Errorf("default weights: %+v", p)
	}
	if p.Effect != glitch.DataCorruption || p.MaxSize != 400 {
		t.Errorf("default effect/size: %+v", p)
	}
}

func TestGet_UnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.Intensity != Get(DefaultName).Intensity {
		t.Error("unknown preset did not fall back to default")
	}
}

func TestClamp(t *testing.T) {
	p := Preset{Intensity: 150, ColorWeight: -3, TextureWeight: 50, PatternWeight: 101, Effect: 9, MaxSize: -1}.Clamp()
	if p.Intensity != 100 || p.ColorWeight != 0 || p.TextureWeight != 50 || p.PatternWeight != 100 {
		t.Errorf("weights not clamped: %+v", p)
	}
	if p.Effect != glitch.DataCorruption || p.MaxSize != 0 {
		t.Errorf("effect/size not clamped: %+v", p)
	}
}

func TestParams(t *testing.T) {
	p := Get("mixed").Params(-2, glitch.Surface{Width: 64, Height: 48})
	if p.Time != 0 {
		t.Errorf("negative time not reset: %v", p.Time)
	}
	if p.Effect != glitch.Mixed || p.Resolution != [2]int{64, 48} {
		t.Errorf("params: %+v", p)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 4 || names[0] != "default" {
		t.Errorf("names: %v", names)
	}
}
