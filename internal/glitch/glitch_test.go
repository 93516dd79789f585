package glitch

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/noise"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

// ─── fixtures ─────────────────────────────────────────────────

func gradientSource(w, h int) *raster.Buffer {
	buf, _ := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := buf.Offset(x, y)
			buf.Pix[off] = uint8(x * 255 / w)
			buf.Pix[off+1] = uint8(y * 255 / h)
			buf.Pix[off+2] = 128
			buf.Pix[off+3] = 255
		}
	}
	return buf
}

func solidSource(w, h int, v uint8) *raster.Buffer {
	buf, _ := raster.New(w, h)
	for i := range buf.Pix {
		buf.Pix[i] = v
	}
	return buf
}

// rampPalette gives every slot a distinct, recognisable colour.
func rampPalette() descriptor.Palette {
	var p descriptor.Palette
	for i := range p {
		p[i] = [3]float64{float64(i) / 10, 1 - float64(i)/10, 0.5}
	}
	return p
}

func newTestRenderer(t *testing.T, src *raster.Buffer, s Surface, workers int) *Renderer {
	t.Helper()
	r, err := NewRenderer(s, src, Options{Workers: workers})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// ─── banding & decision kernels ───────────────────────────────

func TestBand(t *testing.T) {
	cases := []struct {
		s    float64
		n    int
		want int
	}{
		{0, 8, 0},
		{0.124, 8, 0},
		{0.125, 8, 1},
		{0.71, 8, 5},
		{0.99, 8, 7},
		{0.9999999999999999, 8, 7},
		{0.41, 4, 1},
		{0.69, 4, 2},
		{0.81, 6, 4},
		{0.99, 6, 5},
		{1.0, 8, 0},
		{-0.1, 4, 3},
	}
	for _, c := range cases {
		if got := Band(c.s, c.n); got != c.want {
			t.Errorf("Band(%v, %d) = %d, want %d", c.s, c.n, got, c.want)
		}
	}
}

func TestCorrupt_Thresholds(t *testing.T) {
	pal := rampPalette()
	base := rgb{0.2, 0.4, 0.6}

	cases := []struct {
		c    float64
		want rgb
	}{
		{0.0, base},
		{0.39, base},
		{0.4, base},
		{0.41, mix3(base, pal[1], 0.6)},
		{0.69, mix3(base, pal[2], 0.6)},
		{0.7, mix3(base, pal[2], 0.6)},
		{0.71, pal[5]},
		{0.99, pal[7]},
	}
	for _, c := range cases {
		if got := corrupt(c.c, base, &pal); got != c.want {
			t.Errorf("corrupt(%v) = %v, want %v", c.c, got, c.want)
		}
	}
}

func TestShatter_Thresholds(t *testing.T) {
	pal := rampPalette()
	base := rgb{0.3, 0.3, 0.3}
	if got := shatter(0.7, base, &pal); got != base {
		t.Errorf("0.7 should pass through, got %v", got)
	}
	if got := shatter(0.8, base, &pal); got != mix3(base, pal[3], 0.5) {
		t.Errorf("0.8: got %v", got)
	}
	if got := shatter(0.9, base, &pal); got != mix3(base, pal[3], 0.5) {
		t.Errorf("0.9 should still blend, got %v", got)
	}
	if got := shatter(0.95, base, &pal); got != pal[7] {
		t.Errorf("0.95: got %v, want slot 7", got)
	}
}

func TestInject_Threshold(t *testing.T) {
	pal := rampPalette()
	base := rgb{1, 0, 0}
	if got := inject(0.8, base, &pal); got != base {
		t.Errorf("0.8 should pass through, got %v", got)
	}
	if got := inject(0.85, base, &pal); got != mix3(base, pal[5], 0.7) {
		t.Errorf("0.85: got %v", got)
	}
}

func TestThin_QuantizesAndBlends(t *testing.T) {
	pal := rampPalette()
	base := rgb{0.3, 0.6, 0.99}
	if got := thin(0.6, base, &pal); got != base {
		t.Errorf("0.6 should pass through, got %v", got)
	}
	want := mix3(rgb{0.25, 0.5, 0.75}, pal[Band(0.7, 6)], 0.3)
	if got := thin(0.7, base, &pal); got != want {
		t.Errorf("0.7: got %v, want %v", got, want)
	}
}

func TestClamp3(t *testing.T) {
	got := clamp3(rgb{-0.5, 1.7, math.NaN()})
	if got != (rgb{0, 1, 0}) {
		t.Errorf("clamp3 = %v", got)
	}
}

// ─── texture sampling ─────────────────────────────────────────

func TestTexture_BilinearClamp(t *testing.T) {
	src, _ := raster.Wrap(2, 1, []uint8{0, 0, 0, 255, 255, 255, 255, 255})
	tex := newTexture(src)

	cases := []struct {
		u, want float64
	}{
		{0.25, 0},
		{0.75, 1},
		{0.5, 0.5},
		{-3, 0},
		{4, 1},
	}
	for _, c := range cases {
		got := tex.sample(c.u, 0.5)
		if math.Abs(got[0]-c.want) > 1e-6 {
			t.Errorf("sample(%v) = %v, want %v", c.u, got[0], c.want)
		}
	}
}

// ─── renderer lifecycle ───────────────────────────────────────

func TestNewRenderer_InitFailures(t *testing.T) {
	good := gradientSource(4, 4)
	cases := []struct {
		name string
		s    Surface
		src  *raster.Buffer
		opts Options
	}{
		{"zero surface", Surface{0, 10}, good, Options{}},
		{"nil source", Surface{4, 4}, nil, Options{}},
		{"malformed source", Surface{4, 4}, &raster.Buffer{Width: 4, Height: 4, Pix: make([]uint8, 8)}, Options{}},
		{"oversized texture", Surface{4, 4}, good, Options{MaxTextureSize: 2}},
	}
	for _, c := range cases {
		_, err := NewRenderer(c.s, c.src, c.opts)
		if !errors.Is(err, ErrInit) {
			t.Errorf("%s: got %v, want ErrInit", c.name, err)
		}
	}
}

func TestRender_AfterClose(t *testing.T) {
	r, err := NewRenderer(Surface{4, 4}, gradientSource(4, 4), Options{})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	target := r.NewTarget()
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := r.Render(rampPalette(), Params{}, target); !errors.Is(err, ErrClosed) {
		t.Errorf("got %v, want ErrClosed", err)
	}
}

func TestRender_SurfaceMismatch(t *testing.T) {
	r := newTestRenderer(t, gradientSource(4, 4), Surface{4, 4}, 0)
	target, _ := raster.New(5, 4)
	if err := r.Render(rampPalette(), Params{}, target); !errors.Is(err, ErrSurfaceMismatch) {
		t.Errorf("got %v, want ErrSurfaceMismatch", err)
	}
}

// ─── frame properties ─────────────────────────────────────────

func TestRender_Deterministic(t *testing.T) {
	src := gradientSource(48, 32)
	r := newTestRenderer(t, src, Surface{40, 30}, 0)
	pal := rampPalette()

	for e := DataCorruption; e <= Mixed; e++ {
		p := Params{Intensity: 70, PatternWeight: 80, Effect: e, Time: 3.25}
		a, b := r.NewTarget(), r.NewTarget()
		if err := r.Render(pal, p, a); err != nil {
			t.Fatalf("%v: render: %v", e, err)
		}
		if err := r.Render(pal, p, b); err != nil {
			t.Fatalf("%v: render: %v", e, err)
		}
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%v: repeated renders differ", e)
		}
	}
}

func TestRender_WorkerCountIndependent(t *testing.T) {
	src := gradientSource(32, 32)
	pal := rampPalette()
	p := Params{Intensity: 55, PatternWeight: 90, Effect: Mixed, Time: 1.5}

	r1 := newTestRenderer(t, src, Surface{33, 17}, 1)
	r7 := newTestRenderer(t, src, Surface{33, 17}, 7)
	a, b := r1.NewTarget(), r7.NewTarget()
	if err := r1.Render(pal, p, a); err != nil {
		t.Fatal(err)
	}
	if err := r7.Render(pal, p, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("output depends on worker count")
	}
}

func TestRender_DataCorruptionBlocks(t *testing.T) {
	// At full intensity blocks are 0.1 wide, hashed at corner + t·0.1, and
	// the channel split reads red from u+0.01 and blue from u−0.01.
	src := gradientSource(16, 16)
	r := newTestRenderer(t, src, Surface{16, 16}, 3)
	pal := rampPalette()
	const tm = 10.0
	p := Params{Intensity: 100, Effect: DataCorruption, Time: tm}
	target := r.NewTarget()
	if err := r.Render(pal, p, target); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			u, v := (float64(x)+0.5)/16, (float64(y)+0.5)/16
			split := rgb{r.tex.sample(u+0.01, v)[0], r.tex.sample(u, v)[1], r.tex.sample(u-0.01, v)[2]}
			c := noise.Random(math.Floor(u/0.1)*0.1+tm*0.1, math.Floor(v/0.1)*0.1+tm*0.1)
			want := clamp3(corrupt(c, split, &pal))
			off := target.Offset(x, y)
			for ch := 0; ch < 3; ch++ {
				if target.Pix[off+ch] != toByte(want[ch]) {
					t.Fatalf("pixel (%d,%d) channel %d: got %d, want %d", x, y, ch, target.Pix[off+ch], toByte(want[ch]))
				}
			}
		}
	}
}

func TestRender_OpaqueAndUniform(t *testing.T) {
	// A white source with an all-white palette is a fixed point of every
	// effect, including the pattern overlay.
	src := solidSource(20, 20, 255)
	var pal descriptor.Palette
	for i := range pal {
		pal[i] = [3]float64{1, 1, 1}
	}
	r := newTestRenderer(t, src, Surface{20, 20}, 0)

	for e := DataCorruption; e <= Mixed; e++ {
		target := r.NewTarget()
		if err := r.Render(pal, Params{Intensity: 100, PatternWeight: 100, Effect: e, Time: 7}, target); err != nil {
			t.Fatal(err)
		}
		for i, v := range target.Pix {
			if v != 255 {
				t.Fatalf("%v: byte %d = %d, want 255", e, i, v)
			}
		}
	}
}

func TestRender_OutOfRangeParams(t *testing.T) {
	r := newTestRenderer(t, gradientSource(8, 8), Surface{8, 8}, 0)
	target := r.NewTarget()
	p := Params{Intensity: 900, PatternWeight: 400, Effect: Mixed, Time: 1e6}
	if err := r.Render(rampPalette(), p, target); err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(target.Pix); i += 4 {
		if target.Pix[i] != 255 {
			t.Fatalf("alpha at %d = %d, want 255", i, target.Pix[i])
		}
	}
}

func TestRender_UnknownEffectPassesThrough(t *testing.T) {
	src := gradientSource(8, 8)
	r := newTestRenderer(t, src, Surface{8, 8}, 0)
	a, b := r.NewTarget(), r.NewTarget()
	// Intensity 0 makes the channel split a no-op, so the output is the source.
	if err := r.Render(rampPalette(), Params{Effect: EffectType(42)}, a); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(rampPalette(), Params{Effect: EffectType(-1)}, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, src.Pix) || !bytes.Equal(b.Pix, src.Pix) {
		t.Error("unknown effect altered the image")
	}
}

// ─── per-effect geometry ──────────────────────────────────────

// rampSource is 256×1 with every channel equal to the column index, so a
// bilinear sample at u reads (u·256 − 0.5)/255 away from the edges.
func rampSource() *raster.Buffer {
	buf, _ := raster.New(256, 1)
	for x := 0; x < 256; x++ {
		off := buf.Offset(x, 0)
		buf.Pix[off], buf.Pix[off+1], buf.Pix[off+2], buf.Pix[off+3] = uint8(x), uint8(x), uint8(x), 255
	}
	return buf
}

func rampAt(u float64) float64 { return (u*256 - 0.5) / 255 }

func TestRGBSplit_Offsets(t *testing.T) {
	tex := newTexture(rampSource())
	pal := rampPalette()
	for _, c := range []struct {
		intensity, offset float64
	}{
		{0, 0},
		{50, 0.005},
		{100, 0.01},
	} {
		s := newShader(tex, &pal, Params{Intensity: c.intensity, Effect: EffectType(99)})
		got := s.shade(0.5, 0.5)
		want := rgb{rampAt(0.5 + c.offset), rampAt(0.5), rampAt(0.5 - c.offset)}
		for ch := 0; ch < 3; ch++ {
			if math.Abs(got[ch]-want[ch]) > 1e-6 {
				t.Errorf("intensity %v channel %d: got %v, want %v", c.intensity, ch, got[ch], want[ch])
			}
		}
	}
}

func TestSignalDistortion_Warp(t *testing.T) {
	tex := newTexture(gradientSource(32, 32))
	pal := rampPalette()
	for _, tm := range []float64{0, 0.37, 1.9} {
		s := newShader(tex, &pal, Params{Intensity: 50, Effect: SignalDistortion, Time: tm})
		for i := 0; i < 16; i++ {
			for j := 0; j < 16; j++ {
				u, v := (float64(i)+0.5)/16, (float64(j)+0.5)/16
				warped := tex.sample(u+math.Sin(50*v+3*tm)*0.02, v+math.Sin(30*u+2*tm)*0.01)
				want := inject(noise.Value(u*20+tm, v*20+tm), warped, &pal)
				// The incoming colour is discarded.
				got := s.signalDistortion(u, v, rgb{9, 9, 9})
				for ch := 0; ch < 3; ch++ {
					if math.Abs(got[ch]-want[ch]) > 1e-12 {
						t.Fatalf("t=%v (%v,%v) channel %d: got %v, want %v", tm, u, v, ch, got[ch], want[ch])
					}
				}
			}
		}
	}
}

func TestPatternOverlay_Threshold(t *testing.T) {
	tex := newTexture(gradientSource(32, 32))
	pal := rampPalette()
	const tm = 0.8
	changed := 0
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			u, v := (float64(i)+0.5)/16, (float64(j)+0.5)/16
			base := tex.sample(u, v)

			off := newShader(tex, &pal, Params{PatternWeight: 50, Effect: EffectType(99), Time: tm})
			if got := off.shade(u, v); got != clamp3(base) {
				t.Fatalf("weight 50 (%v,%v): overlay applied: %v vs %v", u, v, got, base)
			}

			on := newShader(tex, &pal, Params{PatternWeight: 51, Effect: EffectType(99), Time: tm})
			wave := math.Sin(u*50+tm) * 0.51 * 0.1
			want := clamp3(mix3(base, tex.sample(u, v+wave), 0.3))
			got := on.shade(u, v)
			for ch := 0; ch < 3; ch++ {
				if math.Abs(got[ch]-want[ch]) > 1e-12 {
					t.Fatalf("weight 51 (%v,%v) channel %d: got %v, want %v", u, v, ch, got[ch], want[ch])
				}
			}
			if got != clamp3(base) {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("overlay at weight 51 changed nothing")
	}
}

func TestPixelThinning_Blocks(t *testing.T) {
	tex := newTexture(gradientSource(8, 8))
	pal := rampPalette()
	base := rgb{0.3, 0.6, 0.9}
	const tm = 2.0

	for _, c := range []struct {
		intensity, blocks float64
	}{
		{0, 1},
		{100, 8},
	} {
		s := newShader(tex, &pal, Params{Intensity: c.intensity, Effect: PixelThinning, Time: tm})
		masks := map[float64]bool{}
		for i := 0; i < 32; i++ {
			for j := 0; j < 32; j++ {
				u, v := (float64(i)+0.5)/32, (float64(j)+0.5)/32
				m := noise.Random(math.Floor(u*c.blocks)/c.blocks+tm*0.1, math.Floor(v*c.blocks)/c.blocks+tm*0.1)
				masks[m] = true
				if got, want := s.pixelThinning(u, v, base), thin(m, base, &pal); got != want {
					t.Fatalf("intensity %v (%v,%v): got %v, want %v", c.intensity, u, v, got, want)
				}
			}
		}
		if c.blocks == 1 && len(masks) != 1 {
			t.Errorf("intensity 0: %d distinct blocks, want 1", len(masks))
		}
		if c.blocks == 8 && len(masks) != 64 {
			t.Errorf("intensity 100: %d distinct blocks, want 64", len(masks))
		}
	}
}

// ─── palette slot reachability ────────────────────────────────

// reachable sweeps (lo, hi) and collects the bands it maps to.
func reachable(lo, hi float64, n int) map[int]bool {
	out := map[int]bool{}
	for s := lo + 1e-4; s < hi; s += 1e-4 {
		out[Band(s, n)] = true
	}
	return out
}

func TestBand_ReachableSlots(t *testing.T) {
	cases := []struct {
		name   string
		lo, hi float64
		n      int
		want   []int
	}{
		{"corrupt replace", 0.7, 1, 8, []int{5, 6, 7}},
		{"corrupt blend", 0.4, 0.7, 4, []int{1, 2}},
		{"inject", 0.8, 1, 6, []int{4, 5}},
		{"shatter replace", 0.9, 1, 8, []int{7}},
		{"shatter blend", 0.7, 0.9, 4, []int{2, 3}},
		{"thin", 0.6, 1, 6, []int{3, 4, 5}},
	}
	for _, c := range cases {
		got := reachable(c.lo, c.hi, c.n)
		if len(got) != len(c.want) {
			t.Errorf("%s: reaches %v, want %v", c.name, got, c.want)
			continue
		}
		for _, i := range c.want {
			if !got[i] {
				t.Errorf("%s: slot %d unreachable, got %v", c.name, i, got)
			}
		}
	}
}

func TestRender_MixedIgnoresLeadingSlots(t *testing.T) {
	// SignalDistortion resamples the source inside Mixed, discarding the
	// DataCorruption result, and the later stages only address slots 2–5
	// and 7. Slots 0, 1 and 6 therefore cannot reach a Mixed frame.
	r := newTestRenderer(t, gradientSource(32, 32), Surface{32, 32}, 0)
	a := rampPalette()
	b := a
	b[0] = [3]float64{1, 0, 1}
	b[1] = [3]float64{0, 1, 0}
	b[6] = [3]float64{1, 1, 0}

	for _, tm := range []float64{0, 0.37, 1.9} {
		p := Params{Intensity: 65, PatternWeight: 60, Effect: Mixed, Time: tm}
		ta, tb := r.NewTarget(), r.NewTarget()
		if err := r.Render(a, p, ta); err != nil {
			t.Fatal(err)
		}
		if err := r.Render(b, p, tb); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ta.Pix, tb.Pix) {
			t.Errorf("t=%v: slots 0, 1, 6 changed a mixed frame", tm)
		}
	}

	p := Params{Intensity: 65, Effect: DataCorruption}
	ta, tb := r.NewTarget(), r.NewTarget()
	if err := r.Render(a, p, ta); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(b, p, tb); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ta.Pix, tb.Pix) {
		t.Error("slot 1 did not reach a data-corruption frame")
	}
}

func TestParseEffect(t *testing.T) {
	for _, c := range []struct {
		in   string
		want EffectType
	}{
		{"0", DataCorruption},
		{"4", Mixed},
		{"Signal-Distortion", SignalDistortion},
		{" pixel-thinning ", PixelThinning},
		{"digital-glitch", DigitalGlitch},
	} {
		got, err := ParseEffect(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseEffect(%q) = %v, %v", c.in, got, err)
		}
	}
	for _, bad := range []string{"5", "-1", "melt"} {
		if _, err := ParseEffect(bad); err == nil {
			t.Errorf("ParseEffect(%q): expected error", bad)
		}
	}
	if Mixed.String() != "mixed" || EffectType(9).String() != "EffectType(9)" {
		t.Error("String mismatch")
	}
}

func BenchmarkRender(b *testing.B) {
	src := gradientSource(400, 300)
	r, err := NewRenderer(Surface{400, 300}, src, Options{})
	if err != nil {
		b.Fatal(err)
	}
	defer r.Close()
	target := r.NewTarget()
	pal := rampPalette()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Render(pal, Params{Intensity: 50, PatternWeight: 30, Effect: Mixed, Time: float64(i) / 60}, target)
	}
}
