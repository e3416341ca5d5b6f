package lpfx

import "github.com/ledfx/lpglsl/q32"
import "testing"

func TestHue2RGBPrimaries(t *testing.T) {
	r := Hue2RGB(0)
	if q32.ToFloat32(r.X) < 0.9 || q32.ToFloat32(r.Y) > 0.1 || q32.ToFloat32(r.Z) > 0.1 {
		t.Errorf("hue2rgb(0) should be ~red, got %+v", r)
	}
}

func TestHue2RGBRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		hue := q32.FromFloat32(float32(i) / 20.0)
		v := Hue2RGB(hue)
		for _, c := range []int32{v.X, v.Y, v.Z} {
			if c < 0 || c > q32.One {
				t.Fatalf("hue2rgb(%v) component out of [0,1]: %v", hue, c)
			}
		}
	}
}

func TestSaturateClamps(t *testing.T) {
	if Saturate(q32.FromFloat32(2)) != q32.One {
		t.Errorf("saturate(2.0) must clamp to 1.0")
	}
	if Saturate(q32.FromFloat32(-1)) != 0 {
		t.Errorf("saturate(-1.0) must clamp to 0.0")
	}
}

func TestGNoise2Range(t *testing.T) {
	v := GNoise2(q32.Vec2FromFloat32(42.5, 10.3), 123)
	f := q32.ToFloat32(v)
	if f < -0.01 || f > 1.01 {
		t.Errorf("gnoise2 out of [0,1]: %v", f)
	}
}

func TestRandom1Deterministic(t *testing.T) {
	a := Random1(q32.FromFloat32(1.0), 7)
	b := Random1(q32.FromFloat32(1.0), 7)
	if a != b {
		t.Errorf("random1 must be deterministic for identical inputs")
	}
}

func TestFBM2Converges(t *testing.T) {
	v := FBM2(q32.Vec2FromFloat32(1.0, 2.0), 4, 1)
	f := q32.ToFloat32(v)
	if f < -2 || f > 2 {
		t.Errorf("fbm2 result implausibly large: %v", f)
	}
}
