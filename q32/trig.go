package q32

// fix16Pi is pi encoded in Q16.16, matching original_source q32/sin.rs's
// FIX16_PI constant exactly (205887, not round(pi*65536)=205887.4..).
const fix16Pi int32 = 205887

// Sin computes sin(x) via an 11th-order Taylor series after reducing x
// into [-pi, pi], ported from original_source q32/sin.rs. Accuracy is
// documented there as ~2.1%; sin(0) is exact.
//
//lpfx:impl symbol=__lp_q32_sin results=1
func Sin(x int32) int32 {
	if x == 0 {
		return 0
	}
	twoPi := fix16Pi << 1
	tempAngle := x % twoPi
	if tempAngle > fix16Pi {
		tempAngle -= twoPi
	} else if tempAngle < -fix16Pi {
		tempAngle += twoPi
	}

	sq := Mul(tempAngle, tempAngle)
	result := tempAngle

	term := Mul(tempAngle, sq)
	result -= term / 6

	term = Mul(term, sq)
	result += term / 120

	term = Mul(term, sq)
	result -= term / 5040

	term = Mul(term, sq)
	result += term / 362880

	term = Mul(term, sq)
	result -= term / 39916800

	return result
}

// Cos computes cos(x) = sin(x + pi/2), the identity the teacher's own
// builtin set relies on (no separate Taylor series is ported for cosine
// in the original source; the phase shift reuses Sin's range reduction).
//
//lpfx:impl symbol=__lp_q32_cos results=1
func Cos(x int32) int32 {
	const piOver2 = fix16Pi >> 1
	return Sin(Add(x, piOver2))
}

// Atan2 computes atan2(y, x) via the libfixmath quadrant-selected rational
// polynomial approximation, ported from original_source q32/atan2.rs.
//
//lpfx:impl symbol=__lp_q32_atan2 results=1
func Atan2(y, x int32) int32 {
	const piDiv4 int32 = 0x0000C90F
	const threePiDiv4 int32 = 0x00025B2F

	absY := absInt32(y)

	var baseAngle int32
	if x >= 0 {
		r := Div(x-absY, x+absY)
		r3 := Mul(Mul(r, r), r)
		baseAngle = Mul(0x00003240, r3) - Mul(0x0000FB50, r) + piDiv4
	} else {
		r := Div(x+absY, absY-x)
		r3 := Mul(Mul(r, r), r)
		baseAngle = Mul(0x00003240, r3) - Mul(0x0000FB50, r) + threePiDiv4
	}

	if y < 0 {
		return -baseAngle
	}
	return baseAngle
}
