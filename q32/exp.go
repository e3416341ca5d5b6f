package q32

// fix16E is e encoded in Q16.16, matching original_source q32/exp.rs.
const fix16E int32 = 178145
const fix16MaxExp int32 = 681391
const fix16MinExp int32 = -772243

// Exp computes exp(x) via the power series 1+x+x^2/2!+..., ported from
// original_source q32/exp.rs. Negative inputs use exp(-x) = 1/exp(x)
// since the series converges much faster for positive arguments.
//
//lpfx:impl symbol=__lp_q32_exp results=1
func Exp(x int32) int32 {
	if x == 0 {
		return One
	}
	if x == One {
		return fix16E
	}
	if x >= fix16MaxExp {
		return MaxFixed
	}
	if x <= fix16MinExp {
		return 0
	}

	neg := x < 0
	inValue := x
	if neg {
		inValue = -x
	}

	result := inValue + One
	term := inValue

	for i := int32(2); i < 30; i++ {
		iFixed := i << 16
		term = Mul(term, Div(inValue, iFixed))
		result += term
		if term < 500 && (i > 15 || term < 20) {
			break
		}
	}

	if neg {
		result = Div(One, result)
	}
	return result
}

// Exp2 computes 2^x as exp(x * ln2), the standard log-domain identity;
// ln2 in Q16.16 is round(ln(2) * 65536) = 45426.
//
//lpfx:impl symbol=__lp_q32_exp2 results=1
func Exp2(x int32) int32 {
	const ln2 int32 = 45426
	return Exp(Mul(x, ln2))
}

// fix16rs is "right shift with rounding", ported from original_source
// q32/log2.rs's fix16_rs helper.
func fix16rs(x int32) int32 {
	return (x >> 1) + (x & 1)
}

func log2Inner(x int32) int32 {
	result := int32(0)
	xVal := x

	for xVal >= (2 << 16) {
		result++
		xVal = fix16rs(xVal)
	}

	if xVal == 0 {
		return result << 16
	}

	for i := 0; i < 16; i++ {
		xVal = Mul(xVal, xVal)
		result <<= 1
		if xVal >= (2 << 16) {
			result |= 1
			xVal = fix16rs(xVal)
		}
	}

	xVal = Mul(xVal, xVal)
	if xVal >= (2 << 16) {
		result++
	}
	return result
}

// Log2 computes log2(x) via libfixmath's binary-search method, ported from
// original_source q32/log2.rs. Returns MinFixed (the documented overflow
// sentinel) for x<=0.
//
//lpfx:impl symbol=__lp_q32_log2 results=1
func Log2(x int32) int32 {
	if x <= 0 {
		return MinFixed
	}
	if x < One {
		if x == 1 {
			return -(16 << 16)
		}
		inverse := Div(One, x)
		return -log2Inner(inverse)
	}
	if x == One {
		return 0
	}
	return log2Inner(x)
}

// Log computes the natural logarithm as log2(x) * ln2, the standard
// change-of-base identity; ln2 in Q16.16 is 45426.
//
//lpfx:impl symbol=__lp_q32_log results=1
func Log(x int32) int32 {
	if x <= 0 {
		return MinFixed
	}
	const ln2 int32 = 45426
	return Mul(Log2(x), ln2)
}

// Pow computes x^y, dispatching on y's sign and integrality exactly as
// original_source fixed32/pow.rs does: pow(x,0)=1, pow(0,y>0)=0, integer
// exponents via repeated squaring, negative exponents via reciprocal,
// and fractional exponents via exp2(log2(x)*y) (undefined, so 0, for a
// negative base with a fractional exponent).
//
//lpfx:impl symbol=__lp_q32_pow results=1
func Pow(x, y int32) int32 {
	if y == 0 {
		return One
	}
	if x == 0 {
		return 0
	}
	if y < 0 {
		return Div(One, Pow(x, -y))
	}
	if y&0xFFFF == 0 {
		expInt := y >> 16
		if expInt == 0 {
			return One
		}
		if expInt == 1 {
			return x
		}
		result := One
		base := x
		exp := expInt
		for exp > 0 {
			if exp&1 != 0 {
				result = Mul(result, base)
			}
			base = Mul(base, base)
			exp >>= 1
		}
		return result
	}
	if x < 0 {
		return 0
	}
	log2X := Log2(x)
	product := Mul(log2X, y)
	return Exp2(product)
}
