package colorgraph

import (
	"math"

	"github.com/gogpu/colorgraph/internal/transfer"
)

const (
	ln10 = math.Ln10
	// pqDenomFloor keeps the PQ EOTF denominator positive near code 1.0.
	pqDenomFloor = 1e-30
)

// decodeLines emits the statements converting the encoded vec3 variable v
// to scaled linear light.
func decodeLines(v string, c transfer.Curve) []string {
	var out []string
	switch c.Form {
	case transfer.FormIdentity:
	case transfer.FormPower:
		out = append(out, v+" = pow(max("+v+", vec3<f32>(0.0)), "+splat(c.Gamma)+");")
	case transfer.FormRec709:
		out = append(out, toeInverse(v, transfer.Rec709Alpha, transfer.Rec709Beta*4.5, 4.5, 1/0.45)...)
	case transfer.FormST240M:
		out = append(out, toeInverse(v, transfer.ST240MAlpha, transfer.ST240MBeta*4, 4, 1/0.45)...)
	case transfer.FormSRGB:
		out = append(out, toeInverse(v, transfer.SRGBAlpha, transfer.SRGBBeta*12.92, 12.92, 2.4)...)
	case transfer.FormXVYCC:
		out = append(out,
			"let t0 = abs("+v+");",
			"let t1 = select(pow((t0 + "+fmtF(transfer.Rec709Alpha-1)+") / "+fmtF(transfer.Rec709Alpha)+", "+splat(1/0.45)+"), t0 / 4.5, t0 < "+splat(transfer.Rec709Beta*4.5)+");",
			v+" = sign("+v+") * t1;")
	case transfer.FormLog100:
		out = append(out, v+" = select(pow(vec3<f32>(10.0), ("+v+" - 1.0) * 2.0), vec3<f32>(0.01), "+v+" <= vec3<f32>(0.0));")
	case transfer.FormLog316:
		out = append(out, v+" = select(pow(vec3<f32>(10.0), ("+v+" - 1.0) * 2.5), "+splat(transfer.Log316Threshold)+", "+v+" <= vec3<f32>(0.0));")
	case transfer.FormPQ:
		out = append(out, pqEOTFLines(v)...)
	case transfer.FormHLG, transfer.FormHLGDisplay:
		out = append(out,
			"let t0 = max("+v+", vec3<f32>(0.0));",
			v+" = select((exp((t0 - "+fmtF(transfer.HLGC)+") / "+fmtF(transfer.HLGA)+") + "+fmtF(transfer.HLGB)+") / 12.0, t0 * t0 / 3.0, t0 <= vec3<f32>(0.5));")
		if c.Form == transfer.FormHLGDisplay {
			out = append(out,
				"let ys = dot("+v+", "+fmtVec3(transfer.HLGLuma)+");",
				v+" = select("+v+" * pow(max(ys, 0.0), "+fmtF(transfer.HLGSystemGamma-1)+"), vec3<f32>(0.0), ys <= 0.0);")
		}
	}
	if c.ToLinearScale != 1 {
		out = append(out, v+" = "+v+" * "+fmtF(c.ToLinearScale)+";")
	}
	return out
}

// encodeLines emits the statements converting scaled linear light in the
// vec3 variable v to the encoded signal.
func encodeLines(v string, c transfer.Curve) []string {
	var out []string
	if c.ToGammaScale != 1 {
		out = append(out, v+" = "+v+" * "+fmtF(c.ToGammaScale)+";")
	}
	switch c.Form {
	case transfer.FormIdentity:
	case transfer.FormPower:
		out = append(out, v+" = pow(max("+v+", vec3<f32>(0.0)), "+splat(1/c.Gamma)+");")
	case transfer.FormRec709:
		out = append(out, toe(v, transfer.Rec709Alpha, transfer.Rec709Beta, 4.5, 0.45)...)
	case transfer.FormST240M:
		out = append(out, toe(v, transfer.ST240MAlpha, transfer.ST240MBeta, 4, 0.45)...)
	case transfer.FormSRGB:
		out = append(out, toe(v, transfer.SRGBAlpha, transfer.SRGBBeta, 12.92, 1/2.4)...)
	case transfer.FormXVYCC:
		out = append(out,
			"let t0 = abs("+v+");",
			"let t1 = select("+fmtF(transfer.Rec709Alpha)+" * pow(t0, "+splat(0.45)+") - "+fmtF(transfer.Rec709Alpha-1)+", t0 * 4.5, t0 < "+splat(transfer.Rec709Beta)+");",
			v+" = sign("+v+") * t1;")
	case transfer.FormLog100:
		out = append(out, v+" = select(1.0 + log("+v+") / "+fmtF(2*ln10)+", vec3<f32>(0.0), "+v+" <= vec3<f32>(0.01));")
	case transfer.FormLog316:
		out = append(out, v+" = select(1.0 + log("+v+") / "+fmtF(2.5*ln10)+", vec3<f32>(0.0), "+v+" <= "+splat(transfer.Log316Threshold)+");")
	case transfer.FormPQ:
		out = append(out, pqInverseEOTFLines(v)...)
	case transfer.FormHLG, transfer.FormHLGDisplay:
		if c.Form == transfer.FormHLGDisplay {
			g := transfer.HLGSystemGamma
			out = append(out,
				"let yd = dot("+v+", "+fmtVec3(transfer.HLGLuma)+");",
				v+" = select("+v+" * pow(max(yd, 0.0), "+fmtF((1-g)/g)+"), vec3<f32>(0.0), yd <= 0.0);")
		}
		out = append(out,
			"let t0 = max("+v+", vec3<f32>(0.0));",
			v+" = select("+fmtF(transfer.HLGA)+" * log(12.0 * t0 - "+fmtF(transfer.HLGB)+") + "+fmtF(transfer.HLGC)+", sqrt(3.0 * t0), t0 <= "+splat(1.0/12)+");")
	}
	return out
}

// toe emits alpha*x^p - (alpha-1) above beta and x*slope below it.
func toe(v string, alpha, beta, slope, p float64) []string {
	return []string{
		"let t0 = max(" + v + ", vec3<f32>(0.0));",
		v + " = select(" + fmtF(alpha) + " * pow(t0, " + splat(p) + ") - " + fmtF(alpha-1) + ", t0 * " + fmtF(slope) + ", t0 < " + splat(beta) + ");",
	}
}

// toeInverse is the inverse of toe; knee is beta*slope.
func toeInverse(v string, alpha, knee, slope, p float64) []string {
	return []string{
		"let t0 = max(" + v + ", vec3<f32>(0.0));",
		v + " = select(pow((t0 + " + fmtF(alpha-1) + ") / " + fmtF(alpha) + ", " + splat(p) + "), t0 / " + fmtF(slope) + ", t0 < " + splat(knee) + ");",
	}
}

func pqEOTFLines(v string) []string {
	return []string{
		"let t0 = pow(max(" + v + ", vec3<f32>(0.0)), " + splat(1/transfer.PQM2) + ");",
		v + " = pow(max(t0 - " + fmtF(transfer.PQC1) + ", vec3<f32>(0.0)) / max(" + fmtF(transfer.PQC2) + " - " + fmtF(transfer.PQC3) + " * t0, " + splat(pqDenomFloor) + "), " + splat(1/transfer.PQM1) + ");",
	}
}

func pqInverseEOTFLines(v string) []string {
	return []string{
		"let t0 = pow(max(" + v + ", vec3<f32>(0.0)), " + splat(transfer.PQM1) + ");",
		v + " = pow((" + fmtF(transfer.PQC1) + " + " + fmtF(transfer.PQC2) + " * t0) / (1.0 + " + fmtF(transfer.PQC3) + " * t0), " + splat(transfer.PQM2) + ");",
	}
}

// clEncodeLines converts linear RGB to constant luminance Y'CbCr. The curve
// is applied to (Y, B, R) at once.
func clEncodeLines(p clParams) []string {
	out := []string{
		"var c = vec3<f32>(dot(x, " + fmtVec3(p.luma.Weights()) + "), x.b, x.r);",
	}
	out = append(out, block(encodeLines("c", p.curve))...)
	return append(out,
		"let db = c.y - c.x;",
		"let dr = c.z - c.x;",
		"x = vec3<f32>(c.x, select(db / "+fmtF(p.pb)+", db / "+fmtF(p.nb)+", db <= 0.0), select(dr / "+fmtF(p.pr)+", dr / "+fmtF(p.nr)+", dr <= 0.0));",
	)
}

// clDecodeLines converts constant luminance Y'CbCr to linear RGB.
func clDecodeLines(p clParams) []string {
	out := []string{
		"var c = vec3<f32>(x.x, x.x + select(x.y * " + fmtF(p.pb) + ", x.y * " + fmtF(p.nb) + ", x.y <= 0.0), x.x + select(x.z * " + fmtF(p.pr) + ", x.z * " + fmtF(p.nr) + ", x.z <= 0.0));",
	}
	out = append(out, block(decodeLines("c", p.curve))...)
	return append(out,
		"x = vec3<f32>(c.z, (c.x - "+fmtF(p.luma.Kr)+" * c.z - "+fmtF(p.luma.Kb)+" * c.y) / "+fmtF(p.luma.Kg())+", c.y);",
	)
}

// toneMapLines mirrors ToneMap.apply.
func toneMapLines(op ToneMap) []string {
	c := op.Config
	out := []string{
		"x = x * " + fmtF(op.Scale) + ";",
		"var sig = max(max(x.r, x.g), x.b);",
	}
	if c.DesatStrength > 0 {
		out = append(out,
			"let luma = dot(x, "+fmtVec3(op.Luma)+");",
			"let coeff = "+fmtF(c.DesatStrength)+" * pow(max(sig - "+fmtF(c.DesatBase)+", 1.0e-6) / max(sig, 1.0e-6), "+fmtF(c.DesatExp)+");",
			"x = mix(x, vec3<f32>(luma), coeff);",
			"sig = mix(sig, luma, coeff);",
		)
	}
	out = append(out, "let sig_orig = max(sig, 1.0e-6);")

	peak := c.peak()
	switch c.Operator {
	case ToneMapHable:
		h := c.Hable
		out = append(out, "let mapped = ((sig * ("+fmtF(h.A)+" * sig + "+fmtF(h.C*h.B)+") + "+fmtF(h.D*h.E)+") / (sig * ("+fmtF(h.A)+" * sig + "+fmtF(h.B)+") + "+fmtF(h.D*h.F)+") - "+fmtF(h.E/h.F)+") / "+fmtF(hable(h, peak))+";")
	case ToneMapMobius:
		j := c.Mobius.Transition
		if peak <= j {
			out = append(out, "let mapped = sig;")
			break
		}
		a, b := mobiusAB(j, peak)
		k := (b*b + 2*b*j + j*j) / (b - a)
		out = append(out, "let mapped = select("+fmtF(k)+" * (sig + "+fmtF(a)+") / (sig + "+fmtF(b)+"), sig, sig <= "+fmtF(j)+");")
	case ToneMapReinhard:
		offset := (1 - c.Reinhard.Contrast) / c.Reinhard.Contrast
		out = append(out, "let mapped = sig / (sig + "+fmtF(offset)+") * "+fmtF((peak+offset)/peak)+";")
	case ToneMapBT2390:
		srcPQ, maxLum, ks := bt2390Knee(c.LDRNits, c.SourcePeak)
		out = append(out,
			"let e0 = pow(max(sig * "+fmtF(c.LDRNits/transfer.PQPeakNits)+", 0.0), "+fmtF(transfer.PQM1)+");",
			"let e1 = min(pow(("+fmtF(transfer.PQC1)+" + "+fmtF(transfer.PQC2)+" * e0) / (1.0 + "+fmtF(transfer.PQC3)+" * e0), "+fmtF(transfer.PQM2)+") / "+fmtF(srcPQ)+", 1.0);",
			"let t = (e1 - "+fmtF(ks)+") / "+fmtF(1-ks)+";",
			"let t2 = t * t;",
			"let t3 = t2 * t;",
			"let e2 = select(e1, (2.0 * t3 - 3.0 * t2 + 1.0) * "+fmtF(ks)+" + (t3 - 2.0 * t2 + t) * "+fmtF(1-ks)+" + (-2.0 * t3 + 3.0 * t2) * "+fmtF(maxLum)+", e1 > "+fmtF(ks)+");",
			"let e3 = pow(e2 * "+fmtF(srcPQ)+", "+fmtF(1/transfer.PQM2)+");",
			"let mapped = pow(max(e3 - "+fmtF(transfer.PQC1)+", 0.0) / max("+fmtF(transfer.PQC2)+" - "+fmtF(transfer.PQC3)+" * e3, "+fmtF(pqDenomFloor)+"), "+fmtF(1/transfer.PQM1)+") * "+fmtF(transfer.PQPeakNits/c.LDRNits)+";",
		)
	}
	return append(out, "x = x * (mapped / sig_orig);")
}
