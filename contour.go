package goresidue

import (
	"encoding/json"
	"fmt"
	"math/cmplx"
	"strconv"
	"strings"
)

// ContourKind names a supported closed contour.
type ContourKind string

const (
	KindCircle    ContourKind = "circle"
	KindRectangle ContourKind = "rectangle"
)

// Contour is a closed, positively oriented curve in the plane. Enclosure is
// strict: points on the curve are outside.
type Contour interface {
	Kind() ContourKind
	Encloses(p complex128) bool
	contour()
}

// Circle is |z - Center| = Radius.
type Circle struct {
	Center complex128
	Radius float64
}

func (Circle) Kind() ContourKind { return KindCircle }
func (Circle) contour()          {}

func (c Circle) Encloses(p complex128) bool { return cmplx.Abs(p-c.Center) < c.Radius }

func (c Circle) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"kind":   KindCircle,
		"center": complexJSON(c.Center),
		"radius": c.Radius,
	})
}

// Rectangle is the axis-aligned rectangle between two opposite corners.
// A rectangle whose corners are swapped encloses nothing.
type Rectangle struct {
	LowerLeft  complex128
	UpperRight complex128
}

func (Rectangle) Kind() ContourKind { return KindRectangle }
func (Rectangle) contour()          {}

func (r Rectangle) Encloses(p complex128) bool {
	return real(r.LowerLeft) < real(p) && real(p) < real(r.UpperRight) &&
		imag(r.LowerLeft) < imag(p) && imag(p) < imag(r.UpperRight)
}

func (r Rectangle) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"kind":        KindRectangle,
		"lower_left":  complexJSON(r.LowerLeft),
		"upper_right": complexJSON(r.UpperRight),
	})
}

func complexJSON(z complex128) map[string]float64 {
	return map[string]float64{"re": real(z), "im": imag(z)}
}

// Classify returns the poles strictly inside c, in mapping order.
func Classify(c Contour, poles PoleMap) PoleMap {
	out := PoleMap{}
	for _, p := range poles {
		if c.Encloses(p.Point.Complex()) {
			out = append(out, p)
		}
	}
	return out
}

// ParseContourKind accepts the English and Spanish names of the shapes.
func ParseContourKind(s string) (ContourKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle", "círculo", "circulo":
		return KindCircle, nil
	case "rectangle", "rectángulo", "rectangulo":
		return KindRectangle, nil
	}
	return "", &ContourParameterError{Field: "kind", Value: s}
}

// ParseContour builds a contour from form text. Only the fields of the
// chosen kind are read.
func ParseContour(kind, center, radius, lowerLeft, upperRight string) (Contour, error) {
	k, err := ParseContourKind(kind)
	if err != nil {
		return nil, err
	}
	if k == KindCircle {
		c, err := ParseComplex(center)
		if err != nil {
			return nil, &ContourParameterError{Field: "center", Value: center, Err: err}
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(radius), 64)
		if err != nil {
			return nil, &ContourParameterError{Field: "radius", Value: radius, Err: err}
		}
		return Circle{Center: c, Radius: r}, nil
	}
	ll, err := ParseComplex(lowerLeft)
	if err != nil {
		return nil, &ContourParameterError{Field: "lower_left", Value: lowerLeft, Err: err}
	}
	ur, err := ParseComplex(upperRight)
	if err != nil {
		return nil, &ContourParameterError{Field: "upper_right", Value: upperRight, Err: err}
	}
	return Rectangle{LowerLeft: ll, UpperRight: ur}, nil
}

// ParseComplex reads complex text the way Python's complex() does, with a
// trailing i accepted for the imaginary unit: "2", "-1-1j", "2j", "(1+2i)", "j".
func ParseComplex(s string) (complex128, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	if strings.HasSuffix(t, "i") || strings.HasSuffix(t, "J") {
		t = t[:len(t)-1] + "j"
	}
	if t == "" {
		return 0, fmt.Errorf("empty complex number")
	}
	if !strings.HasSuffix(t, "j") {
		re, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, err
		}
		return complex(re, 0), nil
	}
	body := t[:len(t)-1]
	split := -1
	for k := len(body) - 1; k > 0; k-- {
		if (body[k] == '+' || body[k] == '-') && body[k-1] != 'e' && body[k-1] != 'E' {
			split = k
			break
		}
	}
	realPart, imagPart := "", body
	if split > 0 {
		realPart, imagPart = body[:split], body[split:]
	}
	im, err := parseImagCoeff(imagPart)
	if err != nil {
		return 0, err
	}
	re := 0.0
	if realPart != "" {
		if re, err = strconv.ParseFloat(realPart, 64); err != nil {
			return 0, err
		}
	}
	return complex(re, im), nil
}

func parseImagCoeff(s string) (float64, error) {
	switch s {
	case "", "+":
		return 1, nil
	case "-":
		return -1, nil
	}
	return strconv.ParseFloat(s, 64)
}
