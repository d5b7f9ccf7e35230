package astrodb

import "math"

const (
	degToRad     = math.Pi / 180
	arcsecPerDeg = 3600
)

// Separation returns the great-circle angular separation between two sky
// points, in arcseconds. Inputs are RA/Dec in degrees. The haversine form is
// used for numerical stability at small separations, which is exactly where
// the matching threshold lives.
func Separation(ra1, dec1, ra2, dec2 float64) float64 {
	phi1 := dec1 * degToRad
	phi2 := dec2 * degToRad
	dPhi := (dec2 - dec1) * degToRad
	dLam := (ra2 - ra1) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLam := math.Sin(dLam / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))

	return c / degToRad * arcsecPerDeg
}

// Matches decides whether two records describe the same physical object:
// true iff the great-circle separation between their representative points is
// within thresholdArcsec.
//
// The representative point is the midpoint of each record's envelope (see
// [Envelope.Center]). A record without a sky position never matches. A
// threshold of zero or less means no record is ever considered a match, so
// records are distinct by default.
func Matches(a, b Record, thresholdArcsec float64) bool {
	if thresholdArcsec <= 0 {
		return false
	}
	ea, ok := a.Envelope()
	if !ok {
		return false
	}
	eb, ok := b.Envelope()
	if !ok {
		return false
	}
	ra1, dec1 := ea.Center()
	ra2, dec2 := eb.Center()
	return Separation(ra1, dec1, ra2, dec2) <= thresholdArcsec
}
