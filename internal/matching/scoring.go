package matching

import (
	"math"
	"sort"
)

// Compatibility weighting. The split is a product decision; keeping the
// weights named makes a rebalance a one-line change.
const (
	interestsWeight = 50.0
	proximityWeight = 30.0
	ageWeight       = 20.0

	// ageSpreadYears is the age gap at which the age factor bottoms out.
	ageSpreadYears = 20.0
)

// Score rates how well candidate fits viewer, 0..100. It is a pure function:
// same inputs, same output, no storage involved. Note the proximity factor
// depends on the viewer's own max-distance preference, so Score(a, b) and
// Score(b, a) are generally different.
func Score(viewer *Profile, viewerPrefs *SwipePreferences, candidate *Profile) int {
	jaccard := jaccardIndex(tagSet(viewer), tagSet(candidate))

	distance := haversineKm(viewer.Latitude, viewer.Longitude, candidate.Latitude, candidate.Longitude)
	proximity := 0.0
	if viewerPrefs.MaxDistanceKm > 0 {
		proximity = clamp01(1 - distance/viewerPrefs.MaxDistanceKm)
	}

	ageGap := math.Abs(float64(viewer.Age - candidate.Age))
	ageFactor := math.Max(0, 1-ageGap/ageSpreadYears)

	raw := interestsWeight*jaccard + proximityWeight*proximity + ageWeight*ageFactor
	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CommonTags returns the interest and hobby tags two profiles share, sorted
// for stable output.
func CommonTags(a, b *Profile) []string {
	setB := tagSet(b)
	common := make([]string, 0)
	seen := make(map[string]bool)
	for tag := range tagSet(a) {
		if setB[tag] && !seen[tag] {
			common = append(common, tag)
			seen[tag] = true
		}
	}
	sort.Strings(common)
	return common
}

// tagSet merges a profile's interests and hobbies into one lookup set.
func tagSet(p *Profile) map[string]bool {
	set := make(map[string]bool, len(p.Interests)+len(p.Hobbies))
	for _, tag := range p.Interests {
		set[tag] = true
	}
	for _, tag := range p.Hobbies {
		set[tag] = true
	}
	return set
}

// jaccardIndex is |a ∩ b| / |a ∪ b|, with 0 when both sets are empty.
func jaccardIndex(a, b map[string]bool) float64 {
	intersection := 0
	for tag := range a {
		if b[tag] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371 // km

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0, v))
}
