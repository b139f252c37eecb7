package layout

import "math"

// normalize scales positions to fill the canvas minus padding.
// Degenerate axes (all nodes on one line) are centered.
func normalize(pos []point, cfg Config) {
	if len(pos) == 0 {
		return
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}

	targetW := cfg.Width - 2*cfg.Padding
	targetH := cfg.Height - 2*cfg.Padding
	for i, p := range pos {
		pos[i] = point{
			x: scale(p.x, minX, maxX, cfg.Padding, targetW),
			y: scale(p.y, minY, maxY, cfg.Padding, targetH),
		}
	}
}

func scale(v, lo, hi, offset, span float64) float64 {
	if hi-lo < 0.01 {
		return offset + span/2
	}
	return offset + (v-lo)/(hi-lo)*span
}

type point struct{ x, y float64 }
