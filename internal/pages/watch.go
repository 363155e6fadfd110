package pages

// WatchConfig configures when a page counts as visible. RootMargin extends
// the viewport by that many viewport heights above and below; Threshold is
// the fraction of the page that must fall inside.
type WatchConfig struct {
	RootMargin float64
	Threshold  float64
}

// DefaultWatchConfig preloads three viewport heights in both directions.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{RootMargin: 3, Threshold: 0.01}
}

// Box is the vertical extent of a page container in scroll coordinates.
type Box struct {
	Top    float64
	Bottom float64
}

// Intersects reports whether a page spanning [pageTop, pageBottom)
// intersects the margin-extended viewport enough to be rendered.
func (c WatchConfig) Intersects(pageTop, pageBottom, viewportTop, viewportHeight float64) bool {
	height := pageBottom - pageTop
	if height <= 0 || viewportHeight <= 0 {
		return false
	}
	margin := c.RootMargin * viewportHeight
	top := viewportTop - margin
	bottom := viewportTop + viewportHeight + margin
	overlap := min(pageBottom, bottom) - max(pageTop, top)
	if overlap <= 0 {
		return false
	}
	return overlap/height >= c.Threshold
}

// Layout stacks n pages of equal height with gap between them.
func Layout(n int, pageHeight, gap float64) []Box {
	boxes := make([]Box, n)
	top := 0.0
	for i := range boxes {
		boxes[i] = Box{Top: top, Bottom: top + pageHeight}
		top += pageHeight + gap
	}
	return boxes
}
