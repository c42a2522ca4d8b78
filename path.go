package segment

import "math"

// routeStep is the DP record for one starting position: the best word-end
// index and the accumulated log-probability score of the suffix starting
// there.
type routeStep struct {
	end   int
	score float64
}

// bestPath runs the right-to-left DP over dag and returns one routeStep per
// position 0..n, with route[n] the sentinel {0, 0.0}.
func bestPath(buf []rune, dag [][]int, freq *FreqTable) []routeStep {
	n := len(buf)
	route := make([]routeStep, n+1)
	route[n] = routeStep{end: 0, score: 0.0}

	for i := n - 1; i >= 0; i-- {
		best := routeStep{end: -1, score: math.Inf(-1)}
		for _, x := range dag[i] {
			word := string(buf[i : x+1])
			score := freq.LogP(word) + route[x+1].score
			// Strict improvement only: ties keep the first (smallest) x
			// seen, since dag[i] is ascending.
			if best.end == -1 || score > best.score {
				best = routeStep{end: x, score: score}
			}
		}
		route[i] = best
	}
	return route
}

// reconstructSpans walks route from position 0 and returns the
// [start, end) char-index spans of the chosen path, in left-to-right order.
func reconstructSpans(route []routeStep) [][2]int {
	n := len(route) - 1
	var spans [][2]int
	x := 0
	for x < n {
		end := route[x].end
		spans = append(spans, [2]int{x, end + 1})
		x = end + 1
	}
	return spans
}
