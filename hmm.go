package segment

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// minFloat is the floor log-probability used for any missing start,
// transition, or emission lookup.
const minFloat float64 = -3.14e100

// HMM state indices. Encoded as a fixed 0..3 range so the Viterbi trellis
// can use plain [4]float64 arrays instead of map[string]float64, following
// the array-based DP shape used by the khmer segmenter example in the
// retrieval pack.
const (
	stateB = iota
	stateM
	stateE
	stateS
	numStates = 4
)

var stateLetters = [numStates]byte{'B', 'M', 'E', 'S'}

func stateIndex(letter byte) int {
	switch letter {
	case 'B':
		return stateB
	case 'M':
		return stateM
	case 'E':
		return stateE
	case 'S':
		return stateS
	default:
		return -1
	}
}

// prevStates[s] lists the states allowed to precede state s:
// B<-{E,S}, M<-{M,B}, E<-{B,M}, S<-{S,E}.
var prevStates = [numStates][]int{
	stateB: {stateE, stateS},
	stateM: {stateM, stateB},
	stateE: {stateB, stateM},
	stateS: {stateS, stateE},
}

// HMMModel holds the start/transition/emission log-probabilities over
// states {B, M, E, S}. Start and transition are hard-coded constants;
// emission is loaded from an external resource.
type HMMModel struct {
	start [numStates]float64
	trans [numStates][numStates]float64
	emit  [numStates]map[rune]float64
}

// newJiebaHMM returns the HMM model with jieba's hard-coded start/transition
// constants and an empty emission table, ready for LoadEmission.
func newJiebaHMM() *HMMModel {
	m := &HMMModel{}
	for s := 0; s < numStates; s++ {
		for s2 := 0; s2 < numStates; s2++ {
			m.trans[s][s2] = minFloat
		}
		m.emit[s] = make(map[rune]float64)
	}
	m.start[stateB] = -0.26268660809250016
	m.start[stateE] = minFloat
	m.start[stateM] = minFloat
	m.start[stateS] = -1.4652633398537678

	m.trans[stateB][stateE] = -0.5108
	m.trans[stateB][stateM] = -0.9163
	m.trans[stateE][stateB] = -0.5897
	m.trans[stateE][stateS] = -0.8085
	m.trans[stateM][stateE] = -0.3334
	m.trans[stateM][stateM] = -1.2604
	m.trans[stateS][stateB] = -0.7212
	m.trans[stateS][stateS] = -0.6659
	return m
}

func (m *HMMModel) emitP(state int, c rune) float64 {
	if v, ok := m.emit[state][c]; ok {
		return v
	}
	return minFloat
}

// LoadEmission parses a prob_emit.txt-shaped stream: lines consisting of a
// single B/M/E/S character start a new group; subsequent "char<TAB>log_p"
// lines until the next group belong to that state.
func (m *HMMModel) LoadEmission(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	current := -1
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) == 1 {
			if idx := stateIndex(byte(runes[0])); runes[0] < 0x80 && idx != -1 {
				current = idx
				continue
			}
		}
		if current == -1 {
			return errors.Errorf("emission file: record %q before any state group marker", line)
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue // malformed line: skipped individually, per DictLoadError policy
		}
		charRunes := []rune(fields[0])
		if len(charRunes) != 1 {
			continue
		}
		logp, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		m.emit[current][charRunes[0]] = logp
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading emission file")
	}
	return nil
}

// viterbiDecode runs the Viterbi algorithm over buf, returning one BMES tag
// per character. buf must have length >= 1.
func viterbiDecode(m *HMMModel, buf []rune) []byte {
	n := len(buf)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []byte{'S'}
	}

	var v [numStates]float64
	back := make([][numStates]int8, n)

	for s := 0; s < numStates; s++ {
		v[s] = m.start[s] + m.emitP(s, buf[0])
		back[0][s] = -1
	}

	for t := 1; t < n; t++ {
		var next [numStates]float64
		for s := 0; s < numStates; s++ {
			bestScore := minFloat
			bestPrev := int8(-1)
			for _, p := range prevStates[s] {
				score := v[p] + m.trans[p][s]
				if bestPrev == -1 || score > bestScore {
					bestScore = score
					bestPrev = int8(p)
				}
			}
			next[s] = bestScore + m.emitP(s, buf[t])
			back[t][s] = bestPrev
		}
		v = next
	}

	last := stateE
	if v[stateS] > v[stateE] {
		last = stateS
	}

	tags := make([]byte, n)
	s := last
	for t := n - 1; t >= 0; t-- {
		tags[t] = stateLetters[s]
		if t > 0 {
			s = int(back[t][s])
		}
	}
	return tags
}

// sliceByTags cuts buf into words according to a BMES tag sequence: a word
// starts at B, ends at E, S is a standalone word, M does nothing. A
// sequence that ends mid-word without a closing E emits the unterminated
// suffix as a final fragment.
func sliceByTags(buf []rune, tags []byte) []string {
	var words []string
	pieceStart := 0
	for i, tag := range tags {
		if tag == 'E' || tag == 'S' {
			words = append(words, string(buf[pieceStart:i+1]))
			pieceStart = i + 1
		}
	}
	if pieceStart < len(buf) {
		words = append(words, string(buf[pieceStart:]))
	}
	return words
}
