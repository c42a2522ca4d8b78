package segment

import (
	"math"
	"sort"
	"sync"
)

// Engine bundles the lexicon (trie + frequency table) and the HMM model
// behind a single read-write guard. The lexicon and HMM are conceptually
// immutable during segmentation; LoadMainDictionary, LoadEmission,
// InitUserDict, InitUserDictFiles, AddWord, LoadCache, and ResetDict are the
// operations that mutate them, and they are mutually exclusive with
// segmentation and with each other.
type Engine struct {
	mu   sync.RWMutex
	trie *Trie
	freq *FreqTable
	hmm  *HMMModel

	loadedUserFiles map[string]bool
}

// New returns an Engine with an empty lexicon and jieba's hard-coded HMM
// start/transition constants. Call LoadMainDictionary (and optionally
// LoadEmission, InitUserDict) before segmenting.
func New() *Engine {
	return &Engine{
		trie:            NewTrie(),
		freq:            NewFreqTable(),
		hmm:             newJiebaHMM(),
		loadedUserFiles: make(map[string]bool),
	}
}

// ResetDict replaces the lexicon with an empty trie and clears the
// frequency table. The HMM model is unaffected.
func (e *Engine) ResetDict() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trie = NewTrie()
	e.freq = NewFreqTable()
	e.loadedUserFiles = make(map[string]bool)
}

// AddWord inserts word into the lexicon. If freq is less than 1, a
// frequency is derived by segmenting word against the current lexicon and
// combining its pieces' frequencies.
func (e *Engine) AddWord(word string, freq float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if freq < 1 {
		freq = e.suggestFreqLocked(word)
	}
	total := e.freq.total + freq
	lp := math.Log(freq / total)
	e.freq.total = total
	e.freq.logp[word] = lp
	if lp < e.freq.minLog {
		e.freq.minLog = lp
	}
	return e.trie.Insert(word)
}

func (e *Engine) suggestFreqLocked(word string) float64 {
	dSize := e.freq.total
	if dSize < 1.0 {
		dSize = 1.0
	}
	pieces := e.sentenceProcessLocked([]rune(word))
	freq := 1.0
	for _, p := range pieces {
		pieceFreq := math.Exp(e.freq.LogP(p)) * dSize
		if pieceFreq < 1 {
			pieceFreq = 1
		}
		freq *= pieceFreq / dSize
	}
	suggested := freq*dSize + 1
	if existing, ok := e.freq.logp[word]; ok {
		if existingFreq := math.Exp(existing) * dSize; existingFreq > suggested {
			return existingFreq
		}
	}
	return suggested
}

// Process splits paragraph into tokens. mode selects whether contained
// bigrams/trigrams are also emitted for INDEX-mode consumers.
func (e *Engine) Process(paragraph string, mode Mode) []Token {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.processLocked(paragraph, mode, 0)
}

func (e *Engine) processAt(paragraph string, mode Mode, base int) []Token {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.processLocked(paragraph, mode, base)
}

func (e *Engine) processLocked(paragraph string, mode Mode, base int) []Token {
	if paragraph == "" {
		return []Token{}
	}

	norm := make([]rune, 0, len(paragraph))
	for _, c := range paragraph {
		norm = append(norm, normalize(c))
	}

	var tokens []Token
	offset := base
	n := len(norm)
	i := 0
	for i < n {
		if isCJK(norm[i]) {
			j := i
			for j < n && isCJK(norm[j]) {
				j++
			}
			for _, w := range e.sentenceProcessLocked(norm[i:j]) {
				wr := []rune(w)
				if mode == Index {
					tokens = append(tokens, indexSubTokens(e.trie, wr, offset)...)
				}
				tokens = append(tokens, Token{Word: w, Start: offset, End: offset + len(wr)})
				offset += len(wr)
			}
			i = j
			continue
		}
		j := i
		for j < n && !isCJK(norm[j]) {
			j++
		}
		run, consumed := e.splitNonCJKLocked(string(norm[i:j]), offset, mode)
		tokens = append(tokens, run...)
		offset += consumed
		i = j
	}

	return tokens
}

// splitNonCJKLocked applies SkipPattern to a maximal run of non-CJK
// characters: each match becomes one token (plus its bigram/trigram
// sub-tokens in Index mode), and every character falling between matches is
// emitted as its own single-character token. Returns the produced tokens and
// the number of characters consumed, so the caller can advance its running
// offset.
func (e *Engine) splitNonCJKLocked(run string, offset int, mode Mode) ([]Token, int) {
	var tokens []Token
	start := offset

	emitChars := func(s string) {
		for _, r := range s {
			tokens = append(tokens, Token{Word: string(r), Start: offset, End: offset + 1})
			offset++
		}
	}

	matches := SkipPattern.FindAllStringIndex(run, -1)
	prevEnd := 0
	for _, m := range matches {
		if m[0] > prevEnd {
			emitChars(run[prevEnd:m[0]])
		}
		word := run[m[0]:m[1]]
		wr := []rune(word)
		if mode == Index {
			tokens = append(tokens, indexSubTokens(e.trie, wr, offset)...)
		}
		tokens = append(tokens, Token{Word: word, Start: offset, End: offset + len(wr)})
		offset += len(wr)
		prevEnd = m[1]
	}
	if prevEnd < len(run) {
		emitChars(run[prevEnd:])
	}

	return tokens, offset - start
}

// indexSubTokens returns the bigram (length > 2) and trigram (length > 3)
// tokens of wr that are present in the lexicon, in left-to-right order by
// starting offset, bigrams before trigrams.
func indexSubTokens(t *Trie, wr []rune, base int) []Token {
	n := len(wr)
	var sub []Token
	if n > 2 {
		for i := 0; i+2 <= n; i++ {
			bigram := string(wr[i : i+2])
			if t.Contains(bigram) {
				sub = append(sub, Token{Word: bigram, Start: base + i, End: base + i + 2})
			}
		}
	}
	if n > 3 {
		for i := 0; i+3 <= n; i++ {
			trigram := string(wr[i : i+3])
			if t.Contains(trigram) {
				sub = append(sub, Token{Word: trigram, Start: base + i, End: base + i + 3})
			}
		}
	}
	return sub
}

// SentenceProcess returns the plain word list for a single CJK-only
// buffer: the DP-optimal path over the DAG, with every run of two or more
// consecutive single-character spans re-segmented by the Viterbi decoder
// (see refineWithHMM). This is the routine
// TF-IDF and similar callers use directly.
func (e *Engine) SentenceProcess(buf []rune) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sentenceProcessLocked(buf)
}

func (e *Engine) sentenceProcessLocked(buf []rune) []string {
	if len(buf) == 0 {
		return nil
	}
	dag := buildDAG(e.trie, buf)
	route := bestPath(buf, dag, e.freq)
	spans := reconstructSpans(route)
	return e.refineWithHMM(buf, spans)
}

// refineWithHMM walks the DP-chosen spans, grouping consecutive
// length-1 (unknown) spans into a run and re-segmenting each run with the
// Viterbi decoder, while known multi-character spans pass through
// unchanged. When no emission data is loaded, each character of a run is
// emitted as its own word.
func (e *Engine) refineWithHMM(buf []rune, spans [][2]int) []string {
	var words []string
	runStart := -1

	hasEmit := false
	for s := 0; s < numStates; s++ {
		if len(e.hmm.emit[s]) > 0 {
			hasEmit = true
		}
	}

	flushRun := func(end int) {
		if runStart == -1 {
			return
		}
		sub := buf[runStart:end]
		if len(sub) == 1 || !hasEmit {
			for _, c := range sub {
				words = append(words, string(c))
			}
		} else {
			tags := viterbiDecode(e.hmm, sub)
			words = append(words, sliceByTags(sub, tags)...)
		}
		runStart = -1
	}

	for _, sp := range spans {
		if sp[1]-sp[0] == 1 {
			if runStart == -1 {
				runStart = sp[0]
			}
			continue
		}
		flushRun(sp[0])
		words = append(words, string(buf[sp[0]:sp[1]]))
	}
	flushRun(len(buf))
	return words
}

// processBlock is the unit of work for ProcessParallel: a paragraph-level
// chunk, its index among the paragraphs, and its character offset in the
// original input.
type processBlock struct {
	index int
	text  string
	base  int
}

// ProcessParallel splits text into paragraphs on "\n\n" and segments each
// paragraph in its own worker goroutine. If ordered is true the returned
// tokens are concatenated in input order; otherwise they are concatenated
// in completion order, which is faster but not reproducible run to run.
// Token offsets always reflect the position within the full text.
func (e *Engine) ProcessParallel(text string, mode Mode, numWorkers int, ordered bool) []Token {
	if numWorkers < 1 {
		numWorkers = 1
	}
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return []Token{}
	}

	blocks := make(chan processBlock, len(paragraphs))
	base := 0
	for i, p := range paragraphs {
		blocks <- processBlock{index: i, text: p, base: base}
		base += len([]rune(p)) + 2 // +2 for the "\n\n" separator consumed between paragraphs
	}
	close(blocks)

	type result struct {
		index  int
		tokens []Token
	}
	results := make(chan result, len(paragraphs))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for b := range blocks {
				results <- result{index: b.index, tokens: e.processAt(b.text, mode, b.base)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]result, 0, len(paragraphs))
	for r := range results {
		collected = append(collected, r)
	}
	if ordered {
		sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	}

	var tokens []Token
	for _, r := range collected {
		tokens = append(tokens, r.tokens...)
	}
	return tokens
}

func splitParagraphs(text string) []string {
	if text == "" {
		return nil
	}
	var paragraphs []string
	start := 0
	runes := []rune(text)
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			paragraphs = append(paragraphs, string(runes[start:i]))
			start = i + 2
			i++
		}
	}
	paragraphs = append(paragraphs, string(runes[start:]))
	return paragraphs
}
