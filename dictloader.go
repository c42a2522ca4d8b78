package segment

import (
	"bufio"
	"encoding/gob"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// LoadMainDictionary parses a main-dictionary stream: UTF-8, one entry per
// line, fields separated by tab or space runs:
// "word<WS>freq[<WS>pos_tag_ignored]". Blank lines are ignored; lines with a
// single field, or a non-numeric/non-positive freq, are skipped individually
// and logged.
// Replaces the current trie and frequency table outright; a missing main
// dictionary is catastrophic, so an empty result is reported as an error.
func (e *Engine) LoadMainDictionary(r io.Reader) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	type entry struct {
		word string
		freq float64
	}
	var entries []entry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 {
			if len(fields) == 1 {
				glog.Warningf("main dictionary: skipping line without a frequency %q", line)
			}
			continue
		}
		word := strings.ToLower(strings.TrimSpace(fields[0]))
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || freq <= 0 {
			glog.Warningf("main dictionary: skipping malformed line %q", line)
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		entries = append(entries, entry{word: word, freq: freq})
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading main dictionary")
	}
	if len(entries) == 0 {
		return ErrMainDictionaryEmpty
	}

	var total float64
	for _, en := range entries {
		total += en.freq
	}

	trie := NewTrie()
	freq := NewFreqTable()
	freq.total = total
	minLog := math.Inf(1)
	for _, en := range entries {
		lp := math.Log(en.freq / total)
		freq.logp[en.word] = lp
		if lp < minLog {
			minLog = lp
		}
		if err := trie.Insert(en.word); err != nil {
			return err
		}
	}
	freq.minLog = minLog

	e.trie = trie
	e.freq = freq
	e.loadedUserFiles = make(map[string]bool)
	glog.Infof("main dictionary loaded: %d words, total frequency %.0f", len(entries), total)
	return nil
}

// LoadEmission loads the HMM emission-probability stream. Until emission
// data is loaded the HMM fallback is off — Process and SentenceProcess still
// run, but unknown multi-character spans surface as their constituent
// characters.
func (e *Engine) LoadEmission(r io.Reader) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hmm.LoadEmission(r)
}

// InitUserDict loads a user dictionary. path may be a directory, in which
// case every "*.dict" file in it is loaded, or a single file path. Each
// user-dictionary freq is optional, defaulting to 3.0, and is normalized
// against the main dictionary's already-finalized total.
func (e *Engine) InitUserDict(path string) error {
	paths, err := discoverDictFiles(path)
	if err != nil {
		return err
	}
	return e.InitUserDictFiles(paths)
}

// InitUserDictFiles loads each of paths as a user dictionary file. A file
// already loaded (by absolute path) is skipped, so repeated calls are
// idempotent.
func (e *Engine) InitUserDictFiles(paths []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range paths {
		if err := e.loadUserDictFileLocked(p); err != nil {
			return err
		}
	}
	return nil
}

func discoverDictFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*.dict"))
		if err != nil {
			return nil, errors.Wrapf(err, "globbing %s", path)
		}
		return matches, nil
	}
	return []string{path}, nil
}

func (e *Engine) loadUserDictFileLocked(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	if e.loadedUserFiles[abs] {
		return nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return errors.Wrapf(err, "opening user dictionary %s", abs)
	}
	defer f.Close()

	const defaultUserFreq = 3.0
	if e.freq.total <= 0 {
		// No main dictionary loaded yet: fall back to a nominal total so
		// user words still get a well-defined (if uncalibrated) log-prob.
		e.freq.total = 1.0
	}

	scanner := bufio.NewScanner(f)
	loaded := 0
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 1 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(fields[0]))
		if word == "" {
			continue
		}
		freq := defaultUserFreq
		if len(fields) >= 2 {
			if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
				freq = v
			}
		}
		lp := math.Log(freq / e.freq.total)
		e.freq.logp[word] = lp
		if lp < e.freq.minLog {
			e.freq.minLog = lp
		}
		if err := e.trie.Insert(word); err != nil {
			return err
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading user dictionary %s", abs)
	}
	e.loadedUserFiles[abs] = true
	glog.Infof("user dictionary loaded: %s (%d words)", abs, loaded)
	return nil
}

// cacheSnapshot is the gob-encoded shape of a saved lexicon, for a
// fast-load path that skips re-parsing the main dictionary text.
type cacheSnapshot struct {
	Words  []string
	LogP   []float64
	MinLog float64
	Total  float64
}

// SaveCache gob-encodes the current lexicon (trie words + frequency table)
// to w, so a later LoadCache can skip re-parsing the main dictionary text.
func (e *Engine) SaveCache(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := cacheSnapshot{MinLog: e.freq.minLog, Total: e.freq.total}
	for word, lp := range e.freq.logp {
		snap.Words = append(snap.Words, word)
		snap.LogP = append(snap.LogP, lp)
	}
	return errors.Wrap(gob.NewEncoder(w).Encode(&snap), "encoding dictionary cache")
}

// LoadCache restores a lexicon previously written by SaveCache, replacing
// the current trie and frequency table.
func (e *Engine) LoadCache(r io.Reader) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var snap cacheSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return errors.Wrap(err, "decoding dictionary cache")
	}
	trie := NewTrie()
	freq := NewFreqTable()
	freq.minLog = snap.MinLog
	freq.total = snap.Total
	for i, word := range snap.Words {
		freq.logp[word] = snap.LogP[i]
		if err := trie.Insert(word); err != nil {
			return err
		}
	}
	e.trie = trie
	e.freq = freq
	e.loadedUserFiles = make(map[string]bool)
	return nil
}
