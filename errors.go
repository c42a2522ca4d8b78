package segment

import "github.com/pkg/errors"

// ErrNullCharacter is returned by Trie.Insert when a word contains a null
// character, which collides with the root node's reserved sentinel.
var ErrNullCharacter = errors.New("segment: word contains a null character")

// ErrNoDefaultEngine is returned by the package-level convenience functions
// (Process, SentenceProcess, ...) when SetDefault has not been called yet.
var ErrNoDefaultEngine = errors.New("segment: no default engine set; call SetDefault first")

// ErrMainDictionaryEmpty is returned by LoadMainDictionary when the input
// stream contains no valid entries. The engine's current lexicon is left as
// it was, and Process and SentenceProcess keep segmenting against it; they
// do not refuse to run.
var ErrMainDictionaryEmpty = errors.New("segment: main dictionary has no valid entries")
