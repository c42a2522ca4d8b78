package segment

import "sync"

// defaultEngine is a process-global singleton: an explicit, shareable,
// immutable-after-load engine owned here only for API compatibility with
// callers that don't want to thread an *Engine through their own call
// graph. Everyone else should construct their own Engine with New.
var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// SetDefault publishes e as the package-level default engine. Only the
// first call takes effect; later calls are no-ops. A later rebuild should
// construct a new Engine and call SetDefault in a fresh process rather than
// mutating the published one in place.
func SetDefault(e *Engine) {
	defaultOnce.Do(func() {
		defaultEngine = e
	})
}

// Process delegates to the default engine. Returns ErrNoDefaultEngine if
// SetDefault has not been called yet.
func Process(paragraph string, mode Mode) ([]Token, error) {
	if defaultEngine == nil {
		return nil, ErrNoDefaultEngine
	}
	return defaultEngine.Process(paragraph, mode), nil
}

// SentenceProcess delegates to the default engine.
func SentenceProcess(buf []rune) ([]string, error) {
	if defaultEngine == nil {
		return nil, ErrNoDefaultEngine
	}
	return defaultEngine.SentenceProcess(buf), nil
}

// InitUserDict delegates to the default engine.
func InitUserDict(path string) error {
	if defaultEngine == nil {
		return ErrNoDefaultEngine
	}
	return defaultEngine.InitUserDict(path)
}

// ResetDict delegates to the default engine.
func ResetDict() error {
	if defaultEngine == nil {
		return ErrNoDefaultEngine
	}
	defaultEngine.ResetDict()
	return nil
}
