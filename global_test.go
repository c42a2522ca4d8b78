package segment

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageLevelProcessRequiresDefault(t *testing.T) {
	defaultOnce = sync.Once{}
	defaultEngine = nil

	_, err := Process("北京", Search)
	assert.ErrorIs(t, err, ErrNoDefaultEngine)
}

func TestSetDefaultPublishesOnce(t *testing.T) {
	defaultOnce = sync.Once{}
	defaultEngine = nil

	first := New()
	require.NoError(t, first.LoadMainDictionary(strings.NewReader("北京\t50000\n")))
	SetDefault(first)

	second := New()
	SetDefault(second) // no-op: first stays published

	toks, err := Process("北京", Search)
	require.NoError(t, err)
	assert.Equal(t, []string{"北京"}, wordsOf(toks))
}
