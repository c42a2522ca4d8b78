package segment

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainDictionaryFromFile(t *testing.T) {
	e := New()
	f, err := os.Open("testdata/dict.txt")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, e.LoadMainDictionary(f))

	assert.True(t, e.trie.Contains("北京大学"))
	assert.True(t, e.freq.Contains("北京大学"))
	assert.Greater(t, e.freq.total, 0.0)
}

func TestLoadMainDictionarySkipsMalformedLines(t *testing.T) {
	e := New()
	input := "北京\t50000\nnofreqhere\n空词\tnotanumber\n大学\t40000\n"
	require.NoError(t, e.LoadMainDictionary(strings.NewReader(input)))
	assert.True(t, e.trie.Contains("北京"))
	assert.True(t, e.trie.Contains("大学"))
	assert.False(t, e.trie.Contains("空词"))
}

func TestLoadMainDictionaryEmptyIsError(t *testing.T) {
	e := New()
	err := e.LoadMainDictionary(strings.NewReader("\n\nmalformed\n"))
	assert.ErrorIs(t, err, ErrMainDictionaryEmpty)
}

func TestLoadMainDictionaryReplacesExisting(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadMainDictionary(strings.NewReader("北京\t50000\n")))
	assert.True(t, e.trie.Contains("北京"))
	require.NoError(t, e.LoadMainDictionary(strings.NewReader("大学\t40000\n")))
	assert.False(t, e.trie.Contains("北京"))
	assert.True(t, e.trie.Contains("大学"))
}

func TestInitUserDictFile(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadMainDictionary(strings.NewReader("北京\t50000\n")))
	require.NoError(t, e.InitUserDict("testdata/user.dict"))
	assert.True(t, e.trie.Contains("自定义词"))
	assert.True(t, e.trie.Contains("雨花石"))
}

func TestInitUserDictFileIsIdempotent(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadMainDictionary(strings.NewReader("北京\t50000\n")))
	require.NoError(t, e.InitUserDict("testdata/user.dict"))
	total := e.freq.total
	require.NoError(t, e.InitUserDict("testdata/user.dict"))
	assert.Equal(t, total, e.freq.total)
}

func TestLoadEmissionThroughEngine(t *testing.T) {
	e := New()
	f, err := os.Open("testdata/prob_emit.txt")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, e.LoadEmission(f))
	assert.InDelta(t, -0.1, e.hmm.emitP(stateB, '大'), 1e-12)
}

func TestSaveAndLoadCacheRoundTrip(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadMainDictionary(strings.NewReader("北京\t50000\n大学\t40000\n")))

	var buf bytes.Buffer
	require.NoError(t, e.SaveCache(&buf))

	restored := New()
	require.NoError(t, restored.LoadCache(&buf))
	assert.True(t, restored.trie.Contains("北京"))
	assert.True(t, restored.trie.Contains("大学"))
	assert.InDelta(t, e.freq.LogP("北京"), restored.freq.LogP("北京"), 1e-12)
	assert.Equal(t, e.freq.total, restored.freq.total)
}
