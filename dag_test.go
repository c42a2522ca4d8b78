package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrie(t *testing.T, words ...string) *Trie {
	t.Helper()
	tr := NewTrie()
	for _, w := range words {
		require.NoError(t, tr.Insert(w))
	}
	return tr
}

func TestBuildDAGKnownWords(t *testing.T) {
	tr := newTestTrie(t, "北京", "北京大学", "北京大", "京大学", "大学")
	buf := []rune("北京大学")
	dag := buildDAG(tr, buf)

	require.Len(t, dag, len(buf))
	assert.Equal(t, []int{1, 2, 3}, dag[0])
	assert.Equal(t, []int{3}, dag[1]) // only 京大学 terminates here; 京大 is not in this lexicon
	assert.Equal(t, []int{3}, dag[2]) // 大学
}

func TestBuildDAGNoMatchesFillsSingletons(t *testing.T) {
	tr := newTestTrie(t, "北京")
	buf := []rune("东京都")
	dag := buildDAG(tr, buf)
	for i := range dag {
		assert.Equal(t, []int{i}, dag[i])
	}
}

// TestBuildDAGWellFormed checks the general invariant: every position has a
// non-empty, ascending list of in-bounds end indices.
func TestBuildDAGWellFormed(t *testing.T) {
	tr := newTestTrie(t, "小明", "硕士", "毕业", "中国科学院", "计算所", "中国", "科学院", "科学")
	buf := []rune("小明硕士毕业于中国科学院计算所")
	dag := buildDAG(tr, buf)

	require.Len(t, dag, len(buf))
	for i, ends := range dag {
		require.NotEmpty(t, ends)
		prev := -1
		for _, e := range ends {
			assert.GreaterOrEqual(t, e, i)
			assert.Less(t, e, len(buf))
			assert.Greater(t, e, prev)
			prev = e
		}
	}
}
