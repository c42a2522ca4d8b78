package segment

// buildDAG computes, for every position i in [0, len(buf)), the ascending
// list of legal word-end indices starting at i. A position with no
// dictionary word starting there gets the singleton {i}.
func buildDAG(t *Trie, buf []rune) [][]int {
	n := len(buf)
	dag := make([][]int, n)

	i, j := 0, 0
	for i < n {
		res := t.Match(buf, i, j-i+1)
		if res.Matched {
			dag[i] = append(dag[i], j)
		}
		if res.Matched || res.Prefix {
			j++
			if j >= n {
				i++
				j = i
			}
			continue
		}
		i++
		j = i
	}

	for idx := 0; idx < n; idx++ {
		if len(dag[idx]) == 0 {
			dag[idx] = []int{idx}
		}
	}
	return dag
}
