/*
Package segment implements a Chinese-language word segmenter: a prefix-trie
lexicon with a dynamic-programming maximum-probability path selector over a
DAG of legal words, falling back to an HMM/Viterbi decoder for out-of-
vocabulary spans.

A caller builds an Engine, loads a main dictionary (and optionally an
emission-probability file and user dictionaries), and then calls Process or
SentenceProcess. The lexicon, frequency table, and HMM model are immutable
once loaded and safe for concurrent reads from many goroutines; mutating
calls (LoadMainDictionary, LoadEmission, InitUserDict, InitUserDictFiles,
AddWord, LoadCache, ResetDict) take an exclusive lock, so they never overlap
with in-flight segmentation.
*/
package segment
