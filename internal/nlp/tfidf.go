package nlp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a dense document-term TF-IDF matrix with L2-normalized rows.
type Matrix struct {
	Vocab []string // sorted
	Rows  [][]float64
}

// Vectorize fits TF-IDF over docs: raw term counts, smoothed idf
// ln((1+n)/(1+df))+1, rows scaled to unit length.
func Vectorize(docs []string) Matrix {
	tokens := make([][]string, len(docs))
	df := map[string]int{}
	for i, d := range docs {
		tokens[i] = Tokenize(d)
		seen := map[string]struct{}{}
		for _, t := range tokens[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, toks := range tokens {
		row := make([]float64, len(vocab))
		for _, t := range toks {
			row[index[t]]++
		}
		floats.Mul(row, idf)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		rows[i] = row
	}
	return Matrix{Vocab: vocab, Rows: rows}
}

// TFIDFKeywords ranks terms by their mean TF-IDF score across documents.
type TFIDFKeywords struct{}

func (TFIDFKeywords) TopKeywords(docs []string, n int) []string {
	if len(docs) == 0 || n <= 0 {
		return []string{}
	}
	m := Vectorize(docs)
	if len(m.Vocab) == 0 {
		return []string{}
	}
	mean := make([]float64, len(m.Vocab))
	for _, row := range m.Rows {
		floats.Add(mean, row)
	}
	floats.Scale(1/float64(len(m.Rows)), mean)

	idx := make([]int, len(m.Vocab))
	for i := range idx {
		idx[i] = i
	}
	// vocab is sorted, so a stable sort breaks ties alphabetically
	sort.SliceStable(idx, func(a, b int) bool { return mean[idx[a]] > mean[idx[b]] })

	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = m.Vocab[idx[i]]
	}
	return out
}
