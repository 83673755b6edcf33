package syntax

import "sort"

// Classifier answers which tags cover a byte offset. A miss (offset outside
// every token) yields the empty set, which callers treat as "no exclusion
// applies".
type Classifier interface {
	TagsAt(offset int) TagSet
}

// Token is one classified span.
type Token struct {
	Tag    Tag `json:"tag"`
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End is the exclusive end offset of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// Index is an immutable Classifier backed by tokens sorted by offset.
// Tokens may overlap; TagsAt returns the union of every token covering the
// offset.
type Index struct {
	tokens []Token
	maxLen int
}

// NewIndex copies and sorts tokens. Zero-length tokens are dropped since they
// cover no offset.
func NewIndex(tokens []Token) *Index {
	sorted := make([]Token, 0, len(tokens))
	maxLen := 0
	for _, tok := range tokens {
		if tok.Length <= 0 {
			continue
		}
		sorted = append(sorted, tok)
		if tok.Length > maxLen {
			maxLen = tok.Length
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return &Index{tokens: sorted, maxLen: maxLen}
}

// TagsAt implements Classifier.
func (idx *Index) TagsAt(offset int) TagSet {
	if idx == nil || len(idx.tokens) == 0 || offset < 0 {
		return 0
	}
	// first token starting after offset
	i := sort.Search(len(idx.tokens), func(i int) bool {
		return idx.tokens[i].Offset > offset
	})
	var set TagSet
	for j := i - 1; j >= 0; j-- {
		tok := idx.tokens[j]
		if tok.Offset+idx.maxLen <= offset {
			break
		}
		if offset < tok.End() {
			set = set.With(tok.Tag)
		}
	}
	return set
}

// Tokens returns a copy of the indexed tokens in offset order.
func (idx *Index) Tokens() []Token {
	if idx == nil {
		return nil
	}
	out := make([]Token, len(idx.tokens))
	copy(out, idx.tokens)
	return out
}

// Len is the number of indexed tokens.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.tokens)
}
