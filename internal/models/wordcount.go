package models

import (
	"fmt"
	"strconv"
)

// WordCount is the length of the generated mnemonic
type WordCount int

const (
	WordsLow    WordCount = 12
	WordsMedium WordCount = 18
	WordsHigh   WordCount = 24
)

func WordCounts() []WordCount {
	return []WordCount{WordsLow, WordsMedium, WordsHigh}
}

// EntropyBits maps the word count to the BIP-39 entropy size
func (w WordCount) EntropyBits() int {
	return int(w) / 3 * 32
}

func (w WordCount) Valid() bool {
	switch w {
	case WordsLow, WordsMedium, WordsHigh:
		return true
	}
	return false
}

func (w WordCount) String() string {
	return fmt.Sprintf("%d words", int(w))
}

func ParseWordCount(s string) (WordCount, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid word count %q: %w", s, err)
	}
	w := WordCount(n)
	if !w.Valid() {
		return 0, fmt.Errorf("word count must be 12, 18 or 24, got %d", n)
	}
	return w, nil
}
