package room

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// wordChain collects words where each one must start with the last letter of
// the previous word and may not repeat. Every accepted word scores a point.
type wordChain struct {
	words      []string
	lastLetter string
	used       map[string]struct{}
}

func newWordChain() *wordChain {
	return &wordChain{used: make(map[string]struct{})}
}

type wordChainData struct {
	Words      []string `json:"words"`
	LastLetter string   `json:"lastLetter"`
	UsedWords  []string `json:"usedWords"`
}

func (w *wordChain) data() any {
	used := make([]string, 0, len(w.used))
	for word := range w.used {
		used = append(used, word)
	}
	return wordChainData{Words: w.words, LastLetter: w.lastLetter, UsedWords: used}
}

func (w *wordChain) turnGated() bool { return true }

func (w *wordChain) apply(action string, data json.RawMessage, actor string) (Outcome, int) {
	if action != "submitWord" {
		return Rejected, 0
	}
	var payload struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Rejected, 0
	}
	word := strings.ToLower(payload.Word)
	if word == "" {
		return Rejected, 0
	}
	first, _ := utf8.DecodeRuneInString(word)
	if w.lastLetter != "" && string(first) != w.lastLetter {
		return Rejected, 0
	}
	if _, seen := w.used[word]; seen {
		return Rejected, 0
	}

	w.words = append(w.words, word)
	w.used[word] = struct{}{}
	last, _ := utf8.DecodeLastRuneInString(word)
	w.lastLetter = string(last)
	return Continue, 1
}
