package room

import "encoding/json"

// teamTrivia has its data shape reserved but no transition rules yet: every
// action passes the turn along with the payload untouched.
// TODO: score answers once a question source is decided.
type teamTrivia struct {
	currentQuestion string
	answers         map[string]string
	score           map[string]int
}

func newTeamTrivia() *teamTrivia {
	return &teamTrivia{answers: make(map[string]string), score: make(map[string]int)}
}

type teamTriviaData struct {
	CurrentQuestion string            `json:"currentQuestion"`
	Answers         map[string]string `json:"answers"`
	Score           map[string]int    `json:"score"`
}

func (t *teamTrivia) data() any {
	return teamTriviaData{CurrentQuestion: t.currentQuestion, Answers: t.answers, Score: t.score}
}

func (t *teamTrivia) turnGated() bool { return false }

func (t *teamTrivia) apply(action string, data json.RawMessage, actor string) (Outcome, int) {
	return Continue, 0
}
