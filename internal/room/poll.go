package room

import "encoding/json"

// quickPoll is a yes/no poll. Anyone may (re)submit a question, which resets
// the tally; each player votes at most once. The poll ends when every player
// in the start-time snapshot has voted, crediting the final voter with the
// point (long-standing scoring quirk, kept on purpose).
type quickPoll struct {
	playerCount int
	question    string
	votes       map[string]int
	voted       map[string]struct{}
}

func newQuickPoll(playerCount int) *quickPoll {
	return &quickPoll{
		playerCount: playerCount,
		votes:       make(map[string]int),
		voted:       make(map[string]struct{}),
	}
}

type quickPollData struct {
	Question string         `json:"question"`
	Votes    map[string]int `json:"votes"`
	Voted    []string       `json:"voted"`
}

func (p *quickPoll) data() any {
	voted := make([]string, 0, len(p.voted))
	for name := range p.voted {
		voted = append(voted, name)
	}
	return quickPollData{Question: p.question, Votes: p.votes, Voted: voted}
}

func (p *quickPoll) turnGated() bool { return false }

func (p *quickPoll) apply(action string, data json.RawMessage, actor string) (Outcome, int) {
	switch action {
	case "submitPoll":
		var payload struct {
			Question string `json:"question"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return Rejected, 0
		}
		p.question = payload.Question
		p.votes = map[string]int{"yes": 0, "no": 0}
		p.voted = make(map[string]struct{})
		return Continue, 0

	case "vote":
		var payload struct {
			Vote string `json:"vote"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return Rejected, 0
		}
		if payload.Vote != "yes" && payload.Vote != "no" {
			return Rejected, 0
		}
		if _, already := p.voted[actor]; already {
			return Rejected, 0
		}
		p.votes[payload.Vote]++
		p.voted[actor] = struct{}{}
		if len(p.voted) == p.playerCount {
			return End, 1
		}
		return Continue, 0
	}
	return Rejected, 0
}
