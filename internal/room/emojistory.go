package room

import "encoding/json"

const storyLength = 10

// emojiStory builds a shared story one emoji at a time; each contribution
// scores a point and the story ends at ten entries.
type emojiStory struct {
	story []string
	round int
}

func newEmojiStory() *emojiStory {
	return &emojiStory{round: 1}
}

type emojiStoryData struct {
	Story        []string `json:"story"`
	Guesses      []string `json:"guesses"`
	CurrentRound int      `json:"currentRound"`
}

func (e *emojiStory) data() any {
	return emojiStoryData{Story: e.story, Guesses: []string{}, CurrentRound: e.round}
}

func (e *emojiStory) turnGated() bool { return true }

func (e *emojiStory) apply(action string, data json.RawMessage, actor string) (Outcome, int) {
	if action != "addEmoji" {
		return Rejected, 0
	}
	var payload struct {
		Emoji string `json:"emoji"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Rejected, 0
	}
	e.story = append(e.story, payload.Emoji)
	if len(e.story) >= storyLength {
		return End, 1
	}
	return Continue, 1
}
