package room

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/moodboard/moodboard-server/internal/protocol"
)

// reactionRecord is what the room stores per reactor. The identity inside is
// the deduplication key and never leaves the process unprojected.
type reactionRecord struct {
	identity string
	at       time.Time
}

// Message is one stored emoji post plus its accumulated reactions, keyed
// label -> reactor display name -> record.
type Message struct {
	ID        string
	Author    string
	Emoji     string
	Timestamp string
	Reactions map[string]map[string]reactionRecord
}

func newMessage(author, emoji string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Author:    author,
		Emoji:     emoji,
		Timestamp: time.Now().Format("15:04:05"),
		Reactions: make(map[string]map[string]reactionRecord),
	}
}

// view projects the message for one viewer: each stored record collapses to
// whether it belongs to the viewer's identity.
func (m *Message) view(viewerIdentity string) protocol.MessageView {
	return protocol.MessageView{
		Type:      "emoji",
		ID:        m.ID,
		Name:      m.Author,
		Emoji:     m.Emoji,
		Timestamp: m.Timestamp,
		Reactions: lo.MapValues(m.Reactions, func(reactors map[string]reactionRecord, _ string) map[string]bool {
			return lo.MapValues(reactors, func(rec reactionRecord, _ string) bool {
				return rec.identity == viewerIdentity
			})
		}),
	}
}

// PostEmoji appends a message to the room's history, evicting the oldest
// entry beyond the history limit, and broadcasts it to the room.
func (r *Room) PostEmoji(author, emoji string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := newMessage(author, emoji)
	r.messages = append(r.messages, msg)
	if len(r.messages) > r.historyLimit {
		r.messages = r.messages[len(r.messages)-r.historyLimit:]
	}
	r.lastActivity = time.Now()

	// A fresh message has no reactions, so any viewer's projection works.
	r.broadcastLocked(msg.view(""))
}

// React records a reaction by the given identity on a message. An identity
// holds at most one active reaction per message across all labels: a prior
// reaction (any label) is removed first, and its removal is broadcast before
// the addition, carrying the display name stored when it was added.
func (r *Room) React(messageID, label, reactorName, reactorIdentity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := lo.Find(r.messages, func(m *Message) bool { return m.ID == messageID })
	if !ok {
		return ErrMessageNotFound
	}

	if oldLabel, oldName, found := findReaction(msg, reactorIdentity); found {
		delete(msg.Reactions[oldLabel], oldName)
		if len(msg.Reactions[oldLabel]) == 0 {
			delete(msg.Reactions, oldLabel)
		}
		r.broadcastLocked(protocol.ReactionEvent{
			Type:      "reaction",
			MessageID: messageID,
			Reaction:  oldLabel,
			Name:      oldName,
			Status:    false,
		})
	}

	if msg.Reactions[label] == nil {
		msg.Reactions[label] = make(map[string]reactionRecord)
	}
	msg.Reactions[label][reactorName] = reactionRecord{identity: reactorIdentity, at: time.Now()}
	r.lastActivity = time.Now()

	r.broadcastLocked(protocol.ReactionEvent{
		Type:      "reaction",
		MessageID: messageID,
		Reaction:  label,
		Name:      reactorName,
		Status:    true,
	})
	return nil
}

func findReaction(msg *Message, identity string) (label, name string, found bool) {
	for lbl, reactors := range msg.Reactions {
		for n, rec := range reactors {
			if rec.identity == identity {
				return lbl, n, true
			}
		}
	}
	return "", "", false
}

// replayLocked recomputes the per-viewer projection of the whole history.
// Never cached: display of "did I react" must track the viewer's identity.
func (r *Room) replayLocked(viewerIdentity string) []protocol.MessageView {
	return lo.Map(r.messages, func(m *Message, _ int) protocol.MessageView {
		return m.view(viewerIdentity)
	})
}
