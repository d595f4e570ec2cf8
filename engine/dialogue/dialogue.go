// Package dialogue implements the NPC conversation state machine. NPC content
// is immutable; the only lasting side effect is the per-playthrough record
// that an NPC has handed over its secret.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/nathoo/anatolia/engine/state"
	"github.com/nathoo/anatolia/types"
)

// Reserved keywords recognised in every conversation.
const (
	SecretKeyword = "secret object"
	LeaveKeyword  = "leave"
)

// Canned replies.
const (
	NothingToGive = "I don't have anything to say about that."
	NotUnderstood = "I don't understand that topic."
)

// ReplyKind classifies the outcome of one exchange.
type ReplyKind int

const (
	ReplyUnknown ReplyKind = iota // input not understood, keep conversing
	ReplyTopic                    // a registered topic was answered
	ReplySecret                   // the secret artifact was handed over
	ReplyRefusal                  // secret asked for but nothing to give
	ReplyLeave                    // conversation ended
)

// Reply is the result of one exchange.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Artifact string // set only for ReplySecret
}

// Done reports whether the conversation is over.
func (r Reply) Done() bool {
	return r.Kind == ReplyLeave
}

// FindTopic returns the topic matching keyword, ignoring case.
func FindTopic(npc *types.NPCDef, keyword string) (types.TopicDef, bool) {
	keyword = normalize(keyword)
	for _, topic := range npc.Topics {
		if strings.ToLower(topic.Keyword) == keyword {
			return topic, true
		}
	}
	return types.TopicDef{}, false
}

// Respond runs one exchange with npc. Topics are answered without side
// effects; the secret is handed over at most once per playthrough.
func Respond(npc *types.NPCDef, input string, s *state.State) Reply {
	choice := normalize(input)

	switch choice {
	case LeaveKeyword:
		return Reply{Kind: ReplyLeave, Text: fmt.Sprintf("You bid farewell to %s.", npc.Name)}
	case SecretKeyword:
		if npc.Secret == "" || state.IsRedeemed(s, npc.Name) {
			return Reply{Kind: ReplyRefusal, Text: NothingToGive}
		}
		state.Redeem(s, npc.Name)
		return Reply{
			Kind:     ReplySecret,
			Text:     fmt.Sprintf("Here, take this %s. Use it wisely.", npc.Secret),
			Artifact: npc.Secret,
		}
	}

	if topic, ok := FindTopic(npc, choice); ok {
		return Reply{Kind: ReplyTopic, Text: topic.Response}
	}
	return Reply{Kind: ReplyUnknown, Text: NotUnderstood}
}

// Menu lists the topics to offer, in declaration order, followed by the
// reserved keywords.
func Menu(npc *types.NPCDef) []string {
	lines := make([]string, 0, len(npc.Topics)+2)
	for _, topic := range npc.Topics {
		lines = append(lines, "- "+topic.Keyword)
	}
	lines = append(lines,
		"- "+SecretKeyword+" (ask about any secret items)",
		"- "+LeaveKeyword+" (end conversation)",
	)
	return lines
}

// normalize lowercases and collapses whitespace so "Secret   Object" matches.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
