// Package events implements single-pass event handler dispatch.
// Event handlers produce additional output and events but do not recurse.
package events

import "github.com/nathoo/anatolia/types"

// Event types emitted by the engine.
const (
	Moved           = "moved"
	DialogueStarted = "dialogue_started"
	DialogueEnded   = "dialogue_ended"
	WisdomGained    = "wisdom_gained"
	ArtifactGranted = "artifact_granted"
	QuestCompleted  = "quest_completed"
	BattleStarted   = "battle_started"
	GameOver        = "game_over"
	Saved           = "saved"
	Loaded          = "loaded"
	ScreenCleared   = "screen_cleared"
)

// Handler reacts to one event type. An empty EventType matches every event.
type Handler struct {
	EventType string
	Handle    func(types.Event) types.Result
}

// Dispatch runs handlers against the emitted events. Single pass: events
// produced by handlers are returned but never dispatched again.
func Dispatch(evts []types.Event, handlers []Handler) types.Result {
	var result types.Result

	for _, event := range evts {
		for _, h := range handlers {
			if h.EventType != "" && h.EventType != event.Type {
				continue
			}
			r := h.Handle(event)
			result.Output = append(result.Output, r.Output...)
			result.Events = append(result.Events, r.Events...)
		}
	}

	return result
}
