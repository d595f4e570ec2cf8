package events

import (
	"testing"

	"github.com/nathoo/anatolia/types"
)

func TestDispatch_MatchingHandler(t *testing.T) {
	var seen []string
	handlers := []Handler{
		{EventType: ArtifactGranted, Handle: func(e types.Event) types.Result {
			seen = append(seen, e.Data["artifact"].(string))
			return types.Result{Output: []string{"granted"}}
		}},
		{EventType: Moved, Handle: func(types.Event) types.Result {
			t.Error("moved handler must not run")
			return types.Result{}
		}},
	}

	r := Dispatch([]types.Event{
		{Type: ArtifactGranted, Data: map[string]any{"artifact": "Ancient Tea Cup"}},
	}, handlers)

	if len(seen) != 1 || seen[0] != "Ancient Tea Cup" {
		t.Errorf("expected handler to see the tea cup, got %v", seen)
	}
	if len(r.Output) != 1 || r.Output[0] != "granted" {
		t.Errorf("unexpected output %v", r.Output)
	}
}

func TestDispatch_WildcardHandler(t *testing.T) {
	count := 0
	handlers := []Handler{{Handle: func(types.Event) types.Result {
		count++
		return types.Result{}
	}}}

	Dispatch([]types.Event{{Type: Moved}, {Type: Saved}, {Type: Loaded}}, handlers)
	if count != 3 {
		t.Errorf("expected wildcard to see 3 events, got %d", count)
	}
}

func TestDispatch_SinglePass(t *testing.T) {
	calls := 0
	handlers := []Handler{{EventType: ArtifactGranted, Handle: func(types.Event) types.Result {
		calls++
		// Emitting the same event type again must not loop.
		return types.Result{Events: []types.Event{{Type: ArtifactGranted}, {Type: BattleStarted}}}
	}}}

	r := Dispatch([]types.Event{{Type: ArtifactGranted}}, handlers)
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
	if len(r.Events) != 2 || r.Events[1].Type != BattleStarted {
		t.Errorf("expected handler events returned, got %v", r.Events)
	}
}

func TestDispatch_NoEvents(t *testing.T) {
	r := Dispatch(nil, []Handler{{Handle: func(types.Event) types.Result {
		t.Error("handler must not run")
		return types.Result{}
	}}})
	if len(r.Output) != 0 || len(r.Events) != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
}
