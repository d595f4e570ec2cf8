package dialogue

import (
	"strings"
	"testing"

	"github.com/nathoo/anatolia/engine/state"
	"github.com/nathoo/anatolia/types"
)

func testNPC() *types.NPCDef {
	return &types.NPCDef{
		Name:        "Kaptan Mehmet",
		Description: "A weathered fisherman.",
		Secret:      "Ancient Trident of Poseidon",
		Topics: []types.TopicDef{
			{Keyword: "sea", Response: "The Mediterranean has been my home for forty years."},
			{Keyword: "fishing", Response: "Every morning, we set sail before dawn."},
			{Keyword: "legends", Response: "There are many tales of ancient treasures."},
		},
	}
}

func TestRespond_Topic(t *testing.T) {
	npc := testNPC()
	s := state.NewState(nil)

	r := Respond(npc, "sea", s)
	if r.Kind != ReplyTopic {
		t.Fatalf("expected ReplyTopic, got %v", r.Kind)
	}
	if r.Text != "The Mediterranean has been my home for forty years." {
		t.Errorf("unexpected text %q", r.Text)
	}
	if r.Artifact != "" {
		t.Errorf("topics never grant artifacts, got %q", r.Artifact)
	}
	if r.Done() {
		t.Error("topic must not end the conversation")
	}
}

func TestRespond_TopicCaseInsensitive(t *testing.T) {
	r := Respond(testNPC(), "  FiShInG ", state.NewState(nil))
	if r.Kind != ReplyTopic {
		t.Fatalf("expected ReplyTopic, got %v", r.Kind)
	}
}

func TestRespond_SecretExactlyOnce(t *testing.T) {
	npc := testNPC()
	s := state.NewState(nil)

	first := Respond(npc, "secret object", s)
	if first.Kind != ReplySecret {
		t.Fatalf("expected ReplySecret, got %v", first.Kind)
	}
	if first.Artifact != "Ancient Trident of Poseidon" {
		t.Errorf("expected trident, got %q", first.Artifact)
	}
	if first.Text != "Here, take this Ancient Trident of Poseidon. Use it wisely." {
		t.Errorf("unexpected text %q", first.Text)
	}

	for i := 0; i < 3; i++ {
		again := Respond(npc, "Secret  Object", s)
		if again.Kind != ReplyRefusal {
			t.Fatalf("request %d: expected ReplyRefusal, got %v", i+2, again.Kind)
		}
		if again.Artifact != "" {
			t.Errorf("request %d: artifact granted twice", i+2)
		}
		if again.Text != NothingToGive {
			t.Errorf("unexpected text %q", again.Text)
		}
	}
}

func TestRespond_SecretPerPlaythrough(t *testing.T) {
	npc := testNPC()
	Respond(npc, SecretKeyword, state.NewState(nil))

	r := Respond(npc, SecretKeyword, state.NewState(nil))
	if r.Kind != ReplySecret {
		t.Error("a new playthrough must start with the secret available")
	}
}

func TestRespond_NoSecretConfigured(t *testing.T) {
	npc := testNPC()
	npc.Secret = ""
	s := state.NewState(nil)

	r := Respond(npc, SecretKeyword, s)
	if r.Kind != ReplyRefusal || r.Artifact != "" {
		t.Errorf("expected refusal without artifact, got %+v", r)
	}
	if state.IsRedeemed(s, npc.Name) {
		t.Error("refusal must not mark the NPC redeemed")
	}
}

func TestRespond_Leave(t *testing.T) {
	r := Respond(testNPC(), "Leave", state.NewState(nil))
	if !r.Done() {
		t.Fatalf("expected leave, got %v", r.Kind)
	}
	if !strings.Contains(r.Text, "Kaptan Mehmet") {
		t.Errorf("expected farewell naming the NPC, got %q", r.Text)
	}
}

func TestRespond_Unknown(t *testing.T) {
	for _, input := range []string{"weather", "", "secret", "sea fishing"} {
		r := Respond(testNPC(), input, state.NewState(nil))
		if r.Kind != ReplyUnknown {
			t.Errorf("input %q: expected ReplyUnknown, got %v", input, r.Kind)
		}
		if r.Text != NotUnderstood {
			t.Errorf("input %q: unexpected text %q", input, r.Text)
		}
	}
}

func TestMenu_Order(t *testing.T) {
	menu := Menu(testNPC())
	want := []string{"- sea", "- fishing", "- legends"}
	if len(menu) != 5 {
		t.Fatalf("expected 5 lines, got %d: %v", len(menu), menu)
	}
	for i, line := range want {
		if menu[i] != line {
			t.Errorf("line %d = %q, want %q", i, menu[i], line)
		}
	}
	if !strings.HasPrefix(menu[3], "- secret object") || !strings.HasPrefix(menu[4], "- leave") {
		t.Errorf("reserved keywords missing: %v", menu[3:])
	}
}

func TestFindTopic(t *testing.T) {
	if _, ok := FindTopic(testNPC(), "Legends"); !ok {
		t.Error("expected legends topic")
	}
	if _, ok := FindTopic(testNPC(), "history"); ok {
		t.Error("history is not a topic of the fisherman")
	}
}
