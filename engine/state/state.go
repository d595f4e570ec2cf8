// Package state holds the mutable session state: the player, their quests and
// artifacts, and which NPCs have already handed over their secret.
package state

import (
	"slices"

	"github.com/nathoo/anatolia/engine/world"
)

// DefaultName is used until the player chooses one.
const DefaultName = "Adventurer"

// Player is the player's runtime state.
type Player struct {
	Name      string
	Location  *world.Location // nil only before a game starts
	Wisdom    int
	Artifacts []string        // insertion order, no duplicates
	Quests    map[string]bool // quest name → completed
}

// State is the complete mutable game state of one playthrough.
type State struct {
	Player    Player
	Redeemed  map[string]bool // NPC name → secret already given
	TurnCount int
}

// NewState creates a fresh state with the player at start.
func NewState(start *world.Location) *State {
	return &State{
		Player: Player{
			Name:      DefaultName,
			Location:  start,
			Artifacts: []string{},
			Quests:    map[string]bool{},
		},
		Redeemed: map[string]bool{},
	}
}

// AddArtifact adds name to the collection. Returns false if it was already held.
func (p *Player) AddArtifact(name string) bool {
	if p.HasArtifact(name) {
		return false
	}
	p.Artifacts = append(p.Artifacts, name)
	return true
}

// HasArtifact reports whether name has been collected.
func (p *Player) HasArtifact(name string) bool {
	return slices.Contains(p.Artifacts, name)
}

// HasAll reports whether every required artifact has been collected.
// An empty list is trivially satisfied.
func (p *Player) HasAll(required []string) bool {
	for _, name := range required {
		if !p.HasArtifact(name) {
			return false
		}
	}
	return true
}

// Missing returns the required artifacts not yet collected, in list order.
func (p *Player) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !p.HasArtifact(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// CompleteQuest marks a quest as done.
func (p *Player) CompleteQuest(name string) {
	if p.Quests == nil {
		p.Quests = map[string]bool{}
	}
	p.Quests[name] = true
}

// HasCompletedQuest returns false for quests that were never started.
func (p *Player) HasCompletedQuest(name string) bool {
	return p.Quests[name]
}

// AddWisdom awards one wisdom point.
func (p *Player) AddWisdom() {
	p.Wisdom++
}

// IsRedeemed reports whether the named NPC has already given its secret.
func IsRedeemed(s *State, npc string) bool {
	return s.Redeemed[npc]
}

// Redeem marks the named NPC's secret as given. It cannot be undone.
func Redeem(s *State, npc string) {
	if s.Redeemed == nil {
		s.Redeemed = map[string]bool{}
	}
	s.Redeemed[npc] = true
}

// RebuildRedeemed derives the redemption ledger from the player's artifacts:
// an NPC counts as redeemed when its secret artifact is held.
func RebuildRedeemed(s *State, m *world.Map) {
	s.Redeemed = map[string]bool{}
	for _, loc := range m.Locations() {
		if loc.NPC == nil || loc.NPC.Secret == "" {
			continue
		}
		if s.Player.HasArtifact(loc.NPC.Secret) {
			s.Redeemed[loc.NPC.Name] = true
		}
	}
}
