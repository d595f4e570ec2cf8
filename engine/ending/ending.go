// Package ending resolves the two endgame gates: the battle that starts once
// the primary artifacts are held, and the explicit confrontation.
package ending

import (
	"fmt"

	"github.com/nathoo/anatolia/engine/state"
)

// Phase is the state of the final battle.
type Phase int

const (
	Unprepared Phase = iota // dragon still hidden in shadow
	Prepared                // tea cup used, shadow form broken
	Victory                 // terminal
	Defeat                  // terminal, the player fled
)

func (p Phase) String() string {
	switch p {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether the battle is over.
func (p Phase) Terminal() bool {
	return p == Victory || p == Defeat
}

// Battle choices, as numbered in the battle menu.
const (
	ChoiceRevealer = "1"
	ChoiceSealer   = "2"
	ChoiceFlee     = "3"
)

// Battle is the mid-game encounter. Revealer must be used before Sealer.
type Battle struct {
	Revealer string // artifact that breaks the shadow form
	Sealer   string // artifact that seals the dragon away
	Phase    Phase
}

// NewBattle starts an encounter using the two artifacts of the primary gate.
func NewBattle(required []string) *Battle {
	b := &Battle{}
	if len(required) > 0 {
		b.Revealer = required[0]
	}
	if len(required) > 1 {
		b.Sealer = required[1]
	}
	return b
}

// Intro is the narrative shown when the battle begins.
func (b *Battle) Intro() []string {
	return append([]string{
		"=== The Final Battle ===",
		"As you collect the second artifact, the ground trembles...",
		"The Shadow Dragon appears before you, its dark form blocking out the sun!",
		"The dragon roars: 'Foolish mortal! You dare challenge me?'",
	}, b.Menu()...)
}

// Menu lists the available choices.
func (b *Battle) Menu() []string {
	return []string{
		"What will you do?",
		fmt.Sprintf("%s. Use the %s", ChoiceRevealer, b.Revealer),
		fmt.Sprintf("%s. Use the %s", ChoiceSealer, b.Sealer),
		fmt.Sprintf("%s. Try to run away", ChoiceFlee),
	}
}

// Choose advances the battle. Terminal phases ignore further input.
func (b *Battle) Choose(choice string) []string {
	if b.Phase.Terminal() {
		return nil
	}

	switch choice {
	case ChoiceRevealer:
		if b.Phase == Prepared {
			return []string{
				"The steam has already revealed the dragon. Now is the time to strike!",
			}
		}
		b.Phase = Prepared
		return []string{
			fmt.Sprintf("You raise the %s...", b.Revealer),
			"Its mystical steam swirls around the dragon, revealing its true form - a creature of shadow and fear!",
			"The dragon staggers, its invisibility broken!",
			fmt.Sprintf("Now is your chance to use the %s!", b.Sealer),
		}

	case ChoiceSealer:
		if b.Phase != Prepared {
			return []string{
				fmt.Sprintf("You wave the %s...", b.Sealer),
				"But the dragon is too powerful in its shadow form!",
				fmt.Sprintf("Perhaps you should try the %s first...", b.Revealer),
			}
		}
		b.Phase = Victory
		return []string{
			"=== Victory: The Dragon's Defeat ===",
			fmt.Sprintf("You raise the %s high... Its leaves begin to glow with an ancient power!", b.Sealer),
			"The dragon roars in defiance, but it's too late. The combined power of both artifacts is too strong!",
			"With a final burst of light, the Shadow Dragon is sealed away.",
			"Peace returns to the lands of Anatolia once more.",
			"THE END - Hero of Anatolia Ending Achieved!",
		}

	case ChoiceFlee:
		b.Phase = Defeat
		return []string{
			"=== The Coward's Path ===",
			"You turn and run from the Shadow Dragon...",
			"While you escape with your life, the dragon remains, free to spread darkness across the lands of Anatolia.",
			"Perhaps another hero will rise to face it.",
			"THE END - Coward's Ending Achieved!",
		}

	default:
		return []string{"That's not a valid choice. Try again!"}
	}
}

// Confront resolves the explicit apocalypse gate. It reports whether the
// player held every required artifact, along with the narrative.
func Confront(p *state.Player, required []string) (bool, []string) {
	lines := []string{
		"=== The Apocalypse Approaches ===",
		"Dark clouds gather over Anatolia. The ancient prophecy speaks of this moment...",
		"The time has come to face the darkness that threatens these lands.",
	}

	if !p.HasAll(required) {
		lines = append(lines,
			"You stand before the darkness, but you feel unprepared...",
			"The ancient artifacts could help you in this battle, but you haven't found them all.",
			"The darkness overwhelms you. Anatolia falls into eternal night.",
			"Game Over - Collect all artifacts to stand a chance against the apocalypse!",
		)
		return false, lines
	}

	lines = append(lines, "You raise the artifacts you've collected:")
	for _, name := range required {
		lines = append(lines, fmt.Sprintf("- The %s glows with ancient power", name))
	}
	lines = append(lines,
		"The artifacts respond to each other, their powers combining...",
		"A brilliant light emerges, pushing back the darkness!",
		"The prophecy was true - only by uniting the sacred artifacts of Anatolia could the apocalypse be prevented. The land is saved!",
		"Congratulations! You have completed your journey and saved Anatolia!",
	)
	return true, lines
}
