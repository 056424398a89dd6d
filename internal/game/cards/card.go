// Package cards defines the card catalogue and the rotating card shop.
// Cards are plain tagged data; the engine resolves each tag against the
// game state with one resolver per type.
package cards

import (
	"fmt"

	"github.com/google/uuid"
)

// Type tags a card's effect.
type Type string

const (
	TypeRob         Type = "ROB"
	TypeDemolish    Type = "DEMOLISH"
	TypeTax         Type = "TAX"
	TypeTeleport    Type = "TELEPORT"
	TypeControlDice Type = "CONTROL_DICE"
	TypeSleep       Type = "SLEEP"
	TypeBomb        Type = "BOMB"
	TypeReverse     Type = "REVERSE"
	TypeTurtle      Type = "TURTLE"
	TypeShield      Type = "SHIELD"
	TypeInsurance   Type = "INSURANCE"
	TypeRedCard     Type = "RED_CARD"
	TypeBlackCard   Type = "BLACK_CARD"
	TypeLoan        Type = "LOAN"
)

// Card is immutable once drawn; using it successfully removes it from the
// holder's hand.
type Card struct {
	ID          string
	Type        Type
	Name        string
	Text        string
	Price       int
	NeedsTarget bool
}

// template is the catalogue entry a drawn card is stamped from.
type template struct {
	Name        string
	Text        string
	Price       int
	NeedsTarget bool
}

var catalogue = map[Type]template{
	TypeRob:         {"Rob", "Steal cash from another player.", 1500, true},
	TypeDemolish:    {"Demolish", "Tear one level off a player's best property.", 1800, true},
	TypeTax:         {"Wealth Tax", "Redistribute all players' cash evenly.", 2500, false},
	TypeTeleport:    {"Teleport", "Move anywhere on the board instantly.", 2000, false},
	TypeControlDice: {"Loaded Dice", "Choose the result of your next roll.", 1200, false},
	TypeSleep:       {"Sleeping Draught", "A player loses their next turn.", 1000, true},
	TypeBomb:        {"Bomb", "Send a player to the hospital.", 2200, true},
	TypeReverse:     {"Reverse", "Your next move walks backward.", 800, false},
	TypeTurtle:      {"Turtle", "A player's next roll is forced to one.", 900, true},
	TypeShield:      {"Shield", "Blocks the next card played against you.", 1600, false},
	TypeInsurance:   {"Insurance", "Covers your next rent or stay fee.", 1400, false},
	TypeRedCard:     {"Red Card", "Collect a fine from every player.", 2000, false},
	TypeBlackCard:   {"Black Card", "A player pays a fine to the bank.", 1700, true},
	TypeLoan:        {"Easy Credit", "The bank lends you cash on the spot.", 500, false},
}

// AllTypes lists every card type in the catalogue in a stable order.
func AllTypes() []Type {
	return []Type{
		TypeRob, TypeDemolish, TypeTax, TypeTeleport, TypeControlDice,
		TypeSleep, TypeBomb, TypeReverse, TypeTurtle, TypeShield,
		TypeInsurance, TypeRedCard, TypeBlackCard, TypeLoan,
	}
}

// New stamps a fresh card of the given type from the catalogue.
func New(t Type) (Card, error) {
	tmpl, ok := catalogue[t]
	if !ok {
		return Card{}, fmt.Errorf("unknown card type %q", t)
	}
	return Card{
		ID:          uuid.New().String(),
		Type:        t,
		Name:        tmpl.Name,
		Text:        tmpl.Text,
		Price:       tmpl.Price,
		NeedsTarget: tmpl.NeedsTarget,
	}, nil
}

// MustNew stamps a card and panics on an unknown type. For internal draws
// from AllTypes only.
func MustNew(t Type) Card {
	card, err := New(t)
	if err != nil {
		panic(err)
	}
	return card
}
