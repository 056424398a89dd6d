package cards

import "math/rand"

// Shop is the bounded rotating set of purchasable cards. Taking a card
// refills its slot with a fresh random draw, so the shop always offers the
// same number of choices.
type Shop struct {
	rng   *rand.Rand
	slots []Card
}

// NewShop creates a shop with size freshly drawn slots.
func NewShop(rng *rand.Rand, size int) *Shop {
	shop := &Shop{rng: rng, slots: make([]Card, 0, size)}
	for i := 0; i < size; i++ {
		shop.slots = append(shop.slots, shop.draw())
	}
	return shop
}

func (s *Shop) draw() Card {
	types := AllTypes()
	return MustNew(types[s.rng.Intn(len(types))])
}

// Stock returns a copy of the current offering.
func (s *Shop) Stock() []Card {
	return append([]Card(nil), s.slots...)
}

// Find returns the card with the given ID when it is on offer.
func (s *Shop) Find(cardID string) (Card, bool) {
	for _, card := range s.slots {
		if card.ID == cardID {
			return card, true
		}
	}
	return Card{}, false
}

// Take removes the card with the given ID from its slot and refills the
// slot with a fresh draw. Returns false when the card is not on offer.
func (s *Shop) Take(cardID string) (Card, bool) {
	for i, card := range s.slots {
		if card.ID == cardID {
			s.slots[i] = s.draw()
			return card, true
		}
	}
	return Card{}, false
}
