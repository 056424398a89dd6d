package ai

import (
	"math/rand"
	"testing"

	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
)

func TestHardPolicyBuysWithCushion(t *testing.T) {
	p := NewPolicy(DifficultyHard, rand.New(rand.NewSource(1)))
	offer := PropertyOffer{TileIndex: 1, Price: 1000, Rent: 100, Level: 0}
	if !p.ShouldPurchase(offer, 2000) {
		t.Fatal("hard policy must buy with ample cash")
	}
	if p.ShouldPurchase(offer, 1000) {
		t.Fatal("hard policy must keep its cushion")
	}
	if p.ShouldPurchase(PropertyOffer{}, 100000) {
		t.Fatal("zero-price offer must be refused")
	}
}

func TestUpgradeLevelCapByDifficulty(t *testing.T) {
	offer := PropertyOffer{TileIndex: 1, Price: 500, Level: 4}
	normal := NewPolicy(DifficultyNormal, rand.New(rand.NewSource(1)))
	hard := NewPolicy(DifficultyHard, rand.New(rand.NewSource(1)))
	if normal.ShouldUpgrade(offer, 100000) {
		t.Fatal("normal policy stops upgrading at high levels")
	}
	if !hard.ShouldUpgrade(offer, 100000) {
		t.Fatal("hard policy keeps upgrading")
	}
}

func TestChooseTargetAndDirection(t *testing.T) {
	p := NewPolicy(DifficultyNormal, rand.New(rand.NewSource(3)))
	if _, ok := p.ChooseTarget(nil); ok {
		t.Fatal("no candidates must report false")
	}
	target, ok := p.ChooseTarget([]string{"a", "b"})
	if !ok || (target != "a" && target != "b") {
		t.Fatalf("unexpected target %q", target)
	}
	if got := p.ChooseDirection(nil); got != -1 {
		t.Fatalf("expected -1 for empty options, got %d", got)
	}
	if got := p.ChooseDirection([]int{8, 28}); got != 8 && got != 28 {
		t.Fatalf("direction outside options: %d", got)
	}
}

func TestShouldUseCardEmptyHand(t *testing.T) {
	p := NewPolicy(DifficultyHard, rand.New(rand.NewSource(1)))
	if _, ok := p.ShouldUseCard(nil); ok {
		t.Fatal("empty hand must report false")
	}
	card, ok := p.ShouldUseCard([]cards.Card{cards.MustNew(cards.TypeShield)})
	if !ok || card.Type != cards.TypeShield {
		t.Fatalf("hard policy plays its only card, got %v %v", card, ok)
	}
}
