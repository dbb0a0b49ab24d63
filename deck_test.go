package unobot

import "testing"

func TestNewDeckHas108Cards(t *testing.T) {
	if got := NewFullDeck().Len(); got != 108 {
		t.Errorf("length of new deck = %d, want 108", got)
	}
}

func multisetOf(deck Deck) map[uint32]int {
	counts := make(map[uint32]int)
	for _, card := range deck {
		counts[card.Hash()]++
	}
	return counts
}

func TestDeckHasCanonicalMultiset(t *testing.T) {
	counts := multisetOf(NewFullDeck())

	for color := Red; color <= Yellow; color++ {
		if got := counts[Card{Kind: KindNumber, Color: color, Number: 0}.Hash()]; got != 1 {
			t.Errorf("%s zero count = %d, want 1", color, got)
		}
		for number := 1; number <= 9; number++ {
			if got := counts[Card{Kind: KindNumber, Color: color, Number: number}.Hash()]; got != 2 {
				t.Errorf("%s %d count = %d, want 2", color, number, got)
			}
		}
		for _, kind := range []CardKind{KindSkip, KindReverse, KindDrawTwo} {
			if got := counts[Card{Kind: kind, Color: color}.Hash()]; got != 2 {
				t.Errorf("%s %s count = %d, want 2", color, kind, got)
			}
		}
	}

	if got := counts[Card{Kind: KindWild}.Hash()]; got != 4 {
		t.Errorf("wild count = %d, want 4", got)
	}
	if got := counts[Card{Kind: KindWildDrawFour}.Hash()]; got != 4 {
		t.Errorf("wild-draw-four count = %d, want 4", got)
	}
}

func TestShuffledDeckKeepsMultiset(t *testing.T) {
	want := multisetOf(NewFullDeck())

	for i := 0; i < 10; i++ {
		shuffled := NewShuffledDeck()
		if shuffled.Len() != 108 {
			t.Fatalf("shuffled deck length = %d, want 108", shuffled.Len())
		}

		got := multisetOf(shuffled)
		if len(got) != len(want) {
			t.Fatalf("shuffled deck has %d distinct cards, want %d", len(got), len(want))
		}
		for hash, count := range want {
			if got[hash] != count {
				t.Errorf("card %s count = %d, want %d", MustDecodeCardFromUint32(hash), got[hash], count)
			}
		}
	}
}

func TestCardHashRoundTrip(t *testing.T) {
	for _, card := range NewFullDeck() {
		decoded, err := DecodeCardFromUint32(card.EncodeUint32())
		if err != nil {
			t.Fatal(err)
		}
		if decoded != card {
			t.Errorf("decoded %s, want %s", decoded, card)
		}
	}
}

func TestFindAndRemoveCard(t *testing.T) {
	deck := Deck{
		{Kind: KindNumber, Color: Red, Number: 3},
		{Kind: KindSkip, Color: Blue},
		{Kind: KindWild},
	}

	rest, err := deck.FindAndRemoveCard(Card{Kind: KindSkip, Color: Blue})
	if err != nil {
		t.Fatal(err)
	}
	if rest.Len() != 2 {
		t.Errorf("deck length after remove = %d, want 2", rest.Len())
	}
	if _, err := rest.FindCard(Card{Kind: KindSkip, Color: Blue}); err == nil {
		t.Error("removed card still found in deck")
	}

	if _, err := deck.FindAndRemoveCard(Card{Kind: KindDrawTwo, Color: Green}); err == nil {
		t.Error("expected error removing a card that is not in the deck")
	}
}
