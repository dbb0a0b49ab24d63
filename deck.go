package unobot

import (
	"errors"
	"fmt"
	"strings"
)

type Deck []Card

func (d Deck) String() string {
	if len(d) == 0 {
		return "[]"
	}

	var sb strings.Builder

	sb.WriteString("[")

	for _, card := range d[0 : len(d)-1] {
		sb.WriteString(card.String())
		sb.WriteString("|")
	}

	sb.WriteString(d[len(d)-1].String())
	sb.WriteString("]")

	return sb.String()
}

func (d Deck) Len() int {
	return len(d)
}

func NewEmptyDeck() Deck {
	return make([]Card, 0, 108)
}

// NewFullDeck builds the canonical 108-card set: per color one 0, two each
// of 1-9, two skips, two reverses, two draw-twos, plus four wilds and four
// wild-draw-fours.
func NewFullDeck() Deck {
	cards := make([]Card, 0, 108)

	for color := Red; color <= Yellow; color++ {
		cards = append(cards, Card{Kind: KindNumber, Color: color, Number: 0})
		for number := 1; number <= 9; number++ {
			card := Card{Kind: KindNumber, Color: color, Number: number}
			cards = append(cards, card, card)
		}
		for i := 0; i < 2; i++ {
			cards = append(cards,
				Card{Kind: KindSkip, Color: color},
				Card{Kind: KindReverse, Color: color},
				Card{Kind: KindDrawTwo, Color: color})
		}
	}

	for i := 0; i < 4; i++ {
		cards = append(cards, Card{Kind: KindWild}, Card{Kind: KindWildDrawFour})
	}

	return Deck(cards)
}

// NewShuffledDeck builds a full deck and applies a uniform random
// permutation to it.
func NewShuffledDeck() Deck {
	deck := NewFullDeck()
	for i, j := range ShuffleIntRange(0, len(deck)) {
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

func (d Deck) IsEmpty() bool {
	return len(d) == 0
}

func (d Deck) Push(c Card) Deck {
	return append(d, c)
}

func (d Deck) Top() (Card, error) {
	if d.IsEmpty() {
		return Card{}, errors.New("empty deck")
	}
	return d[len(d)-1], nil
}

func (d Deck) MustTop() Card {
	if d.IsEmpty() {
		panic("Deck.MustTop() called on empty deck")
	}
	return d[len(d)-1]
}

func (d Deck) Pop() (Deck, error) {
	if d.IsEmpty() {
		return d, errors.New("empty deck")
	}
	return d[0 : len(d)-1], nil
}

func (d Deck) MustPop() Deck {
	if d.IsEmpty() {
		panic("Deck.MustPop() called on an empty deck")
	}
	return d[0 : len(d)-1]
}

func (d Deck) RemoveCard(index int) Deck {
	return append(d[0:index], d[index+1:]...)
}

func (d Deck) FindCard(wantedCard Card) (int, error) {
	for i, card := range d {
		if card == wantedCard {
			return i, nil
		}
	}
	return 0, fmt.Errorf("could not find card %s", wantedCard.String())
}

func (d Deck) FindAndRemoveCard(wantedCard Card) (Deck, error) {
	index, err := d.FindCard(wantedCard)
	if err != nil {
		return d, fmt.Errorf("could not remove card: %w", err)
	}
	return d.RemoveCard(index), nil
}

func (d Deck) Clone() Deck {
	clone := make(Deck, len(d))
	copy(clone, d)
	return clone
}
