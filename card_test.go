package unobot

import "testing"

func TestWildsPlayableOnEverything(t *testing.T) {
	for _, card := range NewFullDeck() {
		if !CanPlay(card, Card{Kind: KindWild}) {
			t.Errorf("wild should be playable on %s", card)
		}
		if !CanPlay(card, Card{Kind: KindWildDrawFour}) {
			t.Errorf("wild-draw-four should be playable on %s", card)
		}
	}
}

func TestIdenticalCardsPlayable(t *testing.T) {
	for _, card := range NewFullDeck() {
		if !CanPlay(card, card) {
			t.Errorf("%s should be playable on itself", card)
		}
	}
}

func TestSpecialCardsMatchColorOrKind(t *testing.T) {
	kinds := []Card{
		{Kind: KindSkip, Color: Blue},
		{Kind: KindReverse, Color: Blue},
		{Kind: KindDrawTwo, Color: Blue},
	}

	for _, candidate := range kinds {
		for _, top := range NewFullDeck() {
			legal := CanPlay(top, candidate)
			switch {
			case top.Color == Blue:
				if !legal {
					t.Errorf("%s should be playable on %s (matching color)", candidate, top)
				}
			case top.Kind == candidate.Kind:
				if !legal {
					t.Errorf("%s should be playable on %s (matching kind)", candidate, top)
				}
			default:
				if legal {
					t.Errorf("%s should not be playable on %s", candidate, top)
				}
			}
		}
	}
}

func TestNumberCardsMatchColorOrNumber(t *testing.T) {
	number := func(color Color, n int) Card {
		return Card{Kind: KindNumber, Color: color, Number: n}
	}

	testCases := []struct {
		top       Card
		candidate Card
		legal     bool
	}{
		{number(Blue, 10), number(Red, 10), true},
		{number(Blue, 10), number(Blue, 5), true},
		{number(Blue, 10), number(Red, 5), false},
	}

	for _, tc := range testCases {
		if got := CanPlay(tc.top, tc.candidate); got != tc.legal {
			t.Errorf("CanPlay(%s, %s) = %v, want %v", tc.top, tc.candidate, got, tc.legal)
		}
	}
}

func TestPlayOnWildUsesChosenColor(t *testing.T) {
	chosenBlue := Card{Kind: KindWild, Color: Blue}

	if !CanPlay(chosenBlue, Card{Kind: KindNumber, Color: Blue, Number: 10}) {
		t.Error("blue number should be playable on a wild with blue chosen")
	}
	if CanPlay(chosenBlue, Card{Kind: KindNumber, Color: Red, Number: 10}) {
		t.Error("red number should not be playable on a wild with blue chosen")
	}
	if !CanPlay(chosenBlue, Card{Kind: KindSkip, Color: Blue}) {
		t.Error("blue skip should be playable on a wild with blue chosen")
	}
	if CanPlay(chosenBlue, Card{Kind: KindDrawTwo, Color: Red}) {
		t.Error("red draw-two should not be playable on a wild with blue chosen")
	}
}

func TestParseColor(t *testing.T) {
	for _, color := range []Color{Red, Green, Blue, Yellow} {
		parsed, err := ParseColor(color.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != color {
			t.Errorf("ParseColor(%q) = %v, want %v", color.String(), parsed, color)
		}
	}

	if _, err := ParseColor("purple"); err == nil {
		t.Error("expected error for unknown color name")
	}
}
