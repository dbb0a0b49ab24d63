package unobot

import "fmt"

type Color int

const (
	ColorNone Color = iota // wild-family cards carry no color until played
	Red
	Green
	Blue
	Yellow
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	case ColorNone:
		return "none"
	default:
		return "invalid_color"
	}
}

func (c Color) IsValid() bool {
	return Red <= c && c <= Yellow
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	case "yellow":
		return Yellow, nil
	}
	return ColorNone, fmt.Errorf("invalid color name: '%s'", s)
}

type CardKind int

const (
	KindNumber CardKind = iota
	KindSkip
	KindReverse
	KindDrawTwo
	KindWild
	KindWildDrawFour
)

func (k CardKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSkip:
		return "skip"
	case KindReverse:
		return "reverse"
	case KindDrawTwo:
		return "draw_two"
	case KindWild:
		return "wild"
	case KindWildDrawFour:
		return "wild_draw_four"
	default:
		return fmt.Sprintf("invalid_kind(= %d)", int(k))
	}
}

// Card is a closed tagged union over kinds. Number is meaningful only for
// KindNumber. Color stays ColorNone on wild-family cards in hand and in the
// deck; it is set to the chosen color when such a card lands on the pile.
type Card struct {
	Kind   CardKind `json:"kind"`
	Color  Color    `json:"color"`
	Number int      `json:"number"`
}

func (c Card) IsAction() bool {
	return c.Kind != KindNumber
}

func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindWildDrawFour
}

func (c Card) String() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("%d of %s", c.Number, c.Color.String())
	case KindWild, KindWildDrawFour:
		if c.Color == ColorNone {
			return c.Kind.String()
		}
		return fmt.Sprintf("%s (%s)", c.Kind.String(), c.Color.String())
	default:
		return fmt.Sprintf("%s of %s", c.Kind.String(), c.Color.String())
	}
}

var colorSymbols = map[Color]string{
	Red:    "🟥",
	Yellow: "🟨",
	Blue:   "🟦",
	Green:  "🟩",
}

func (c Card) SymbolString() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("%s%d", colorSymbols[c.Color], c.Number)
	case KindSkip:
		return colorSymbols[c.Color] + "⏭️"
	case KindReverse:
		return colorSymbols[c.Color] + "🔄"
	case KindDrawTwo:
		return colorSymbols[c.Color] + "➕2"
	case KindWild:
		return "🌈" + colorSymbols[c.Color]
	case KindWildDrawFour:
		return "➕4🌈" + colorSymbols[c.Color]
	}
	return "?"
}

// CanPlay reports whether candidate may legally be placed on top. The checks
// run in priority order:
//
//  1. a card identical to the top card is always legal
//  2. matching non-number kinds are always legal (any skip on any skip)
//  3. wild-family candidates are always legal
//  4. skip/reverse/draw-two match on the top card's effective color
//  5. numbers match on effective color, or on number when the top card is
//     also a number
//
// The top card's Color field already holds the chosen color for wild-family
// cards on the pile, so "effective color" is just top.Color here.
func CanPlay(top, candidate Card) bool {
	if candidate == top || (candidate.Kind == top.Kind && candidate.Kind != KindNumber) {
		return true
	}

	switch candidate.Kind {
	case KindWild, KindWildDrawFour:
		return true
	case KindSkip, KindReverse, KindDrawTwo:
		return candidate.Color == top.Color
	case KindNumber:
		if top.Kind == KindNumber {
			return candidate.Color == top.Color || candidate.Number == top.Number
		}
		return candidate.Color == top.Color
	}

	return false
}
