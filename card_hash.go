package unobot

import "errors"

// just being conservative. 3 bits each for kind and color, 4 bits for the
// number is enough.
// [unused bits][3 bits for kind][4 bits for number][3 bits for color]
const (
	colorBitsCount  = 3
	numberBitsCount = 4
	kindBitsCount   = 3
	colorMask       = uint32(1<<colorBitsCount) - 1
	numberMask      = (uint32(1<<numberBitsCount) - 1) << colorBitsCount
	kindMask        = (uint32(1<<kindBitsCount) - 1) << (colorBitsCount + numberBitsCount)
)

var ErrInvalidCardColor = errors.New("invalid card color")
var ErrInvalidCardNumber = errors.New("invalid card number")
var ErrInvalidCardKind = errors.New("invalid card kind")

func (c Card) EncodeUint32() uint32 {
	return uint32(c.Kind)<<(colorBitsCount+numberBitsCount) |
		uint32(c.Number)<<colorBitsCount |
		uint32(c.Color)
}

func DecodeCardFromUint32(x uint32) (Card, error) {
	color := x & colorMask
	if color > uint32(Yellow) {
		return Card{}, ErrInvalidCardColor
	}
	number := (x & numberMask) >> colorBitsCount
	if number > 9 {
		return Card{}, ErrInvalidCardNumber
	}
	kind := (x & kindMask) >> (colorBitsCount + numberBitsCount)
	if kind > uint32(KindWildDrawFour) {
		return Card{}, ErrInvalidCardKind
	}
	return Card{Kind: CardKind(kind), Color: Color(color), Number: int(number)}, nil
}

func MustDecodeCardFromUint32(x uint32) Card {
	card, err := DecodeCardFromUint32(x)
	if err != nil {
		panic(err)
	}
	return card
}

func (c Card) Hash() uint32 {
	return c.EncodeUint32()
}
