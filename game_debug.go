package unobot

import "log"

// NewRiggedGame instantiates a game in the Playing phase with preset hands,
// draw pile and top card instead of a random deal. This is only for
// testing/debugging purpose.
func NewRiggedGame(players []string, hands map[string]Deck, drawPile Deck, top Card, rules Rules, logger *log.Logger) *Game {
	game := NewGame(rules, logger)

	game.players = make([]string, len(players))
	copy(game.players, players)

	game.hands = make(map[string]Deck, len(players))
	for _, player := range players {
		game.hands[player] = hands[player].Clone()
	}

	game.drawPile = drawPile.Clone()
	game.discardPile = Deck{top}
	game.currentIndex = 0
	game.direction = 1
	game.phase = PhasePlaying

	return game
}
