package unobot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("invalid_phase(= %d)", int(p))
	}
}

type UnoOutcome string

const (
	UnoSafe     UnoOutcome = "safe"
	UnoTooEarly UnoOutcome = "too_early"
	UnoPenalty  UnoOutcome = "penalty"
	UnoNoTarget UnoOutcome = "no_target"
)

const (
	DefaultHandSize = 7
	DefaultUnoGrace = 5 * time.Second
)

// Rules holds the house-rule knobs of a game. With StackDraws off a played
// DrawTwo/WildDrawFour makes the next player draw on the spot and lose their
// turn. With it on, penalties accumulate in a pending counter that the next
// player can push onward by stacking a card of the same kind; drawing while
// a penalty is pending collects the whole accumulated count.
type Rules struct {
	HandSize   int
	UnoGrace   time.Duration
	StackDraws bool
}

func DefaultRules() Rules {
	return Rules{
		HandSize: DefaultHandSize,
		UnoGrace: DefaultUnoGrace,
	}
}

// Game is one lobby's live state machine. It is not safe for concurrent use;
// the service layer serializes access per lobby.
type Game struct {
	rules  Rules
	logger *log.Logger
	now    func() time.Time

	players      []string
	hands        map[string]Deck
	drawPile     Deck
	discardPile  Deck
	currentIndex int
	direction    int
	phase        Phase
	pendingDraw  int
	pendingKind  CardKind
	unoDeadline  map[string]time.Time
	winner       string
	events       []GameEvent
}

func NewGame(rules Rules, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		rules:       rules,
		logger:      logger,
		now:         time.Now,
		hands:       make(map[string]Deck),
		drawPile:    NewEmptyDeck(),
		discardPile: NewEmptyDeck(),
		direction:   1,
		phase:       PhaseLobby,
		unoDeadline: make(map[string]time.Time),
	}
}

// SetNowFunc replaces the clock used for the uno-call grace window. Only
// meant for tests.
func (g *Game) SetNowFunc(now func() time.Time) {
	g.now = now
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) CurrentPlayer() string {
	if g.phase != PhasePlaying {
		return ""
	}
	return g.players[g.currentIndex]
}

func (g *Game) Players() []string {
	return slices.Clone(g.players)
}

func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Hand returns a copy of the player's hand, nil if they are not in the game.
func (g *Game) Hand(player string) Deck {
	hand, ok := g.hands[player]
	if !ok {
		return nil
	}
	return hand.Clone()
}

func (g *Game) HandCounts() map[string]int {
	counts := make(map[string]int, len(g.hands))
	for player, hand := range g.hands {
		counts[player] = hand.Len()
	}
	return counts
}

// TopCard returns the discard pile's top card. The second return is false
// only before the first card has been flipped.
func (g *Game) TopCard() (Card, bool) {
	if g.discardPile.IsEmpty() {
		return Card{}, false
	}
	return g.discardPile.MustTop(), true
}

func (g *Game) Winner() string {
	return g.winner
}

func (g *Game) Direction() int {
	return g.direction
}

func (g *Game) PendingDraw() int {
	return g.pendingDraw
}

func (g *Game) DrawPileCount() int {
	return g.drawPile.Len()
}

func (g *Game) DiscardPileCount() int {
	return g.discardPile.Len()
}

// TotalCardCount sums the draw pile, discard pile and every hand. It is 108
// for the whole lifetime of a running game.
func (g *Game) TotalCardCount() int {
	total := g.drawPile.Len() + g.discardPile.Len()
	for _, hand := range g.hands {
		total += hand.Len()
	}
	return total
}

// UnoVulnerable reports whether the player has an open uno-call window,
// i.e. they are down to one card and have not called uno yet.
func (g *Game) UnoVulnerable(player string) bool {
	_, open := g.unoDeadline[player]
	return open
}

// UnoCatchable reports whether the player's grace period has elapsed with
// no uno call, making them a valid catch target.
func (g *Game) UnoCatchable(player string) bool {
	deadline, open := g.unoDeadline[player]
	return open && !g.now().Before(deadline)
}

func (g *Game) UnoDeadline(player string) (time.Time, bool) {
	deadline, open := g.unoDeadline[player]
	return deadline, open
}

// DrainEvents returns the events recorded since the last drain and clears
// the buffer. The service forwards these to the presentation layer.
func (g *Game) DrainEvents() []GameEvent {
	events := g.events
	g.events = nil
	return events
}

func (g *Game) emit(event GameEvent) {
	g.events = append(g.events, event)
}

// Start deals the starting hands from a fresh shuffled deck and flips the
// first number card as the starting top card. Action cards flipped this way
// go under the draw pile, so their effects are never applied on turn one.
func (g *Game) Start(players []string) error {
	if g.phase != PhaseLobby {
		return NewAlreadyStartedError()
	}
	if len(players) < 2 {
		return NewNotEnoughPlayersError(len(players))
	}
	for i, player := range players {
		if slices.Contains(players[:i], player) {
			return NewInvalidPlayerError(player)
		}
	}
	if g.rules.HandSize <= 0 || g.rules.HandSize > 12 {
		panic("let's not use too large of a starting hand count")
	}
	// 32 of the 108 cards are action or wild cards. Leaving at least 33
	// cards undealt guarantees the deal cannot run the deck dry and the
	// starting-card flip below terminates on a number card.
	if 108-len(players)*g.rules.HandSize < 33 {
		return NewTooManyPlayersError(len(players))
	}

	g.players = slices.Clone(players)
	g.drawPile = NewShuffledDeck()
	g.hands = make(map[string]Deck, len(players))

	for _, player := range players {
		hand := NewEmptyDeck()
		for i := 0; i < g.rules.HandSize; i++ {
			hand = hand.Push(g.drawPile.MustTop())
			g.drawPile = g.drawPile.MustPop()
		}
		g.hands[player] = hand
	}

	for {
		top := g.drawPile.MustTop()
		g.drawPile = g.drawPile.MustPop()
		if top.Kind == KindNumber {
			g.discardPile = g.discardPile.Push(top)
			break
		}
		g.drawPile = append(Deck{top}, g.drawPile...)
	}

	g.currentIndex = 0
	g.direction = 1
	g.phase = PhasePlaying

	g.logger.Printf("started game with players %v, top card %s", players, g.discardPile.MustTop())
	return nil
}

// Play validates and applies one card play by the current player. chosen is
// the color picked for a wild-family card and must be ColorNone otherwise.
func (g *Game) Play(player string, card Card, chosen Color) error {
	if g.phase != PhasePlaying {
		return NewGameNotActiveError()
	}
	if player != g.CurrentPlayer() {
		return NewNotYourTurnError(player)
	}

	hand := g.hands[player]
	cardIndex, err := hand.FindCard(card)
	if err != nil {
		return NewCardNotInHandError(player, card)
	}

	if g.pendingDraw > 0 && card.Kind != g.pendingKind {
		return NewPenaltyPendingError(g.pendingDraw)
	}

	placed := card
	if card.IsWild() {
		if !chosen.IsValid() {
			return NewInvalidColorError(chosen)
		}
		placed.Color = chosen
	} else {
		if chosen != ColorNone {
			return NewColorChoiceNotAllowedError(card)
		}
		top := g.discardPile.MustTop()
		if !CanPlay(top, card) {
			return NewIllegalPlayError(card, top)
		}
	}

	penaltyAmount := 0
	switch placed.Kind {
	case KindDrawTwo:
		penaltyAmount = 2
	case KindWildDrawFour:
		penaltyAmount = 4
	}
	if penaltyAmount > 0 && !g.rules.StackDraws && g.availableToDraw()+1 < penaltyAmount {
		// defensive: every card is in some hand, nothing left to penalize with
		g.logger.Printf("cannot apply +%d penalty, only %d drawable cards left", penaltyAmount, g.availableToDraw()+1)
		return NewNoCardsLeftError()
	}

	g.hands[player] = hand.RemoveCard(cardIndex)
	g.discardPile = g.discardPile.Push(placed)
	g.emit(CardPlayedEvent{Player: player, Card: placed})
	if placed.IsWild() {
		g.emit(WildColorChosenEvent{Player: player, Color: chosen, IsDraw4: placed.Kind == KindWildDrawFour})
	}

	if g.hands[player].IsEmpty() {
		g.winner = player
		g.phase = PhaseEnded
		delete(g.unoDeadline, player)
		g.emit(PlayerHasWonEvent{Player: player})
		return nil
	}

	if g.hands[player].Len() == 1 {
		g.unoDeadline[player] = g.now().Add(g.rules.UnoGrace)
	}

	switch placed.Kind {
	case KindSkip:
		skipped := g.playerAt(1)
		g.advance(2)
		g.emit(SkipActionEvent{Player: player, SkippedPlayer: skipped, NextPlayer: g.CurrentPlayer()})

	case KindReverse:
		g.direction = -g.direction
		if len(g.players) == 2 {
			// with two players a reverse acts as a skip
			denied := g.playerAt(1)
			g.advance(2)
			g.emit(ReverseActionEvent{Player: player, DeniedPlayer: denied, NextPlayer: g.CurrentPlayer()})
		} else {
			g.advance(1)
			g.emit(ReverseActionEvent{Player: player, NextPlayer: g.CurrentPlayer()})
		}

	case KindDrawTwo, KindWildDrawFour:
		if g.rules.StackDraws {
			g.pendingDraw += penaltyAmount
			g.pendingKind = placed.Kind
			g.advance(1)
			g.emit(DrawPenaltyEvent{Player: player, Victim: g.CurrentPlayer(), Count: g.pendingDraw, Deferred: true})
		} else {
			victim := g.playerAt(1)
			if err := g.dealTo(victim, penaltyAmount); err != nil {
				return err
			}
			g.advance(2)
			g.emit(DrawPenaltyEvent{Player: player, Victim: victim, Count: penaltyAmount, NextPlayer: g.CurrentPlayer()})
		}

	default:
		g.advance(1)
	}

	return nil
}

// Draw is the draw-and-pass action: the current player draws one card, or
// the whole pending penalty if one is outstanding, and the turn moves on.
func (g *Game) Draw(player string) error {
	if g.phase != PhasePlaying {
		return NewGameNotActiveError()
	}
	if player != g.CurrentPlayer() {
		return NewNotYourTurnError(player)
	}

	count := 1
	if g.pendingDraw > 0 {
		count = g.pendingDraw
	}

	if err := g.dealTo(player, count); err != nil {
		return err
	}
	g.pendingDraw = 0
	g.pendingKind = KindNumber

	g.advance(1)
	g.emit(PlayerPassedTurnEvent{Player: player, CardsDrawn: count, NextPlayer: g.CurrentPlayer()})
	return nil
}

// CallUno resolves an uno call. An empty or self target is a self-call,
// legal while the caller's window is open. Calling on another player is a
// catch attempt, succeeding only after their grace period elapsed.
func (g *Game) CallUno(caller, target string) (UnoOutcome, error) {
	if g.phase != PhasePlaying {
		return "", NewGameNotActiveError()
	}
	if !slices.Contains(g.players, caller) {
		return "", NewInvalidPlayerError(caller)
	}

	if target == "" || target == caller {
		if _, open := g.unoDeadline[caller]; !open {
			return UnoNoTarget, nil
		}
		delete(g.unoDeadline, caller)
		g.emit(UnoCalledEvent{Player: caller})
		return UnoSafe, nil
	}

	deadline, open := g.unoDeadline[target]
	if !open {
		return UnoNoTarget, nil
	}
	if g.now().Before(deadline) {
		return UnoTooEarly, nil
	}

	if err := g.dealTo(target, 2); err != nil {
		return "", err
	}
	g.emit(UnoCaughtEvent{Player: target, Caller: caller})
	return UnoPenalty, nil
}

// EndGame force-ends the game from any non-ended phase.
func (g *Game) EndGame() error {
	if g.phase == PhaseEnded {
		return NewGameNotActiveError()
	}
	previous := g.phase
	g.phase = PhaseEnded
	g.logger.Printf("game force-ended from phase %s", previous)
	return nil
}

func (g *Game) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Phase: %s\n", g.phase))
	sb.WriteString(fmt.Sprintf("DrawPile count: %d\n", g.drawPile.Len()))
	sb.WriteString(fmt.Sprintf("DiscardPile count: %d\n", g.discardPile.Len()))
	sb.WriteString("Hand counts:\n----------\n")
	for _, player := range g.players {
		sb.WriteString(fmt.Sprintf("%s: %d\n", player, g.hands[player].Len()))
	}
	if top, ok := g.TopCard(); ok {
		sb.WriteString(fmt.Sprintf("Top card: %s\n", top))
	}
	sb.WriteString(fmt.Sprintf("CurrentPlayer: %s\n", g.CurrentPlayer()))
	sb.WriteString(fmt.Sprintf("Direction: %d\n", g.direction))
	if g.pendingDraw > 0 {
		sb.WriteString(fmt.Sprintf("PendingDraw: +%d\n", g.pendingDraw))
	}

	return sb.String()
}

// availableToDraw counts the cards that could be drawn right now: the draw
// pile plus the discard pile minus its top card.
func (g *Game) availableToDraw() int {
	available := g.drawPile.Len()
	if g.discardPile.Len() > 1 {
		available += g.discardPile.Len() - 1
	}
	return available
}

// dealTo moves count cards from the draw pile into the player's hand,
// reshuffling the discard pile (minus its top card) into the draw pile when
// it runs dry. Fails without mutating anything if not enough cards exist,
// which would mean the 108-card conservation invariant has been broken.
func (g *Game) dealTo(player string, count int) error {
	if g.availableToDraw() < count {
		g.logger.Printf("invariant violation: need %d drawable cards, have %d", count, g.availableToDraw())
		return NewNoCardsLeftError()
	}

	for i := 0; i < count; i++ {
		if g.drawPile.IsEmpty() {
			g.reshuffleDiscardIntoDrawPile()
		}
		card := g.drawPile.MustTop()
		g.drawPile = g.drawPile.MustPop()
		g.hands[player] = g.hands[player].Push(card)
	}

	if g.hands[player].Len() != 1 {
		delete(g.unoDeadline, player)
	}
	return nil
}

func (g *Game) reshuffleDiscardIntoDrawPile() {
	if g.discardPile.Len() <= 1 {
		return
	}

	top := g.discardPile.MustTop()
	buried := g.discardPile[:g.discardPile.Len()-1].Clone()

	// wilds lose their chosen color when they re-enter the draw pile
	for i := range buried {
		if buried[i].IsWild() {
			buried[i].Color = ColorNone
		}
	}

	for i, j := range ShuffleIntRange(0, len(buried)) {
		buried[i], buried[j] = buried[j], buried[i]
	}

	g.drawPile = append(g.drawPile, buried...)
	g.discardPile = Deck{top}
	g.logger.Printf("reshuffled %d discarded cards back into the draw pile", len(buried))
}

func (g *Game) playerAt(step int) string {
	return g.players[g.nextIndex(g.currentIndex, step)]
}

func (g *Game) advance(step int) {
	g.currentIndex = g.nextIndex(g.currentIndex, step)
}

func (g *Game) nextIndex(currentIndex, step int) int {
	i := (currentIndex + g.direction*step) % len(g.players)
	if i < 0 {
		return len(g.players) + i
	}
	return i
}
