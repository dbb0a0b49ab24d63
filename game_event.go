package unobot

import "fmt"

// GameEvent is something that happened during a transition which the
// presentation layer may want to announce. Events are recorded by the state
// machine and drained by the service after each action.
type GameEvent interface {
	GameEventName() string
	StringMessage() string
}

type CardPlayedEvent struct {
	Player string `json:"player"`
	Card   Card   `json:"card"`
}

func (e CardPlayedEvent) GameEventName() string {
	return "CardPlayedEvent"
}

func (e CardPlayedEvent) StringMessage() string {
	return fmt.Sprintf("%s played %s %s", e.Player, e.Card.SymbolString(), e.Card.String())
}

type SkipActionEvent struct {
	Player        string `json:"player"`
	SkippedPlayer string `json:"skipped_player"`
	NextPlayer    string `json:"next_player"`
}

func (e SkipActionEvent) GameEventName() string {
	return "SkipActionEvent"
}

func (e SkipActionEvent) StringMessage() string {
	return fmt.Sprintf("%s played a skip-card, skipping %s, making %s the next player", e.Player, e.SkippedPlayer, e.NextPlayer)
}

type ReverseActionEvent struct {
	Player string `json:"player"`
	// DeniedPlayer is only set in two-player games, where a reverse acts
	// as a skip
	DeniedPlayer string `json:"denied_player,omitempty"`
	NextPlayer   string `json:"next_player"`
}

func (e ReverseActionEvent) GameEventName() string {
	return "ReverseActionEvent"
}

func (e ReverseActionEvent) StringMessage() string {
	if e.DeniedPlayer != "" {
		return fmt.Sprintf("%s played a reverse-card, skipping %s and making %s the next player", e.Player, e.DeniedPlayer, e.NextPlayer)
	}
	return fmt.Sprintf("%s played a reverse-card, %s is the next player", e.Player, e.NextPlayer)
}

type DrawPenaltyEvent struct {
	Player string `json:"player"`
	Victim string `json:"victim"`
	Count  int    `json:"count"`
	// Deferred means the penalty is pending (stacking rules) rather than
	// drawn immediately
	Deferred   bool   `json:"deferred,omitempty"`
	NextPlayer string `json:"next_player,omitempty"`
}

func (e DrawPenaltyEvent) GameEventName() string {
	return "DrawPenaltyEvent"
}

func (e DrawPenaltyEvent) StringMessage() string {
	if e.Deferred {
		return fmt.Sprintf("%s raised the pending draw penalty to +%d on %s", e.Player, e.Count, e.Victim)
	}
	return fmt.Sprintf("%s made %s draw %d cards and skip, making %s the next player", e.Player, e.Victim, e.Count, e.NextPlayer)
}

type WildColorChosenEvent struct {
	Player  string `json:"player"`
	Color   Color  `json:"color"`
	IsDraw4 bool   `json:"is_draw4"`
}

func (e WildColorChosenEvent) GameEventName() string {
	return "WildColorChosenEvent"
}

func (e WildColorChosenEvent) StringMessage() string {
	return fmt.Sprintf("%s chose wild card color to be %s", e.Player, e.Color.String())
}

type PlayerPassedTurnEvent struct {
	Player     string `json:"player"`
	CardsDrawn int    `json:"cards_drawn"`
	NextPlayer string `json:"next_player"`
}

func (e PlayerPassedTurnEvent) GameEventName() string {
	return "PlayerPassedTurnEvent"
}

func (e PlayerPassedTurnEvent) StringMessage() string {
	return fmt.Sprintf("%s drew %d card(s) and passed, next player is %s", e.Player, e.CardsDrawn, e.NextPlayer)
}

type UnoCalledEvent struct {
	Player string `json:"player"`
}

func (e UnoCalledEvent) GameEventName() string {
	return "UnoCalledEvent"
}

func (e UnoCalledEvent) StringMessage() string {
	return fmt.Sprintf("%s called UNO and is safe", e.Player)
}

type UnoCaughtEvent struct {
	Player string `json:"player"`
	Caller string `json:"caller"`
}

func (e UnoCaughtEvent) GameEventName() string {
	return "UnoCaughtEvent"
}

func (e UnoCaughtEvent) StringMessage() string {
	return fmt.Sprintf("%s got caught by %s without calling UNO and draws 2 cards", e.Player, e.Caller)
}

type PlayerHasWonEvent struct {
	Player string `json:"player"`
}

func (e PlayerHasWonEvent) GameEventName() string {
	return "PlayerHasWonEvent"
}

func (e PlayerHasWonEvent) StringMessage() string {
	return fmt.Sprintf("%s is the winner", e.Player)
}
