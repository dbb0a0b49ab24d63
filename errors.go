package unobot

import (
	"errors"
	"fmt"
)

type GameErrorKind int

const (
	ErrorLobbyNotFound GameErrorKind = iota + 1
	ErrorLobbyExists
	ErrorGameNotActive
	ErrorAlreadyStarted
	ErrorNotEnoughPlayers
	ErrorTooManyPlayers
	ErrorInvalidPlayer
	ErrorNotYourTurn
	ErrorCardNotInHand
	ErrorIllegalPlay
	ErrorInvalidColor
	ErrorNoCardsLeft
)

func (k GameErrorKind) String() string {
	switch k {
	case ErrorLobbyNotFound:
		return "lobby_not_found"
	case ErrorLobbyExists:
		return "lobby_exists"
	case ErrorGameNotActive:
		return "game_not_active"
	case ErrorAlreadyStarted:
		return "already_started"
	case ErrorNotEnoughPlayers:
		return "not_enough_players"
	case ErrorTooManyPlayers:
		return "too_many_players"
	case ErrorInvalidPlayer:
		return "invalid_player"
	case ErrorNotYourTurn:
		return "not_your_turn"
	case ErrorCardNotInHand:
		return "card_not_in_hand"
	case ErrorIllegalPlay:
		return "illegal_play"
	case ErrorInvalidColor:
		return "invalid_color"
	case ErrorNoCardsLeft:
		return "no_cards_left"
	default:
		return fmt.Sprintf("invalid_error_kind(= %d)", int(k))
	}
}

// GameError is the structured failure returned for precondition violations.
// Title and Private are presentation hints passed through to the caller:
// Title is an optional display heading and Private says whether the failure
// should be shown only to the offending actor instead of broadcast.
type GameError struct {
	Kind    GameErrorKind
	Title   string
	Private bool
	Detail  string
}

func (e *GameError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Is lets errors.Is match two GameErrors by kind.
func (e *GameError) Is(target error) bool {
	var other *GameError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// AsGameError unwraps err down to a *GameError if one is in the chain.
func AsGameError(err error) (*GameError, bool) {
	var gameErr *GameError
	ok := errors.As(err, &gameErr)
	return gameErr, ok
}

func NewLobbyNotFoundError(lobbyRef string) *GameError {
	return &GameError{
		Kind:    ErrorLobbyNotFound,
		Title:   "No game here",
		Private: true,
		Detail:  fmt.Sprintf("no lobby found for '%s'", lobbyRef),
	}
}

func NewLobbyExistsError(lobbyRef string) *GameError {
	return &GameError{
		Kind:    ErrorLobbyExists,
		Title:   "Lobby already exists",
		Private: true,
		Detail:  fmt.Sprintf("a lobby already exists for '%s'", lobbyRef),
	}
}

func NewGameNotActiveError() *GameError {
	return &GameError{
		Kind:    ErrorGameNotActive,
		Title:   "Game is not active",
		Private: true,
		Detail:  "the game is not currently active",
	}
}

func NewAlreadyStartedError() *GameError {
	return &GameError{
		Kind:    ErrorAlreadyStarted,
		Title:   "Game already started",
		Private: true,
		Detail:  "the game has already been started",
	}
}

func NewNotEnoughPlayersError(count int) *GameError {
	return &GameError{
		Kind:    ErrorNotEnoughPlayers,
		Title:   "Not enough players",
		Private: false,
		Detail:  fmt.Sprintf("need at least 2 players to start, have %d", count),
	}
}

func NewTooManyPlayersError(count int) *GameError {
	return &GameError{
		Kind:    ErrorTooManyPlayers,
		Title:   "Too many players",
		Private: false,
		Detail:  fmt.Sprintf("cannot deal starting hands to %d players from one deck", count),
	}
}

func NewInvalidPlayerError(player string) *GameError {
	return &GameError{
		Kind:    ErrorInvalidPlayer,
		Title:   "You are not in this game",
		Private: true,
		Detail:  fmt.Sprintf("player '%s' is not a participant", player),
	}
}

func NewNotYourTurnError(player string) *GameError {
	return &GameError{
		Kind:    ErrorNotYourTurn,
		Title:   "Not your turn!",
		Private: true,
		Detail:  fmt.Sprintf("it is not player '%s's turn", player),
	}
}

func NewCardNotInHandError(player string, card Card) *GameError {
	return &GameError{
		Kind:    ErrorCardNotInHand,
		Title:   "You don't have that card",
		Private: true,
		Detail:  fmt.Sprintf("player '%s' does not hold %s", player, card.String()),
	}
}

func NewIllegalPlayError(card, top Card) *GameError {
	return &GameError{
		Kind:    ErrorIllegalPlay,
		Title:   "You can't play that card",
		Private: true,
		Detail:  fmt.Sprintf("%s cannot be played on %s", card.String(), top.String()),
	}
}

func NewPenaltyPendingError(pending int) *GameError {
	return &GameError{
		Kind:    ErrorIllegalPlay,
		Title:   "Draw penalty pending",
		Private: true,
		Detail:  fmt.Sprintf("a +%d penalty is pending, stack a matching card or draw", pending),
	}
}

func NewInvalidColorError(color Color) *GameError {
	return &GameError{
		Kind:    ErrorInvalidColor,
		Title:   "Pick a color",
		Private: true,
		Detail:  fmt.Sprintf("'%s' is not a playable wild color", color.String()),
	}
}

func NewColorChoiceNotAllowedError(card Card) *GameError {
	return &GameError{
		Kind:    ErrorInvalidColor,
		Title:   "No color to pick",
		Private: true,
		Detail:  fmt.Sprintf("%s is not a wild card, it keeps its own color", card.String()),
	}
}

func NewNoCardsLeftError() *GameError {
	return &GameError{
		Kind:    ErrorNoCardsLeft,
		Title:   "Out of cards",
		Private: false,
		Detail:  "draw pile and discard pile are both exhausted",
	}
}
