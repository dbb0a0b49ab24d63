// Package service is the single entry point the bot front end uses to act
// on games. It owns the lobby registry and serializes every action against
// one lobby behind that lobby's mutex, so concurrent button presses from
// players resolve into one consistent sequence of transitions.
package service

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/nrawrx3/unobot"
	"github.com/nrawrx3/unobot/internal/utils"
)

// Lobby is one hosted game session: the owning user, the live game state
// machine and an optional handle to the primary rendered message.
type Lobby struct {
	mu sync.Mutex

	Ref         string
	OwnerID     string
	Game        *unobot.Game
	MainMessage string
}

// LobbyEvent tags a game event with the lobby it happened in.
type LobbyEvent struct {
	LobbyRef string
	Event    unobot.GameEvent
}

// UnoCallResult is the discriminated outcome of an uno call.
type UnoCallResult struct {
	Result unobot.UnoOutcome `json:"result"`
	Target string            `json:"target,omitempty"`
	Caller string            `json:"caller,omitempty"`
}

const logFilePrefix = "unobot_service"

type GameService struct {
	lobbiesMutex sync.RWMutex
	lobbies      map[string]*Lobby

	rules     unobot.Rules
	logger    *log.Logger
	eventSink chan<- LobbyEvent
}

func NewGameService(rules unobot.Rules, logger *log.Logger) *GameService {
	if logger == nil {
		logger = utils.CreateFileLogger(false, logFilePrefix)
	}
	return &GameService{
		lobbies: make(map[string]*Lobby),
		rules:   rules,
		logger:  logger,
	}
}

// SetEventSink registers a channel that receives game events after each
// transition. Sends never block; events are dropped if the sink is full.
func (s *GameService) SetEventSink(sink chan<- LobbyEvent) {
	s.eventSink = sink
}

// CreateLobby registers a new lobby under lobbyRef, minting a fresh ref if
// an empty one is given. Returns the ref the lobby lives under.
func (s *GameService) CreateLobby(lobbyRef, ownerID string) (string, error) {
	if lobbyRef == "" {
		lobbyRef = uuid.NewString()
	}

	s.lobbiesMutex.Lock()
	defer s.lobbiesMutex.Unlock()

	if _, exists := s.lobbies[lobbyRef]; exists {
		return "", unobot.NewLobbyExistsError(lobbyRef)
	}

	s.lobbies[lobbyRef] = &Lobby{
		Ref:     lobbyRef,
		OwnerID: ownerID,
		Game:    unobot.NewGame(s.rules, s.logger),
	}

	s.logger.Printf("created lobby %s owned by %s", lobbyRef, ownerID)
	return lobbyRef, nil
}

// RemoveLobby tears the lobby down. The game state is discarded, never
// persisted.
func (s *GameService) RemoveLobby(lobbyRef string) {
	s.lobbiesMutex.Lock()
	defer s.lobbiesMutex.Unlock()
	delete(s.lobbies, lobbyRef)
}

func (s *GameService) LobbyRefs() []string {
	s.lobbiesMutex.RLock()
	defer s.lobbiesMutex.RUnlock()

	refs := make([]string, 0, len(s.lobbies))
	for ref := range s.lobbies {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}

// withLobby runs fn with the lobby's mutex held and forwards any events the
// transition recorded. Every action and every read goes through here so no
// caller can observe a partially applied transition.
func (s *GameService) withLobby(lobbyRef string, fn func(*Lobby) error) error {
	s.lobbiesMutex.RLock()
	lobby, ok := s.lobbies[lobbyRef]
	s.lobbiesMutex.RUnlock()

	if !ok {
		return unobot.NewLobbyNotFoundError(lobbyRef)
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	err := fn(lobby)
	s.forwardEvents(lobbyRef, lobby.Game.DrainEvents())
	return err
}

func (s *GameService) forwardEvents(lobbyRef string, events []unobot.GameEvent) {
	if s.eventSink == nil {
		return
	}
	for _, event := range events {
		select {
		case s.eventSink <- LobbyEvent{LobbyRef: lobbyRef, Event: event}:
		default:
			s.logger.Printf("event sink full, dropping %s for lobby %s", event.GameEventName(), lobbyRef)
		}
	}
}

// StartGame deals and starts the lobby's game with the given turn order.
func (s *GameService) StartGame(lobbyRef string, players []string) error {
	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		return lobby.Game.Start(players)
	})
	return errors.Wrapf(err, "start game in lobby %s", lobbyRef)
}

// Play applies actor's card play. chosen must be a real color when the card
// is wild-family, ColorNone otherwise.
func (s *GameService) Play(lobbyRef, actorID string, card unobot.Card, chosen unobot.Color) error {
	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		return lobby.Game.Play(actorID, card, chosen)
	})
	return errors.Wrapf(err, "play in lobby %s", lobbyRef)
}

// Draw applies actor's draw-and-pass action.
func (s *GameService) Draw(lobbyRef, actorID string) error {
	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		return lobby.Game.Draw(actorID)
	})
	return errors.Wrapf(err, "draw in lobby %s", lobbyRef)
}

// CallUno resolves who the caller's uno call is aimed at and applies it.
// The target is the caller themself if their own window is open, otherwise
// any other player whose window is open (the state machine then decides
// between penalty and too_early based on the grace deadline).
func (s *GameService) CallUno(lobbyRef, callerID string) (UnoCallResult, error) {
	result := UnoCallResult{Caller: callerID}

	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		game := lobby.Game
		if game.Phase() != unobot.PhasePlaying {
			return unobot.NewGameNotActiveError()
		}

		target := ""
		if game.UnoVulnerable(callerID) {
			target = callerID
		} else {
			// prefer a player whose grace period already elapsed, so a
			// still-protected player cannot shield a catchable one
			for _, player := range game.Players() {
				if player == callerID {
					continue
				}
				if game.UnoCatchable(player) {
					target = player
					break
				}
				if target == "" && game.UnoVulnerable(player) {
					target = player
				}
			}
		}

		outcome, err := game.CallUno(callerID, target)
		if err != nil {
			return err
		}
		result.Result = outcome
		result.Target = target
		return nil
	})

	if err != nil {
		return UnoCallResult{}, errors.Wrapf(err, "call uno in lobby %s", lobbyRef)
	}
	return result, nil
}

// EndGame force-ends the lobby's game. Host-only authorization is enforced
// by the caller, not here.
func (s *GameService) EndGame(lobbyRef string) error {
	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		return lobby.Game.EndGame()
	})
	return errors.Wrapf(err, "end game in lobby %s", lobbyRef)
}

// LobbySnapshot is a consistent read of one lobby, taken under its lock.
type LobbySnapshot struct {
	Ref           string               `json:"ref"`
	Owner         string               `json:"owner"`
	Phase         string               `json:"phase"`
	Players       []string             `json:"players"`
	CurrentPlayer string               `json:"current_player"`
	TopCard       *unobot.Card         `json:"top_card,omitempty"`
	HandCounts    map[string]int       `json:"hand_counts"`
	PendingDraw   int                  `json:"pending_draw"`
	Winner        string               `json:"winner,omitempty"`
	UnoDeadlines  map[string]time.Time `json:"uno_deadlines,omitempty"`
}

func (s *GameService) Snapshot(lobbyRef string) (LobbySnapshot, error) {
	var snapshot LobbySnapshot

	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		game := lobby.Game
		snapshot = LobbySnapshot{
			Ref:           lobby.Ref,
			Owner:         lobby.OwnerID,
			Phase:         game.Phase().String(),
			Players:       game.Players(),
			CurrentPlayer: game.CurrentPlayer(),
			HandCounts:    game.HandCounts(),
			PendingDraw:   game.PendingDraw(),
			Winner:        game.Winner(),
		}
		if top, ok := game.TopCard(); ok {
			snapshot.TopCard = &top
		}
		for _, player := range game.Players() {
			if deadline, open := game.UnoDeadline(player); open {
				if snapshot.UnoDeadlines == nil {
					snapshot.UnoDeadlines = make(map[string]time.Time)
				}
				snapshot.UnoDeadlines[player] = deadline
			}
		}
		return nil
	})

	return snapshot, err
}

// Hand returns a copy of one player's hand.
func (s *GameService) Hand(lobbyRef, playerID string) (unobot.Deck, error) {
	var hand unobot.Deck

	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		hand = lobby.Game.Hand(playerID)
		if hand == nil {
			return unobot.NewInvalidPlayerError(playerID)
		}
		return nil
	})

	return hand, err
}

// SetMainMessage stores the handle of the lobby's primary rendered message.
func (s *GameService) SetMainMessage(lobbyRef, messageHandle string) error {
	return s.withLobby(lobbyRef, func(lobby *Lobby) error {
		lobby.MainMessage = messageHandle
		return nil
	})
}

// Summary renders a human-readable dump of one lobby for the operator REPL.
func (s *GameService) Summary(lobbyRef string) (string, error) {
	var summary string
	err := s.withLobby(lobbyRef, func(lobby *Lobby) error {
		summary = lobby.Game.Summary()
		return nil
	})
	return summary, err
}
