package service

import (
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nrawrx3/unobot"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestService() *GameService {
	return NewGameService(unobot.DefaultRules(), testLogger())
}

func num(color unobot.Color, number int) unobot.Card {
	return unobot.Card{Kind: unobot.KindNumber, Color: color, Number: number}
}

func gameErrorKindOf(t *testing.T, err error) unobot.GameErrorKind {
	t.Helper()
	gameErr, ok := unobot.AsGameError(err)
	if !ok {
		t.Fatalf("expected a GameError, got %v", err)
	}
	return gameErr.Kind
}

// swapGame replaces a lobby's game with a rigged one.
func swapGame(t *testing.T, s *GameService, lobbyRef string, game *unobot.Game) {
	t.Helper()

	s.lobbiesMutex.Lock()
	defer s.lobbiesMutex.Unlock()

	lobby, ok := s.lobbies[lobbyRef]
	if !ok {
		t.Fatalf("no lobby %s to rig", lobbyRef)
	}
	lobby.Game = game
}

func TestCreateLobby(t *testing.T) {
	s := newTestService()

	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if ref == "" {
		t.Fatal("empty ref given, expected a minted one")
	}

	if _, err := s.CreateLobby(ref, "jack"); gameErrorKindOf(t, err) != unobot.ErrorLobbyExists {
		t.Error("expected lobby_exists for a duplicate ref")
	}

	named, err := s.CreateLobby("table-1", "jack")
	if err != nil {
		t.Fatal(err)
	}
	if named != "table-1" {
		t.Errorf("ref = %s, want table-1", named)
	}
}

func TestLobbyRefsSorted(t *testing.T) {
	s := newTestService()

	for _, ref := range []string{"charlie", "alpha", "bravo"} {
		if _, err := s.CreateLobby(ref, "alice"); err != nil {
			t.Fatal(err)
		}
	}
	s.RemoveLobby("bravo")

	refs := s.LobbyRefs()
	if len(refs) != 2 || refs[0] != "alpha" || refs[1] != "charlie" {
		t.Errorf("lobby refs = %v, want [alpha charlie]", refs)
	}
}

func TestMissingLobbyErrorsSurviveWrapping(t *testing.T) {
	s := newTestService()

	if err := s.StartGame("nope", []string{"alice", "jack"}); gameErrorKindOf(t, err) != unobot.ErrorLobbyNotFound {
		t.Error("expected lobby_not_found from StartGame")
	}
	if err := s.Draw("nope", "alice"); gameErrorKindOf(t, err) != unobot.ErrorLobbyNotFound {
		t.Error("expected lobby_not_found from Draw")
	}
	if _, err := s.Snapshot("nope"); gameErrorKindOf(t, err) != unobot.ErrorLobbyNotFound {
		t.Error("expected lobby_not_found from Snapshot")
	}
}

func TestStartGameAndSnapshot(t *testing.T) {
	s := newTestService()
	players := []string{"alice", "jack", "jane"}

	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.StartGame(ref, players); err != nil {
		t.Fatal(err)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Phase != "playing" {
		t.Errorf("phase = %s, want playing", snapshot.Phase)
	}
	if snapshot.CurrentPlayer != "alice" {
		t.Errorf("current player = %s, want alice", snapshot.CurrentPlayer)
	}
	if snapshot.TopCard == nil {
		t.Error("snapshot has no top card after start")
	}
	for _, player := range players {
		if snapshot.HandCounts[player] != unobot.DefaultHandSize {
			t.Errorf("%s hand count = %d, want %d", player, snapshot.HandCounts[player], unobot.DefaultHandSize)
		}
	}

	if err := s.Draw(ref, "jane"); gameErrorKindOf(t, err) != unobot.ErrorNotYourTurn {
		t.Error("expected not_your_turn drawing out of turn")
	}
}

func riggedUnoGame(t *testing.T) *unobot.Game {
	t.Helper()
	return unobot.NewRiggedGame(
		[]string{"alice", "jack"},
		map[string]unobot.Deck{
			"alice": {num(unobot.Red, 5), num(unobot.Blue, 1)},
			"jack":  {num(unobot.Green, 7), num(unobot.Green, 8)},
		},
		unobot.NewShuffledDeck(),
		num(unobot.Red, 3),
		unobot.DefaultRules(),
		testLogger(),
	)
}

func TestCallUnoResolvesTarget(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}

	game := riggedUnoGame(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	game.SetNowFunc(func() time.Time { return now })
	swapGame(t, s, ref, game)

	// nobody is at uno yet
	result, err := s.CallUno(ref, "jack")
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != unobot.UnoNoTarget {
		t.Errorf("result = %s, want no_target", result.Result)
	}

	if err := s.Play(ref, "alice", num(unobot.Red, 5), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}

	// jack pounces during alice's grace period
	result, err = s.CallUno(ref, "jack")
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != unobot.UnoTooEarly || result.Target != "alice" {
		t.Errorf("result = %+v, want too_early on alice", result)
	}

	now = now.Add(unobot.DefaultUnoGrace + time.Second)

	result, err = s.CallUno(ref, "jack")
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != unobot.UnoPenalty || result.Target != "alice" {
		t.Errorf("result = %+v, want penalty on alice", result)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.HandCounts["alice"] != 3 {
		t.Errorf("alice hand count = %d, want 3 after the penalty", snapshot.HandCounts["alice"])
	}
}

func TestCallUnoSelfCall(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	swapGame(t, s, ref, riggedUnoGame(t))

	if err := s.Play(ref, "alice", num(unobot.Red, 5), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}

	result, err := s.CallUno(ref, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != unobot.UnoSafe || result.Target != "alice" {
		t.Errorf("result = %+v, want a safe self-call", result)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.UnoDeadlines) != 0 {
		t.Errorf("uno deadlines = %v, want none after the self-call", snapshot.UnoDeadlines)
	}
}

func TestCallUnoPrefersCatchableTarget(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}

	game := unobot.NewRiggedGame(
		[]string{"alice", "jack", "jane"},
		map[string]unobot.Deck{
			"alice": {num(unobot.Red, 5), num(unobot.Red, 9), num(unobot.Blue, 1)},
			"jack":  {num(unobot.Red, 7), num(unobot.Blue, 2)},
			"jane":  {num(unobot.Green, 7), num(unobot.Green, 8)},
		},
		unobot.NewShuffledDeck(),
		num(unobot.Red, 3),
		unobot.DefaultRules(),
		testLogger(),
	)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	game.SetNowFunc(func() time.Time { return now })
	swapGame(t, s, ref, game)

	if err := s.Play(ref, "alice", num(unobot.Red, 5), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}
	// jack goes down to one card, opening his window
	if err := s.Play(ref, "jack", num(unobot.Red, 7), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}

	now = now.Add(unobot.DefaultUnoGrace + time.Second)

	if err := s.Draw(ref, "jane"); err != nil {
		t.Fatal(err)
	}
	// alice also reaches one card, but her grace period is still running
	if err := s.Play(ref, "alice", num(unobot.Red, 9), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}

	// jack is catchable while alice is still protected; the call must land
	// on jack even though alice comes first in turn order
	result, err := s.CallUno(ref, "jane")
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != unobot.UnoPenalty || result.Target != "jack" {
		t.Errorf("result = %+v, want penalty on jack", result)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.HandCounts["jack"] != 3 {
		t.Errorf("jack hand count = %d, want 3 after the penalty", snapshot.HandCounts["jack"])
	}
}

func TestEventSinkReceivesLobbyEvents(t *testing.T) {
	s := newTestService()
	sink := make(chan LobbyEvent, 64)
	s.SetEventSink(sink)

	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	swapGame(t, s, ref, riggedUnoGame(t))

	if err := s.Play(ref, "alice", num(unobot.Red, 5), unobot.ColorNone); err != nil {
		t.Fatal(err)
	}

	select {
	case lobbyEvent := <-sink:
		if lobbyEvent.LobbyRef != ref {
			t.Errorf("event lobby ref = %s, want %s", lobbyEvent.LobbyRef, ref)
		}
		if lobbyEvent.Event.GameEventName() != "CardPlayedEvent" {
			t.Errorf("event = %s, want CardPlayedEvent", lobbyEvent.Event.GameEventName())
		}
	default:
		t.Fatal("no event forwarded to the sink")
	}
}

// Hammers one lobby with draws from both players concurrently. Each
// successful draw moves exactly one card, so the final hand counts must
// account for every success: any torn transition would break the sum.
func TestConcurrentDrawsSerialize(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.StartGame(ref, []string{"alice", "jack"}); err != nil {
		t.Fatal(err)
	}

	var successes atomic.Int64
	var g errgroup.Group

	for i := 0; i < 8; i++ {
		player := "alice"
		if i%2 == 1 {
			player = "jack"
		}
		g.Go(func() error {
			for j := 0; j < 5; j++ {
				err := s.Draw(ref, player)
				gameErr, isGameErr := unobot.AsGameError(err)
				switch {
				case err == nil:
					successes.Add(1)
				case isGameErr && gameErr.Kind == unobot.ErrorNotYourTurn:
					// lost the race for the turn, fine
				default:
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	total := snapshot.HandCounts["alice"] + snapshot.HandCounts["jack"]
	if want := 2*unobot.DefaultHandSize + int(successes.Load()); total != want {
		t.Errorf("total hand cards = %d, want %d after %d draws", total, want, successes.Load())
	}
}

func TestHand(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.StartGame(ref, []string{"alice", "jack"}); err != nil {
		t.Fatal(err)
	}

	hand, err := s.Hand(ref, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if hand.Len() != unobot.DefaultHandSize {
		t.Errorf("hand size = %d, want %d", hand.Len(), unobot.DefaultHandSize)
	}

	if _, err := s.Hand(ref, "stranger"); gameErrorKindOf(t, err) != unobot.ErrorInvalidPlayer {
		t.Error("expected invalid_player for an unknown hand")
	}
}

func TestEndGameThroughService(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.EndGame(ref); err != nil {
		t.Fatal(err)
	}

	snapshot, err := s.Snapshot(ref)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Phase != "ended" {
		t.Errorf("phase = %s, want ended", snapshot.Phase)
	}

	if err := s.EndGame(ref); gameErrorKindOf(t, err) != unobot.ErrorGameNotActive {
		t.Error("expected game_not_active ending twice")
	}
}

func TestSetMainMessage(t *testing.T) {
	s := newTestService()
	ref, err := s.CreateLobby("", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetMainMessage(ref, "message-42"); err != nil {
		t.Fatal(err)
	}

	s.lobbiesMutex.RLock()
	got := s.lobbies[ref].MainMessage
	s.lobbiesMutex.RUnlock()

	if got != "message-42" {
		t.Errorf("main message = %s, want message-42", got)
	}
}
