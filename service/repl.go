package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

type replCommandKind int

const (
	replCmdNone replCommandKind = iota
	replCmdLobbies
	replCmdSummary
	replCmdEnd
	replCmdQuit
)

type replCommand struct {
	kind     replCommandKind
	lobbyRef string
}

var errEmptyREPLCommand = errors.New("empty command")

func parseREPLCommand(input string) (replCommand, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return replCommand{}, errEmptyREPLCommand
	}

	switch fields[0] {
	case "lobbies", "ls":
		return replCommand{kind: replCmdLobbies}, nil

	case "summary", "s":
		if len(fields) != 2 {
			return replCommand{}, errors.New("expected: summary LOBBY_REF")
		}
		return replCommand{kind: replCmdSummary, lobbyRef: fields[1]}, nil

	case "end":
		if len(fields) != 2 {
			return replCommand{}, errors.New("expected: end LOBBY_REF")
		}
		return replCommand{kind: replCmdEnd, lobbyRef: fields[1]}, nil

	case "quit", "q":
		return replCommand{kind: replCmdQuit}, nil

	default:
		return replCommand{}, fmt.Errorf("expected a command (lobbies|summary|end|quit), found '%s'", fields[0])
	}
}

// RunREPL runs the operator console against a live service. It is the
// host-side escape hatch: list lobbies, dump a lobby's state, force-end a
// stuck game.
func RunREPL(service *GameService) error {
	rl, err := readline.New("unobot> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, err := parseREPLCommand(line)
		if errors.Is(err, errEmptyREPLCommand) {
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}

		switch cmd.kind {
		case replCmdLobbies:
			refs := service.LobbyRefs()
			if len(refs) == 0 {
				fmt.Println("no lobbies")
				continue
			}
			for _, ref := range refs {
				fmt.Println(ref)
			}

		case replCmdSummary:
			summary, err := service.Summary(cmd.lobbyRef)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Print(summary)

		case replCmdEnd:
			if err := service.EndGame(cmd.lobbyRef); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("ended game in lobby %s\n", cmd.lobbyRef)

		case replCmdQuit:
			return nil
		}
	}
}
