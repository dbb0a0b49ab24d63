// Package messages holds the JSON bodies the HTTP gateway speaks with the
// out-of-process bot front end.
package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/nrawrx3/unobot"
)

type CreateLobbyMessage struct {
	LobbyRef string `json:"lobby_ref"`
	Owner    string `json:"owner"`
}

type CreateLobbyResponse struct {
	LobbyRef string `json:"lobby_ref"`
}

type StartGameMessage struct {
	Players []string `json:"players"`
}

type PlayCardMessage struct {
	Player      string       `json:"player"`
	Card        unobot.Card  `json:"card"`
	ChosenColor unobot.Color `json:"chosen_color"`
}

type DrawCardMessage struct {
	Player string `json:"player"`
}

type CallUnoMessage struct {
	Caller string `json:"caller"`
}

type HandMessage struct {
	Player string      `json:"player"`
	Cards  unobot.Deck `json:"cards"`
}

// GameErrorPayload mirrors unobot.GameError over the wire, presentation
// hints included.
type GameErrorPayload struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Private bool   `json:"private"`
	Detail  string `json:"detail"`
}

func NewGameErrorPayload(gameErr *unobot.GameError) GameErrorPayload {
	return GameErrorPayload{
		Kind:    gameErr.Kind.String(),
		Title:   gameErr.Title,
		Private: gameErr.Private,
		Detail:  gameErr.Detail,
	}
}

type UnwrappedErrorPayload struct {
	Errors []string `json:"errors"`
}

func (payload *UnwrappedErrorPayload) Add(err error) {
	if payload.Errors == nil {
		payload.Errors = make([]string, 0, 4)
	}
	payload.Errors = append(payload.Errors, err.Error())
	for {
		err = errors.Unwrap(err)
		if err == nil {
			break
		}
		payload.Errors = append(payload.Errors, err.Error())
	}
}

func WriteErrorPayload(w io.Writer, err error) {
	payload := UnwrappedErrorPayload{}
	payload.Add(err)
	json.NewEncoder(w).Encode(&payload)
}

func MustJSONReader(v interface{}) io.Reader {
	var b bytes.Buffer
	err := json.NewEncoder(&b).Encode(v)

	if err != nil {
		log.Fatal(err)
	}
	return &b
}
