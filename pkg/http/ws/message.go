package ws

import "encoding/json"

// MessageType constants for the play protocol.
const (
	// Client -> Server
	TypeStartGame    = "start_game"
	TypeSubmitAnswer = "submit_answer"
	TypeRequestState = "request_state"
	TypePing         = "ping"

	// Server -> Client
	TypeGameState    = "game_state"
	TypeAnswerResult = "answer_result"
	TypeGameOver     = "game_over"
	TypeError        = "error"
	TypePong         = "pong"
)

// Game over reasons.
const (
	ReasonWrongAnswer      = "wrong_answer"
	ReasonCatalogExhausted = "catalog_exhausted"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType, requestID string, payload interface{}) (Message, error) {
	msg := Message{Type: msgType, RequestID: requestID}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = data
	return msg, nil
}

// Client Messages (incoming)

type SubmitAnswerPayload struct {
	Slot *int `json:"slot"`
}

// Server Messages (outgoing)

// GameStatePayload is the render view sent after every state change.
type GameStatePayload struct {
	Phase       string   `json:"phase"`
	CountryName string   `json:"country_name,omitempty"`
	Flags       []string `json:"flags"`
	Level       int      `json:"level"`
	Best        int      `json:"best"`
}

type AnswerResultPayload struct {
	Correct bool             `json:"correct"`
	State   GameStatePayload `json:"state"`
}

type GameOverPayload struct {
	Reason string `json:"reason"`
	Level  int    `json:"level"`
	Best   int    `json:"best"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
