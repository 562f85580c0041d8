package game

// Event is an outbound message produced by the room logic. To is a
// player ID; an empty To means every seat in the room. Delivery is the
// scheduler's job, so rules code stays free of any transport.
type Event struct {
	To      string
	Payload interface{}
}

// BallSnapshot is one in-play ball inside a state message.
type BallSnapshot struct {
	Number int     `json:"number"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PlayerInfo is one seated player inside a state message.
type PlayerInfo struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Group BallGroup `json:"group"`
}

// StatePayload is the full room snapshot clients render from.
type StatePayload struct {
	Type       string         `json:"type"`
	Balls      []BallSnapshot `json:"balls"`
	Pocketed   []int          `json:"pocketed"`
	Players    []PlayerInfo   `json:"players"`
	Turn       string         `json:"turn"`
	BallInHand bool           `json:"ballInHand"`
	LastEvent  string         `json:"lastEvent"`
}

// JoinedPayload confirms room entry and carries the server-assigned id.
type JoinedPayload struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	PlayerID string `json:"id"`
}

// AssignedPayload announces a player's ball group.
type AssignedPayload struct {
	Type     string    `json:"type"`
	PlayerID string    `json:"playerId"`
	Group    BallGroup `json:"group"`
}

// FoulPayload announces a foul by the named player.
type FoulPayload struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	PlayerID string `json:"playerId"`
}

// GameOverPayload announces the end of the game.
type GameOverPayload struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}

// ChatPayload relays a chat line to the room.
type ChatPayload struct {
	Type string `json:"type"`
	From string `json:"from"`
	Msg  string `json:"msg"`
}

// ErrorPayload reports a request that could not be processed.
type ErrorPayload struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// ShootRejectedPayload explains why a shot was refused.
type ShootRejectedPayload struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// PlaceRejectedPayload explains why a cue placement was refused.
type PlaceRejectedPayload struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func newJoined(code, playerID string) JoinedPayload {
	return JoinedPayload{Type: "joined", Code: code, PlayerID: playerID}
}

func newAssigned(playerID string, group BallGroup) AssignedPayload {
	return AssignedPayload{Type: "assigned", PlayerID: playerID, Group: group}
}

func newFoul(msg, playerID string) FoulPayload {
	return FoulPayload{Type: "foul", Msg: msg, PlayerID: playerID}
}

func newGameOver(winner, reason string) GameOverPayload {
	return GameOverPayload{Type: "game_over", Winner: winner, Reason: reason}
}

func newChat(from, msg string) ChatPayload {
	return ChatPayload{Type: "chat", From: from, Msg: msg}
}

func newError(msg string) ErrorPayload {
	return ErrorPayload{Type: "error", Msg: msg}
}

func newShootRejected(reason string) ShootRejectedPayload {
	return ShootRejectedPayload{Type: "shoot_rejected", Reason: reason}
}

func newPlaceRejected(reason string) PlaceRejectedPayload {
	return PlaceRejectedPayload{Type: "place_rejected", Reason: reason}
}

func broadcast(payload interface{}) Event {
	return Event{Payload: payload}
}

func to(playerID string, payload interface{}) Event {
	return Event{To: playerID, Payload: payload}
}
