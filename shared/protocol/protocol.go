package protocol

import (
	"encoding/json"
	"time"

	"pokeidle/shared/game/types"
)

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type ErrorMsg struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse is the plain acknowledgement body used by the REST API.
type MessageResponse struct {
	Message string `json:"message"`
}

// PlayerView is the player as sent to clients.
type PlayerView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	types.Player
	RegionName    string     `json:"regionName"`
	StageLabel    string     `json:"stageLabel"`
	StageProgress float64    `json:"stageProgress"`
	XPToNext      int64      `json:"xpToNextLevel"`
	IsBossStage   bool       `json:"isBossStage"`
	DexCaught     int        `json:"dexCaught"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
