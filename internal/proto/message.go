package proto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/draftarena/lobby-server/internal/match"
)

// Frame types. Inbound types are matched case-insensitively.
const (
	TypeUserID = "USER_ID"
	TypeStatus = "STATUS"
	TypeJoin   = "JOIN"
	TypeCancel = "CANCEL"
)

// Inbound is the envelope for frames coming from the client. The two
// supported intents carry no payload beyond the type.
type Inbound struct {
	Type string `json:"type"`
}

// UserIDFrame asserts the authenticated identity, sent once per connection.
type UserIDFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// StatusFrame carries a round snapshot. Round is omitted when no round is
// scheduled.
type StatusFrame struct {
	Type          string     `json:"type"`
	Count         int        `json:"count"`
	RemainingTime int        `json:"remainingTime"`
	State         string     `json:"state"`
	Round         *RoundInfo `json:"round,omitempty"`
}

// RoundInfo describes the current round. Timestamps are Unix milliseconds.
type RoundInfo struct {
	No     int    `json:"no"`
	ID     string `json:"id"`
	OpenAt int64  `json:"openAt"`
	LockAt int64  `json:"lockAt"`
}

// EncodeUserID serializes the identity-assertion frame.
func EncodeUserID(userID string) ([]byte, error) {
	return json.Marshal(UserIDFrame{Type: TypeUserID, UserID: userID})
}

// EncodeStatus serializes a status snapshot into a STATUS frame.
func EncodeStatus(st match.Status) ([]byte, error) {
	frame := StatusFrame{
		Type:          TypeStatus,
		Count:         st.Count,
		RemainingTime: st.RemainingTime,
		State:         st.State,
	}
	if st.Round != nil {
		frame.Round = &RoundInfo{
			No:     st.Round.No,
			ID:     st.Round.ID,
			OpenAt: st.Round.OpenAt.UnixMilli(),
			LockAt: st.Round.LockAt.UnixMilli(),
		}
	}
	return json.Marshal(frame)
}

// ParseInbound decodes an inbound frame and returns its upper-cased type.
func ParseInbound(data []byte) (string, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return "", fmt.Errorf("decode frame: %w", err)
	}
	return strings.ToUpper(in.Type), nil
}
