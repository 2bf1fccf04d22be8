package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sweeney/call-alert/internal/logic"
)

// CommandType names an alert operation requested over MQTT.
type CommandType string

const (
	CmdStartRinging     CommandType = "start_ringing"
	CmdStartCallWaiting CommandType = "start_call_waiting"
	CmdStopRinging      CommandType = "stop_ringing"
	CmdStopCallWaiting  CommandType = "stop_call_waiting"
)

// Command is a parsed alert command. Call is nil when the payload carried
// none.
type Command struct {
	Type        CommandType
	Call        *logic.Call
	HFPAttached bool
}

type commandPayload struct {
	Command     string       `json:"command"`
	Call        *callPayload `json:"call"`
	HFPAttached bool         `json:"hfp_attached"`
}

type callPayload struct {
	ID          string         `json:"id"`
	Contact     string         `json:"contact"`
	SelfManaged bool           `json:"self_managed"`
	Extras      map[string]any `json:"extras"`
}

// ParseCommand decodes a command payload. A call without an id is given a
// random one.
func ParseCommand(data []byte) (Command, error) {
	var p commandPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}

	cmd := Command{Type: CommandType(p.Command), HFPAttached: p.HFPAttached}
	switch cmd.Type {
	case CmdStartRinging, CmdStartCallWaiting, CmdStopRinging, CmdStopCallWaiting:
	default:
		return Command{}, fmt.Errorf("unknown command %q", p.Command)
	}

	if p.Call != nil {
		id := p.Call.ID
		if id == "" {
			id = uuid.NewString()
		}
		cmd.Call = &logic.Call{
			ID:          id,
			Contact:     p.Call.Contact,
			SelfManaged: p.Call.SelfManaged,
			Extras:      p.Call.Extras,
		}
	}
	return cmd, nil
}
