package discord

import "github.com/jellycord/jellycord/internal/domain"

// Wire representation of the SET_ACTIVITY command, following the IPC
// protocol's field names.

type ipcCommand struct {
	Cmd   string          `json:"cmd"`
	Args  setActivityArgs `json:"args"`
	Nonce string          `json:"nonce"`
}

type setActivityArgs struct {
	PID int `json:"pid"`
	// Activity nil clears the displayed status
	Activity *activity `json:"activity,omitempty"`
}

type activity struct {
	Details    string              `json:"details,omitempty"`
	State      string              `json:"state,omitempty"`
	Type       int                 `json:"type"`
	Timestamps *activityTimestamps `json:"timestamps,omitempty"`
	Assets     *activityAssets     `json:"assets,omitempty"`
	Buttons    []activityButton    `json:"buttons,omitempty"`
	Instance   bool                `json:"instance"`
}

type activityTimestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

type activityAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type activityButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func activityFromPayload(p *domain.PresencePayload) *activity {
	if p == nil {
		return nil
	}

	a := &activity{
		Details: p.Details,
		State:   p.State,
		Type:    activityTypeWatching,
		Timestamps: &activityTimestamps{
			Start: p.StartTimestamp,
			End:   p.EndTimestamp,
		},
		Assets: &activityAssets{
			LargeImage: p.LargeImageKey,
			LargeText:  p.LargeImageText,
			SmallImage: p.SmallImageKey,
			SmallText:  p.SmallImageText,
		},
	}
	for _, b := range p.Buttons {
		a.Buttons = append(a.Buttons, activityButton{Label: b.Label, URL: b.URL})
	}
	return a
}
