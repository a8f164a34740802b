// Package bot implements the chat-bot surface spec §1 treats as an
// external collaborator: a minimal JSON command webhook over the identity
// manager, supplying device labeling and silencing without committing to
// any particular chat platform's transport or embed formatting.
package bot

import (
	"encoding/json"
	"net/http"

	"github.com/lcalzada-xor/probesentinel/internal/core/services/identity"
)

// Command is the payload a chat front-end POSTs to this adapter. Name
// selects the operation; args are interpreted per command.
type Command struct {
	Name           string   `json:"name"`
	FingerprintID  string   `json:"fingerprint_id,omitempty"`
	IdentityID     string   `json:"identity_id,omitempty"`
	Alias          string   `json:"alias,omitempty"`
	FingerprintIDs []string `json:"fingerprint_ids,omitempty"`
}

// Dispatcher turns Commands into identity.Manager calls.
type Dispatcher struct {
	Identity *identity.Manager
}

func (d *Dispatcher) HandleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid command payload", http.StatusBadRequest)
		return
	}

	var result interface{}
	var err error

	switch cmd.Name {
	case "set_alias":
		result, err = d.Identity.SetAlias(r.Context(), cmd.FingerprintID, cmd.Alias)
	case "silence":
		err = d.Identity.Silence(r.Context(), cmd.FingerprintID)
	case "link":
		err = d.Identity.Link(r.Context(), cmd.FingerprintID, cmd.IdentityID)
	case "create_identity":
		result, err = d.Identity.Create(r.Context(), cmd.IdentityID, cmd.Alias, cmd.FingerprintIDs)
	default:
		http.Error(w, "unknown command: "+cmd.Name, http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": result})
}
