package auth

// Phase of a user's session as seen by the client.
type Phase string

const (
	PhaseAuthenticating Phase = "authenticating"
	// PhaseOptimistic means the credentials are valid but the stored profile
	// has not been read yet.
	PhaseOptimistic Phase = "authenticated_optimistic"
	PhaseConfirmed  Phase = "authenticated_confirmed"
	PhaseSignedOut  Phase = "signed_out"
)

// Identity is who the caller is.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Role   Role   `json:"role"`
}

func (i Identity) IsZero() bool {
	return i.UserID == ""
}

type State struct {
	Phase    Phase     `json:"phase"`
	Identity *Identity `json:"identity,omitempty"`
}

func SignedOut() State {
	return State{Phase: PhaseSignedOut}
}

func Authenticating() State {
	return State{Phase: PhaseAuthenticating}
}

// Optimistic builds a state from token claims alone.
func Optimistic(c *Claims) State {
	return State{
		Phase: PhaseOptimistic,
		Identity: &Identity{
			UserID: c.UserID,
			Name:   c.Name,
			Email:  c.Email,
			Role:   c.Role,
		},
	}
}

// Confirm upgrades the state with the stored profile. The stored role wins
// over the one in the token.
func (s State) Confirm(profile Identity) State {
	return State{Phase: PhaseConfirmed, Identity: &profile}
}
