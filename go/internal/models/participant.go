package models

import (
	"time"

	"github.com/google/uuid"
)

// IdentityKind tags the variant of a participant identity.
type IdentityKind string

const (
	IdentityKindUser  IdentityKind = "user"
	IdentityKindGuest IdentityKind = "guest"
)

// ParticipantIdentity binds a participant to either a registered user or an
// anonymous guest display name. Exactly one variant is set; use the
// constructors rather than building the struct by hand.
type ParticipantIdentity struct {
	Kind      IdentityKind `json:"kind"`
	UserID    uuid.UUID    `json:"user_id,omitempty"`
	GuestName string       `json:"guest_name,omitempty"`
}

// UserIdentity returns an identity for a registered user.
func UserIdentity(userID uuid.UUID) ParticipantIdentity {
	return ParticipantIdentity{Kind: IdentityKindUser, UserID: userID}
}

// GuestIdentity returns an identity for an anonymous guest.
func GuestIdentity(name string) ParticipantIdentity {
	return ParticipantIdentity{Kind: IdentityKindGuest, GuestName: name}
}

// IsUser reports whether the identity belongs to a registered user.
func (i ParticipantIdentity) IsUser() bool {
	return i.Kind == IdentityKindUser
}

// IsGuest reports whether the identity is an anonymous guest.
func (i ParticipantIdentity) IsGuest() bool {
	return i.Kind == IdentityKindGuest
}

// Participant is one side of a race. At most two participants exist per race.
type Participant struct {
	ID         uuid.UUID           `json:"id"`
	RaceID     uuid.UUID           `json:"race_id"`
	Identity   ParticipantIdentity `json:"identity"`
	User       *User               `json:"user,omitempty"` // profile projection for user identities
	JoinedAt   time.Time           `json:"joined_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
	TotalTime  *int                `json:"total_time,omitempty"` // seconds, set with FinishedAt
}

// Finished reports whether the participant has completed every game in the
// race playlist.
func (p Participant) Finished() bool {
	return p.FinishedAt != nil
}
