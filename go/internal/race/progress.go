package race

import (
	"time"

	"github.com/google/uuid"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// Pure progress math over a loaded race graph. Repositories re-derive the
// same facts inside their transactions; these functions exist so the state
// machine is unit-testable without storage.

// CompletionsFor returns the completions recorded by one participant across
// the playlist.
func CompletionsFor(playlist []PlaylistSlot, participantID uuid.UUID) []models.Completion {
	var out []models.Completion
	for _, slot := range playlist {
		for _, c := range slot.Completions {
			if c.ParticipantID == participantID {
				out = append(out, c)
			}
		}
	}
	return out
}

// IsParticipantFinished reports whether the participant has a completion for
// every slot in the playlist. An empty playlist never counts as finished.
func IsParticipantFinished(playlist []PlaylistSlot, participantID uuid.UUID) bool {
	if len(playlist) == 0 {
		return false
	}
	for _, slot := range playlist {
		done := false
		for _, c := range slot.Completions {
			if c.ParticipantID == participantID {
				done = true
				break
			}
		}
		if !done {
			return false
		}
	}
	return true
}

// IsRaceComplete reports whether every participant has finished.
func IsRaceComplete(participants []models.Participant) bool {
	if len(participants) == 0 {
		return false
	}
	for _, p := range participants {
		if !p.Finished() {
			return false
		}
	}
	return true
}

// Winner returns the participant with the earliest finish, or the only
// finisher so far if the race is still running. Ties and races with no
// finisher yield nil; presentation layers may declare a tie.
func Winner(participants []models.Participant) *models.Participant {
	var winner *models.Participant
	tied := false
	for i := range participants {
		p := &participants[i]
		if !p.Finished() {
			continue
		}
		switch {
		case winner == nil:
			winner = p
		case p.FinishedAt.Before(*winner.FinishedAt):
			winner = p
			tied = false
		case p.FinishedAt.Equal(*winner.FinishedAt):
			tied = true
		}
	}
	if tied {
		return nil
	}
	return winner
}

// ElapsedSeconds returns whole seconds between start and now, floored.
// Sub-second completions floor to 0 so the metric is consistent and
// always increasing.
func ElapsedSeconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
