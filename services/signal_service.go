package services

import (
	"context"
	"log"
	"sort"
	"time"

	"bloom_server/models"

	"golang.org/x/sync/errgroup"
)

// Defaults for the signal funnel; both are env-configurable in main.
const (
	DefaultSignalRadiusMeters = 50.0
	DefaultScoreThreshold     = 60.0
)

const (
	batchScoreTimeout = 1500 * time.Millisecond
	pairScoreTimeout  = 2 * time.Second
	maxParallelScores = 8
)

// InteractionFinder is the ledger view the signal engine needs: every row
// where the viewer appears on either side against any of the candidates.
type InteractionFinder interface {
	FindInteractionsBetween(ctx context.Context, viewerID string, candidateIDs []string) ([]models.Interaction, error)
}

// ProfileFinder is the persistence view the signal engine needs.
type ProfileFinder interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	FindUsersByIDsAndGender(ctx context.Context, ids []string, excludedGender string) ([]models.User, error)
}

// SignalPusher delivers a qualified signal to a connected client.
type SignalPusher interface {
	PushSignal(userID string, signal models.QualifiedSignal)
}

// SignalService runs the proximity-signal funnel: nearby users, minus
// already-seen pairs, minus anyone with interaction history, filtered to
// the opposite gender, scored against the central threshold.
type SignalService struct {
	Location  LocationStore
	Seen      SignalCache
	Ledger    InteractionFinder
	Users     ProfileFinder
	Scorer    CompatibilityScorer
	Pusher    SignalPusher // optional realtime push
	Radius    float64
	Threshold float64
}

// UpdateLocation records the caller's current coordinate.
func (ss *SignalService) UpdateLocation(userID string, lat, lng float64) error {
	return ss.Location.Update(userID, lat, lng)
}

// CheckLiveSignals computes the qualifying nearby signals for the viewer.
// Scorer failures are isolated per candidate; ledger or profile-fetch
// failures abort the pass.
func (ss *SignalService) CheckLiveSignals(ctx context.Context, viewer models.User) ([]models.QualifiedSignal, error) {
	signals := []models.QualifiedSignal{}

	// 1. Nearby users (memory-only)
	nearby := ss.Location.Nearby(viewer.ID, ss.Radius)
	if len(nearby) == 0 {
		return signals, nil
	}

	// 2. Remove already-delivered signals
	unseen := make([]string, 0, len(nearby))
	for _, id := range nearby {
		if id != viewer.ID && !ss.Seen.HasSeen(viewer.ID, id) {
			unseen = append(unseen, id)
		}
	}
	if len(unseen) == 0 {
		return signals, nil
	}

	// 3. Remove users with ANY past interaction, in either direction
	interactions, err := ss.Ledger.FindInteractionsBetween(ctx, viewer.ID, unseen)
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]struct{})
	for _, row := range interactions {
		blocked[row.FromUserID] = struct{}{}
		blocked[row.ToUserID] = struct{}{}
	}
	candidates := make([]string, 0, len(unseen))
	for _, id := range unseen {
		if _, ok := blocked[id]; !ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return signals, nil
	}

	// 4. Fetch opposite-gender profiles
	users, err := ss.Users.FindUsersByIDsAndGender(ctx, candidates, viewer.Gender)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return signals, nil
	}

	// 5. Score + threshold filter; one slow or failing call never blocks
	// the rest of the batch
	qualified := make([]*models.QualifiedSignal, len(users))
	g := new(errgroup.Group)
	g.SetLimit(maxParallelScores)
	for i, candidate := range users {
		i, candidate := i, candidate
		g.Go(func() error {
			maleRoll, femaleRoll := resolveRollPair(viewer, candidate)

			callCtx, cancel := context.WithTimeout(ctx, batchScoreTimeout)
			defer cancel()

			score, err := ss.Scorer.Score(callCtx, maleRoll, femaleRoll)
			if err != nil {
				// silent fail — the candidate stays unseen and can be
				// re-evaluated on a future pass
				log.Printf("⚠️ score lookup failed for candidate %s: %v", candidate.ID, err)
				return nil
			}

			if score >= ss.Threshold {
				// mark ONLY meaningful signals
				ss.Seen.MarkSeen(viewer.ID, candidate.ID)
				qualified[i] = &models.QualifiedSignal{
					ID:        candidate.ID,
					Username:  candidate.Username,
					AvatarURL: candidate.AvatarURL,
					Score:     score,
				}
			}
			return nil
		})
	}
	g.Wait()

	for _, q := range qualified {
		if q != nil {
			signals = append(signals, *q)
		}
	}
	sort.Slice(signals, func(i, j int) bool { return signals[i].Score > signals[j].Score })

	if ss.Pusher != nil {
		for _, s := range signals {
			ss.Pusher.PushSignal(viewer.ID, s)
		}
	}

	return signals, nil
}

// GetSignalScore resolves the score for a single viewer/candidate pair.
// Same-gender pairs score 0 without a remote call. The pair is not marked
// seen; this path backs the on-demand score lookup in the UI.
func (ss *SignalService) GetSignalScore(ctx context.Context, viewerID, otherID string) (float64, error) {
	me, err := ss.Users.GetUserByID(ctx, viewerID)
	if err != nil {
		return 0, err
	}
	other, err := ss.Users.GetUserByID(ctx, otherID)
	if err != nil {
		return 0, err
	}

	if me.Gender == other.Gender {
		return 0, nil
	}

	maleRoll, femaleRoll := resolveRollPair(*me, *other)

	callCtx, cancel := context.WithTimeout(ctx, pairScoreTimeout)
	defer cancel()

	return ss.Scorer.Score(callCtx, maleRoll, femaleRoll)
}

func resolveRollPair(a, b models.User) (maleRoll, femaleRoll string) {
	if a.Gender == models.GenderMale {
		return a.RollNumber, b.RollNumber
	}
	return b.RollNumber, a.RollNumber
}
