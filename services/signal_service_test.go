package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"bloom_server/models"
)

// --- mock collaborators ---

type mockLedger struct {
	rows  []models.Interaction
	err   error
	calls int
}

func (m *mockLedger) FindInteractionsBetween(ctx context.Context, viewerID string, candidateIDs []string) ([]models.Interaction, error) {
	m.calls++
	return m.rows, m.err
}

type mockUsers struct {
	users map[string]models.User
	err   error
	calls int
}

func (m *mockUsers) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *mockUsers) FindUsersByIDsAndGender(ctx context.Context, ids []string, excludedGender string) ([]models.User, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var result []models.User
	for _, id := range ids {
		user, ok := m.users[id]
		if !ok {
			continue
		}
		if user.Gender != "" && user.Gender != excludedGender {
			result = append(result, user)
		}
	}
	return result, nil
}

type mockScorer struct {
	mu     sync.Mutex
	scores map[string]float64 // keyed by femaleRoll (candidate side in these tests)
	fail   map[string]bool
	calls  int
}

func (m *mockScorer) Score(ctx context.Context, maleRoll, femaleRoll string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail[femaleRoll] {
		return 0, errors.New("scorer unavailable")
	}
	return m.scores[femaleRoll], nil
}

func (m *mockScorer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- fixtures ---

func maleViewer() models.User {
	return models.User{ID: "viewer", RollNumber: "21bcs001", Username: "viewer", Gender: models.GenderMale}
}

func femaleCandidate(n int) models.User {
	return models.User{
		ID:         fmt.Sprintf("cand%d", n),
		RollNumber: fmt.Sprintf("21bce%03d", n),
		Username:   fmt.Sprintf("cand%d", n),
		AvatarURL:  fmt.Sprintf("https://cdn.example/avatars/cand%d.png", n),
		Gender:     models.GenderFemale,
	}
}

type fixture struct {
	service *SignalService
	store   *MemoryLocationStore
	cache   *MemorySignalCache
	ledger  *mockLedger
	users   *mockUsers
	scorer  *mockScorer
}

func newFixture() *fixture {
	store := NewMemoryLocationStore(0)
	cache := NewMemorySignalCache()
	ledger := &mockLedger{}
	users := &mockUsers{users: map[string]models.User{"viewer": maleViewer()}}
	scorer := &mockScorer{scores: map[string]float64{}, fail: map[string]bool{}}

	return &fixture{
		service: &SignalService{
			Location:  store,
			Seen:      cache,
			Ledger:    ledger,
			Users:     users,
			Scorer:    scorer,
			Radius:    DefaultSignalRadiusMeters,
			Threshold: DefaultScoreThreshold,
		},
		store:  store,
		cache:  cache,
		ledger: ledger,
		users:  users,
		scorer: scorer,
	}
}

// placeCandidate registers the profile and a location ~11m from the viewer.
func (f *fixture) placeCandidate(t *testing.T, user models.User, score float64) {
	t.Helper()
	f.users.users[user.ID] = user
	f.scorer.scores[user.RollNumber] = score
	if err := f.store.Update(user.ID, baseLat+0.0001, baseLng); err != nil {
		t.Fatalf("place %s: %v", user.ID, err)
	}
}

func (f *fixture) placeViewer(t *testing.T) {
	t.Helper()
	if err := f.store.Update("viewer", baseLat, baseLng); err != nil {
		t.Fatalf("place viewer: %v", err)
	}
}

// --- tests ---

func TestCheckLiveSignals_NoLocationShortCircuits(t *testing.T) {
	f := newFixture()
	f.placeCandidate(t, femaleCandidate(1), 90)

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no signals, got %v", signals)
	}
	if f.ledger.calls != 0 || f.users.calls != 0 || f.scorer.callCount() != 0 {
		t.Fatalf("expected zero downstream calls, got ledger=%d users=%d scorer=%d",
			f.ledger.calls, f.users.calls, f.scorer.callCount())
	}
}

func TestCheckLiveSignals_QualifiedCandidateIsReturnedOnce(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)
	f.placeCandidate(t, femaleCandidate(1), 75)

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if signals[0].ID != "cand1" || signals[0].Score != 75 {
		t.Fatalf("unexpected signal: %+v", signals[0])
	}
	if !f.cache.HasSeen("viewer", "cand1") {
		t.Fatal("qualified candidate must be marked seen")
	}

	// No re-notification even though the candidate is still nearby
	signals, err = f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no repeat signals, got %v", signals)
	}
}

func TestCheckLiveSignals_ThresholdBoundary(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)
	f.placeCandidate(t, femaleCandidate(1), 60) // exactly at the threshold
	f.placeCandidate(t, femaleCandidate(2), 59) // just below

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 1 || signals[0].ID != "cand1" {
		t.Fatalf("expected only cand1 (score 60) to qualify, got %v", signals)
	}
	if f.cache.HasSeen("viewer", "cand2") {
		t.Fatal("below-threshold candidate must not be marked seen")
	}
}

func TestCheckLiveSignals_HistoryExcludesBothDirections(t *testing.T) {
	for _, direction := range []string{"viewer->candidate", "candidate->viewer"} {
		t.Run(direction, func(t *testing.T) {
			f := newFixture()
			f.placeViewer(t)
			f.placeCandidate(t, femaleCandidate(1), 95)

			row := models.Interaction{FromUserID: "viewer", ToUserID: "cand1", State: models.InteractionRejected}
			if direction == "candidate->viewer" {
				row = models.Interaction{FromUserID: "cand1", ToUserID: "viewer", State: models.InteractionLiked}
			}
			f.ledger.rows = []models.Interaction{row}

			signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(signals) != 0 {
				t.Fatalf("candidate with %s history must be excluded, got %v", direction, signals)
			}
			if f.scorer.callCount() != 0 {
				t.Fatal("blocked candidates must not reach the scorer")
			}
		})
	}
}

func TestCheckLiveSignals_SameGenderNeverAppears(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)

	sameGender := models.User{ID: "cand1", RollNumber: "21bcs099", Username: "cand1", Gender: models.GenderMale}
	f.placeCandidate(t, sameGender, 99)

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("same-gender candidate must be filtered out, got %v", signals)
	}
	if f.scorer.callCount() != 0 {
		t.Fatal("same-gender candidates must not reach the scorer")
	}
}

func TestCheckLiveSignals_ScorerFailureIsIsolated(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)
	f.placeCandidate(t, femaleCandidate(1), 80)
	f.placeCandidate(t, femaleCandidate(2), 90)
	f.placeCandidate(t, femaleCandidate(3), 70)
	f.scorer.fail[femaleCandidate(2).RollNumber] = true

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals despite one scorer failure, got %v", signals)
	}
	for _, s := range signals {
		if s.ID == "cand2" {
			t.Fatal("failed candidate must be omitted from results")
		}
	}
	if f.cache.HasSeen("viewer", "cand2") {
		t.Fatal("failed candidate must stay unseen so it can be re-evaluated")
	}
}

func TestCheckLiveSignals_SortedByScoreDescending(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)
	f.placeCandidate(t, femaleCandidate(1), 65)
	f.placeCandidate(t, femaleCandidate(2), 95)
	f.placeCandidate(t, femaleCandidate(3), 80)

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(signals))
	}
	for i := 1; i < len(signals); i++ {
		if signals[i].Score > signals[i-1].Score {
			t.Fatalf("signals not sorted descending: %v", signals)
		}
	}
}

func TestCheckLiveSignals_LedgerErrorAbortsPass(t *testing.T) {
	f := newFixture()
	f.placeViewer(t)
	f.placeCandidate(t, femaleCandidate(1), 90)
	f.ledger.err = errors.New("dynamo down")

	signals, err := f.service.CheckLiveSignals(context.Background(), maleViewer())
	if err == nil {
		t.Fatal("expected ledger failure to propagate")
	}
	if signals != nil {
		t.Fatalf("no partial results on persistence failure, got %v", signals)
	}
	if f.scorer.callCount() != 0 {
		t.Fatal("pass must abort before scoring")
	}
}

func TestGetSignalScore_SameGenderScoresZeroWithoutRemoteCall(t *testing.T) {
	f := newFixture()
	f.users.users["other"] = models.User{ID: "other", RollNumber: "21bcs050", Gender: models.GenderMale}

	score, err := f.service.GetSignalScore(context.Background(), "viewer", "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("same-gender pair must score 0, got %g", score)
	}
	if f.scorer.callCount() != 0 {
		t.Fatal("same-gender pair must not call the scorer")
	}
}

func TestGetSignalScore_UnknownUser(t *testing.T) {
	f := newFixture()

	if _, err := f.service.GetSignalScore(context.Background(), "viewer", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetSignalScore_ResolvesRollPairByGender(t *testing.T) {
	f := newFixture()
	other := femaleCandidate(7)
	f.users.users[other.ID] = other

	var gotMale, gotFemale string
	f.service.Scorer = scorerFunc(func(ctx context.Context, maleRoll, femaleRoll string) (float64, error) {
		gotMale, gotFemale = maleRoll, femaleRoll
		return 42, nil
	})

	score, err := f.service.GetSignalScore(context.Background(), other.ID, "viewer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 42 {
		t.Fatalf("expected scorer result to propagate, got %g", score)
	}
	if gotMale != "21bcs001" || gotFemale != other.RollNumber {
		t.Fatalf("roll pair resolved incorrectly: male=%s female=%s", gotMale, gotFemale)
	}
}

type scorerFunc func(ctx context.Context, maleRoll, femaleRoll string) (float64, error)

func (f scorerFunc) Score(ctx context.Context, maleRoll, femaleRoll string) (float64, error) {
	return f(ctx, maleRoll, femaleRoll)
}
