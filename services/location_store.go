package services

import (
	"errors"
	"math"
	"sync"
	"time"

	"bloom_server/utils"
)

// ErrInvalidCoordinates is returned for non-finite or out-of-range input.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// LocationRecord is a user's last reported coordinate.
type LocationRecord struct {
	UserID    string
	Latitude  float64
	Longitude float64
	UpdatedAt time.Time
}

// LocationStore answers nearby-radius queries over last-known locations.
// The store is process-local; a multi-instance deployment would swap in an
// implementation backed by a shared store.
type LocationStore interface {
	// Update overwrites the user's record; latest write wins.
	Update(userID string, lat, lng float64) error
	// Nearby returns the ids of all other users within radiusMeters of the
	// given user's last-known location. Empty when the user has no record.
	Nearby(userID string, radiusMeters float64) []string
}

// MemoryLocationStore keeps one record per user in memory. MaxAge > 0
// enables lazy expiry: stale records are skipped on reads and dropped when
// encountered. MaxAge 0 keeps records forever.
type MemoryLocationStore struct {
	mu      sync.RWMutex
	records map[string]LocationRecord
	maxAge  time.Duration
	now     func() time.Time
}

func NewMemoryLocationStore(maxAge time.Duration) *MemoryLocationStore {
	return &MemoryLocationStore{
		records: make(map[string]LocationRecord),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (s *MemoryLocationStore) Update(userID string, lat, lng float64) error {
	if !validCoordinate(lat, lng) {
		return ErrInvalidCoordinates
	}

	s.mu.Lock()
	s.records[userID] = LocationRecord{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
		UpdatedAt: s.now(),
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryLocationStore) Nearby(userID string, radiusMeters float64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, ok := s.records[userID]
	if !ok || s.expired(origin) {
		return nil
	}

	var nearby []string
	for id, rec := range s.records {
		if id == userID || s.expired(rec) {
			continue
		}
		d := utils.DistanceMeters(origin.Latitude, origin.Longitude, rec.Latitude, rec.Longitude)
		if d <= radiusMeters {
			nearby = append(nearby, id)
		}
	}
	return nearby
}

func (s *MemoryLocationStore) expired(rec LocationRecord) bool {
	return s.maxAge > 0 && s.now().Sub(rec.UpdatedAt) > s.maxAge
}

func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
