package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/queue"
	"github.com/maytri315/parking-app/internal/repository"
)

// In-memory store fakes.  They reproduce the repository contracts,
// including the conditional status transitions and the sentinel
// errors, so the services can be exercised concurrently without MySQL.

type fakeSpot struct {
	lotID  uint64
	status string
}

type fakeSpotStore struct {
	mu     sync.Mutex
	nextID uint64
	spots  map[uint64]*fakeSpot
}

func newFakeSpotStore() *fakeSpotStore {
	return &fakeSpotStore{spots: map[uint64]*fakeSpot{}}
}

func (f *fakeSpotStore) CreateBulk(_ context.Context, lotID uint64, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.nextID++
		f.spots[f.nextID] = &fakeSpot{lotID: lotID, status: model.SpotAvailable}
	}
	return nil
}

func (f *fakeSpotStore) ClaimFree(_ context.Context, lotID uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.sortedIDs()
	for _, id := range ids {
		s := f.spots[id]
		if s.lotID == lotID && s.status == model.SpotAvailable {
			s.status = model.SpotOccupied
			return id, nil
		}
	}
	return 0, repository.ErrNoAvailableSpot
}

func (f *fakeSpotStore) Release(_ context.Context, spotID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[spotID]
	if !ok {
		return repository.ErrSpotNotFound
	}
	s.status = model.SpotAvailable
	return nil
}

func (f *fakeSpotStore) CountAvailable(_ context.Context, lotID uint64) (int, error) {
	return f.count(lotID, model.SpotAvailable), nil
}

func (f *fakeSpotStore) CountOccupied(_ context.Context, lotID uint64) (int, error) {
	return f.count(lotID, model.SpotOccupied), nil
}

func (f *fakeSpotStore) count(lotID uint64, status string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.spots {
		if s.lotID == lotID && s.status == status {
			n++
		}
	}
	return n
}

func (f *fakeSpotStore) ListByLot(_ context.Context, lotID uint64) ([]model.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Spot
	for _, id := range f.sortedIDs() {
		s := f.spots[id]
		if s.lotID == lotID {
			out = append(out, model.Spot{ID: id, LotID: lotID, Status: s.status})
		}
	}
	return out, nil
}

func (f *fakeSpotStore) DeleteAvailable(_ context.Context, lotID uint64, n int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.sortedIDs()
	deleted := 0
	// highest ids first, like the SQL path
	for i := len(ids) - 1; i >= 0 && deleted < n; i-- {
		s := f.spots[ids[i]]
		if s.lotID == lotID && s.status == model.SpotAvailable {
			delete(f.spots, ids[i])
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeSpotStore) OrphanedOccupied(_ context.Context) ([]uint64, error) {
	return nil, errors.New("not wired in this fake; use fakeOrphanSource")
}

func (f *fakeSpotStore) LotOf(_ context.Context, spotID uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[spotID]
	if !ok {
		return 0, repository.ErrSpotNotFound
	}
	return s.lotID, nil
}

func (f *fakeSpotStore) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(f.spots))
	for id := range f.spots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// fakeOrphanSpotStore overlays OrphanedOccupied with a computed answer:
// every occupied spot not present in the active set.
type fakeOrphanSpotStore struct {
	*fakeSpotStore
	reservations *fakeReservationStore
}

func (f *fakeOrphanSpotStore) OrphanedOccupied(_ context.Context) ([]uint64, error) {
	activeSpots := map[uint64]bool{}
	f.reservations.mu.Lock()
	for _, r := range f.reservations.byID {
		if r.EndedAt == nil {
			activeSpots[r.SpotID] = true
		}
	}
	f.reservations.mu.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint64
	for _, id := range f.sortedIDs() {
		s := f.spots[id]
		if s.status == model.SpotOccupied && !activeSpots[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeLotStore struct {
	mu     sync.Mutex
	nextID uint64
	lots   map[uint64]model.Lot
	spots  *fakeSpotStore // for the delete guard
}

func newFakeLotStore(spots *fakeSpotStore) *fakeLotStore {
	return &fakeLotStore{lots: map[uint64]model.Lot{}, spots: spots}
}

func (f *fakeLotStore) Create(_ context.Context, l *model.Lot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	f.lots[l.ID] = *l
	return nil
}

func (f *fakeLotStore) GetByID(_ context.Context, id uint64) (*model.Lot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lots[id]
	if !ok {
		return nil, repository.ErrLotNotFound
	}
	cp := l
	return &cp, nil
}

func (f *fakeLotStore) List(_ context.Context) ([]model.Lot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint64, 0, len(f.lots))
	for id := range f.lots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Lot, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.lots[id])
	}
	return out, nil
}

func (f *fakeLotStore) Update(_ context.Context, l *model.Lot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lots[l.ID]; !ok {
		return repository.ErrLotNotFound
	}
	f.lots[l.ID] = *l
	return nil
}

func (f *fakeLotStore) UpdateSpotCount(_ context.Context, lotID uint64, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lots[lotID]
	if !ok {
		return repository.ErrLotNotFound
	}
	l.NumberOfSpots = total
	f.lots[lotID] = l
	return nil
}

func (f *fakeLotStore) Delete(ctx context.Context, lotID uint64) error {
	if _, err := f.GetByID(ctx, lotID); err != nil {
		return err
	}
	if occ, _ := f.spots.CountOccupied(ctx, lotID); occ > 0 {
		return repository.ErrLotHasOccupiedSpots
	}
	f.spots.mu.Lock()
	for id, s := range f.spots.spots {
		if s.lotID == lotID {
			delete(f.spots.spots, id)
		}
	}
	f.spots.mu.Unlock()
	f.mu.Lock()
	delete(f.lots, lotID)
	f.mu.Unlock()
	return nil
}

type fakeReservationStore struct {
	mu         sync.Mutex
	nextID     uint64
	byID       map[uint64]*model.Reservation
	failCreate bool
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byID: map[uint64]*model.Reservation{}}
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("simulated insert failure")
	}
	f.nextID++
	res.ID = f.nextID
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) MarkReleased(_ context.Context, id uint64, endedAt time.Time, cost float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	if r.EndedAt != nil {
		return repository.ErrAlreadyReleased
	}
	r.EndedAt = &endedAt
	r.Cost = &cost
	return nil
}

func (f *fakeReservationStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.byID {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeReservationStore) HasActive(_ context.Context, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.UserID == userID && r.EndedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) SummaryForUser(_ context.Context, userID uint64, from, to time.Time) (int, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count, total := 0, 0.0
	for _, r := range f.byID {
		if r.UserID != userID {
			continue
		}
		if r.StartedAt.Before(from) || !r.StartedAt.Before(to) {
			continue
		}
		count++
		if r.Cost != nil {
			total += *r.Cost
		}
	}
	return count, total, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uint64]model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	f := &fakeUserStore{users: map[uint64]model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, role string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.User
	for _, id := range ids {
		if f.users[id].Role == role {
			out = append(out, f.users[id])
		}
	}
	return out, nil
}

// recordingNotifier captures queued notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []queue.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n queue.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []queue.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
