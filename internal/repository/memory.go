package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/flexoffice/booking-service/internal/domain"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[user.ID]; exists {
		return nil
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// MemorySpaceRepository keeps the catalog in seeding order.
type MemorySpaceRepository struct {
	mu     sync.RWMutex
	order  []string
	spaces map[string]domain.Space
}

// NewMemorySpaceRepository creates an empty catalog.
func NewMemorySpaceRepository() *MemorySpaceRepository {
	return &MemorySpaceRepository{spaces: make(map[string]domain.Space)}
}

func (r *MemorySpaceRepository) Save(_ context.Context, space *domain.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.spaces[space.ID]; exists {
		return nil
	}
	stored := *space
	stored.Equipment = slices.Clone(space.Equipment)
	r.spaces[space.ID] = stored
	r.order = append(r.order, space.ID)
	return nil
}

// SetAvailability toggles a space. It stands in for the administrative process.
func (r *MemorySpaceRepository) SetAvailability(id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	space, ok := r.spaces[id]
	if !ok {
		return ErrNotFound
	}
	space.Available = available
	r.spaces[id] = space
	return nil
}

func (r *MemorySpaceRepository) GetByID(_ context.Context, id string) (*domain.Space, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	space, ok := r.spaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	space.Equipment = slices.Clone(space.Equipment)
	return &space, nil
}

func (r *MemorySpaceRepository) List(_ context.Context) ([]domain.Space, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Space, 0, len(r.order))
	for _, id := range r.order {
		space := r.spaces[id]
		space.Equipment = slices.Clone(space.Equipment)
		result = append(result, space)
	}
	return result, nil
}

// MemoryBookingRepository is an id-keyed booking table. Records are stored by
// value so readers only ever see fully written bookings.
type MemoryBookingRepository struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	rows   map[int64]domain.Booking
}

// NewMemoryBookingRepository creates an empty table whose first ID is 1.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{rows: make(map[int64]domain.Booking)}
}

func (r *MemoryBookingRepository) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	booking.ID = r.nextID
	r.rows[booking.ID] = copyBooking(*booking)
	r.order = append(r.order, booking.ID)
	return nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	booking = copyBooking(booking)
	return &booking, nil
}

func (r *MemoryBookingRepository) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *MemoryBookingRepository) ListBySpace(_ context.Context, spaceID string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.SpaceID == spaceID }), nil
}

func (r *MemoryBookingRepository) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Booking{}
	for _, id := range r.order {
		if booking := r.rows[id]; keep(booking) {
			result = append(result, copyBooking(booking))
		}
	}
	return result
}

func (r *MemoryBookingRepository) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	booking.Status = status
	r.rows[id] = booking
	return nil
}

func (r *MemoryBookingRepository) AttachCredential(_ context.Context, id int64, credential domain.AccessCredential) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.rows[id]
	if !ok {
		return false, ErrNotFound
	}
	if booking.Credential != nil {
		return false, nil
	}
	booking.Credential = &credential
	r.rows[id] = booking
	return true, nil
}

func copyBooking(b domain.Booking) domain.Booking {
	if b.Credential != nil {
		credential := *b.Credential
		b.Credential = &credential
	}
	return b
}
