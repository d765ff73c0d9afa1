package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is a single in-memory stand-in for the shared database. Hold and
// ledger fakes wrap the same store so hold grants see sold seats and
// finalizes see holds, like the real tables do. Every mutating operation
// holds the mutex end to end, which mirrors the transactional behavior the
// SQL layer gets from its constraints.
type memStore struct {
	mu       sync.Mutex
	holds    map[string]entity.SeatHold
	sold     map[string]entity.SoldSeat
	bookings map[string]*entity.Booking // by payment ref
}

func newMemStore() *memStore {
	return &memStore{
		holds:    make(map[string]entity.SeatHold),
		sold:     make(map[string]entity.SoldSeat),
		bookings: make(map[string]*entity.Booking),
	}
}

func seatKey(showtimeID uuid.UUID, seat string) string {
	return showtimeID.String() + "|" + seat
}

func (s *memStore) soldNames(showtimeID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, seat := range s.sold {
		if seat.ShowtimeID == showtimeID {
			names = append(names, seat.SeatName)
		}
	}
	return names, nil
}

// ---------------- hold repository ----------------

type memHoldRepo struct {
	store *memStore
}

func (r *memHoldRepo) Grant(ctx context.Context, showtimeID, userID uuid.UUID, seatNames []string, expiresAt, now time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, hold := range s.holds {
		if hold.ShowtimeID == showtimeID && !hold.ExpiresAt.After(now) {
			delete(s.holds, key)
		}
	}

	var soldConflict []string
	for _, seat := range seatNames {
		if _, ok := s.sold[seatKey(showtimeID, seat)]; ok {
			soldConflict = append(soldConflict, seat)
		}
	}
	if len(soldConflict) > 0 {
		return &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: soldConflict}
	}

	var heldConflict []string
	for _, seat := range seatNames {
		if hold, ok := s.holds[seatKey(showtimeID, seat)]; ok && hold.UserID != userID && hold.ExpiresAt.After(now) {
			heldConflict = append(heldConflict, seat)
		}
	}
	if len(heldConflict) > 0 {
		return &entity.SeatConflictError{Reason: entity.ConflictHeld, Seats: heldConflict}
	}

	for key, hold := range s.holds {
		if hold.ShowtimeID == showtimeID && hold.UserID == userID {
			delete(s.holds, key)
		}
	}

	for _, seat := range seatNames {
		s.holds[seatKey(showtimeID, seat)] = entity.SeatHold{
			ShowtimeID: showtimeID,
			SeatName:   seat,
			UserID:     userID,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
		}
	}
	return nil
}

func (r *memHoldRepo) Release(ctx context.Context, showtimeID, userID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, hold := range s.holds {
		if hold.ShowtimeID == showtimeID && hold.UserID == userID {
			delete(s.holds, key)
		}
	}
	return nil
}

func (r *memHoldRepo) FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var holds []*entity.SeatHold
	for _, hold := range s.holds {
		if hold.ShowtimeID == showtimeID && hold.ExpiresAt.After(now) {
			h := hold
			holds = append(holds, &h)
		}
	}
	return holds, nil
}

func (r *memHoldRepo) FindActiveByUser(ctx context.Context, showtimeID, userID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var holds []*entity.SeatHold
	for _, hold := range s.holds {
		if hold.ShowtimeID == showtimeID && hold.UserID == userID && hold.ExpiresAt.After(now) {
			h := hold
			holds = append(holds, &h)
		}
	}
	return holds, nil
}

func (r *memHoldRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, hold := range s.holds {
		if !hold.ExpiresAt.After(now) {
			delete(s.holds, key)
			removed++
		}
	}
	return removed, nil
}

// ---------------- ledger repository ----------------

type memLedgerRepo struct {
	store *memStore
}

func (r *memLedgerRepo) Finalize(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.bookings[booking.PaymentRef]; ok {
		return existing, nil
	}

	var conflict []string
	for _, seat := range booking.Seats {
		if _, ok := s.sold[seatKey(booking.ShowtimeID, seat.SeatName)]; ok {
			conflict = append(conflict, seat.SeatName)
		}
	}
	if len(conflict) > 0 {
		return nil, &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: conflict}
	}

	for _, seat := range booking.Seats {
		s.sold[seatKey(booking.ShowtimeID, seat.SeatName)] = seat
	}
	s.bookings[booking.PaymentRef] = booking

	for key, hold := range s.holds {
		if hold.ShowtimeID == booking.ShowtimeID && hold.UserID == booking.UserID {
			delete(s.holds, key)
		}
	}

	return booking, nil
}

func (r *memLedgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, booking := range s.bookings {
		if booking.ID == id {
			return booking, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) FindByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookings[paymentRef], nil
}

func (r *memLedgerRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var bookings []*entity.Booking
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (r *memLedgerRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memLedgerRepo) SoldSeatNames(ctx context.Context, showtimeID uuid.UUID) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, seat := range s.sold {
		if seat.ShowtimeID == showtimeID {
			names = append(names, seat.SeatName)
		}
	}
	return names, nil
}

// ---------------- catalog repositories ----------------

type memShowtimeRepo struct {
	mu        sync.Mutex
	showtimes map[uuid.UUID]*entity.Showtime
}

func newMemShowtimeRepo() *memShowtimeRepo {
	return &memShowtimeRepo{showtimes: make(map[uuid.UUID]*entity.Showtime)}
}

func (r *memShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.showtimes {
		if existing.ScreenID == showtime.ScreenID && existing.Overlaps(showtime.StartTime, showtime.EndTime) {
			return entity.ErrOverlappingShowtime
		}
	}
	r.showtimes[showtime.ID] = showtime
	return nil
}

func (r *memShowtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showtimes[id], nil
}

func (r *memShowtimeRepo) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var showtimes []*entity.Showtime
	for _, showtime := range r.showtimes {
		if showtime.MovieID == movieID {
			showtimes = append(showtimes, showtime)
		}
	}
	return showtimes, nil
}

func (r *memShowtimeRepo) FindFrom(ctx context.Context, from time.Time) ([]*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var showtimes []*entity.Showtime
	for _, showtime := range r.showtimes {
		if !showtime.StartTime.Before(from) {
			showtimes = append(showtimes, showtime)
		}
	}
	return showtimes, nil
}

func (r *memShowtimeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.showtimes[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.showtimes, id)
	return nil
}

type memScreenRepo struct {
	mu      sync.Mutex
	screens map[uuid.UUID]*entity.Screen
}

func newMemScreenRepo() *memScreenRepo {
	return &memScreenRepo{screens: make(map[uuid.UUID]*entity.Screen)}
}

func (r *memScreenRepo) Create(ctx context.Context, screen *entity.Screen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	for _, seat := range screen.Layout {
		if seen[seat.SeatName] {
			return fmt.Errorf("duplicate seat name %s in layout: %w", seat.SeatName, entity.ErrInvalidSelection)
		}
		seen[seat.SeatName] = true
	}
	r.screens[screen.ID] = screen
	return nil
}

func (r *memScreenRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screens[id], nil
}

func (r *memScreenRepo) FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var screens []*entity.Screen
	for _, screen := range r.screens {
		if screen.HallID == hallID {
			screens = append(screens, screen)
		}
	}
	return screens, nil
}

func (r *memScreenRepo) ReplaceLayout(ctx context.Context, screenID uuid.UUID, layout []entity.SeatDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	screen, ok := r.screens[screenID]
	if !ok {
		return entity.ErrNotFound
	}
	screen.Layout = layout
	return nil
}

func (r *memScreenRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.screens[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.screens, id)
	return nil
}

type memMovieRepo struct {
	mu     sync.Mutex
	movies map[uuid.UUID]*entity.Movie
}

func newMemMovieRepo() *memMovieRepo {
	return &memMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)}
}

func (r *memMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies[movie.ID] = movie
	return nil
}

func (r *memMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movies[id], nil
}

func (r *memMovieRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var movies []*entity.Movie
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	return movies, nil
}

func (r *memMovieRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.movies)), nil
}

func (r *memMovieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[movie.ID]; !ok {
		return entity.ErrNotFound
	}
	r.movies[movie.ID] = movie
	return nil
}

func (r *memMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.movies, id)
	return nil
}

type memHallRepo struct {
	mu    sync.Mutex
	halls map[uuid.UUID]*entity.Hall
}

func newMemHallRepo() *memHallRepo {
	return &memHallRepo{halls: make(map[uuid.UUID]*entity.Hall)}
}

func (r *memHallRepo) Create(ctx context.Context, hall *entity.Hall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halls[hall.ID] = hall
	return nil
}

func (r *memHallRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halls[id], nil
}

func (r *memHallRepo) FindAll(ctx context.Context) ([]*entity.Hall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var halls []*entity.Hall
	for _, hall := range r.halls {
		halls = append(halls, hall)
	}
	return halls, nil
}

func (r *memHallRepo) Update(ctx context.Context, hall *entity.Hall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.halls[hall.ID]; !ok {
		return entity.ErrNotFound
	}
	r.halls[hall.ID] = hall
	return nil
}

func (r *memHallRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.halls[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.halls, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email %s already registered: %w", user.Email, entity.ErrInvalidSelection)
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

// ---------------- cache and notifier fakes ----------------

type memCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) GetAvailability(ctx context.Context, showtimeID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[showtimeID]
	return payload, ok
}

func (c *memCache) SetAvailability(ctx context.Context, showtimeID string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[showtimeID] = payload
}

func (c *memCache) InvalidateAvailability(ctx context.Context, showtimeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, showtimeID)
	c.invalidations++
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []*entity.Booking
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, booking *entity.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking)
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.bookings)
}

// ---------------- fixture ----------------

// fixture wires the full service graph over the in-memory store with one
// screen, one showtime and two users ready to go.
type fixture struct {
	service  *Service
	store    *memStore
	cache    *memCache
	notifier *recordingNotifier

	showtimeID uuid.UUID
	screenID   uuid.UUID
	alice      uuid.UUID
	bob        uuid.UUID
}

func newFixture() *fixture {
	store := newMemStore()
	cache := newMemCache()
	notify := &recordingNotifier{}

	repo := &repository.Repository{
		User:     newMemUserRepo(),
		Movie:    newMemMovieRepo(),
		Hall:     newMemHallRepo(),
		Screen:   newMemScreenRepo(),
		Showtime: newMemShowtimeRepo(),
		Hold:     &memHoldRepo{store: store},
		Ledger:   &memLedgerRepo{store: store},
	}

	config := testConfig()
	gateway := newTestGateway(config)

	f := &fixture{
		service:  NewService(repo, config, cache, gateway, notify, testLogger()),
		store:    store,
		cache:    cache,
		notifier: notify,
		alice:    uuid.New(),
		bob:      uuid.New(),
	}

	f.seedCatalog(repo)
	return f
}

func (f *fixture) seedCatalog(repo *repository.Repository) {
	ctx := context.Background()
	now := time.Now()

	movie := &entity.Movie{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:           "Arrival",
		Description:     "First contact",
		DurationMinutes: 116,
		Status:          entity.MovieStatusNowShowing,
	}
	_ = repo.Movie.Create(ctx, movie)

	hall := &entity.Hall{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:    "Downtown",
		Address: "1 Main St",
	}
	_ = repo.Hall.Create(ctx, hall)

	screen := &entity.Screen{
		Base:   entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		HallID: hall.ID,
		Name:   "Screen 1",
		Layout: []entity.SeatDefinition{
			{SeatName: "A1", Class: entity.SeatClassRegular, PriceCents: 1200},
			{SeatName: "A2", Class: entity.SeatClassRegular, PriceCents: 1200},
			{SeatName: "A3", Class: entity.SeatClassRegular, PriceCents: 1200},
			{SeatName: "B1", Class: entity.SeatClassPremium, PriceCents: 1800},
			{SeatName: "B2", Class: entity.SeatClassPremium, PriceCents: 1800},
			{SeatName: "C1", Class: entity.SeatClassVIP, PriceCents: 2500},
		},
	}
	_ = repo.Screen.Create(ctx, screen)
	f.screenID = screen.ID

	showtime := &entity.Showtime{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:   movie.ID,
		HallID:    hall.ID,
		ScreenID:  screen.ID,
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(4 * time.Hour),
	}
	_ = repo.Showtime.Create(ctx, showtime)
	f.showtimeID = showtime.ID
}

// holdFor inserts a hold row directly, bypassing the service, so tests can
// shape expiry exactly.
func (f *fixture) holdFor(userID uuid.UUID, seats []string, expiresAt time.Time) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, seat := range seats {
		f.store.holds[seatKey(f.showtimeID, seat)] = entity.SeatHold{
			ShowtimeID: f.showtimeID,
			SeatName:   seat,
			UserID:     userID,
			ExpiresAt:  expiresAt,
			CreatedAt:  time.Now(),
		}
	}
}
