package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/domain/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeDirectory is an in-memory stand-in for the remote document store.
type fakeDirectory struct {
	mu            sync.Mutex
	markets       map[string]*entity.Market
	submissions   map[string]*entity.Submission
	notifications map[string]map[string]*entity.Notification // userID -> id -> note
	broadcasts    map[string]*entity.Notification

	failMarkets     bool
	failSubmissions bool
	marketFetches   int

	// Invoked after a successful market fetch, before the result returns.
	afterMarketFetch func()
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		markets:       make(map[string]*entity.Market),
		submissions:   make(map[string]*entity.Submission),
		notifications: make(map[string]map[string]*entity.Notification),
		broadcasts:    make(map[string]*entity.Notification),
	}
}

func (d *fakeDirectory) FetchAllMarkets(_ context.Context) (map[string]*entity.Market, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.marketFetches++
	if d.failMarkets {
		return nil, domainerrors.ErrNetworkFailed
	}

	out := make(map[string]*entity.Market, len(d.markets))
	for id, m := range d.markets {
		copied := *m
		out[id] = &copied
	}

	if d.afterMarketFetch != nil {
		d.afterMarketFetch()
	}

	return out, nil
}

func (d *fakeDirectory) FetchAllSubmissions(_ context.Context) (map[string]*entity.Submission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failSubmissions {
		return nil, domainerrors.ErrNetworkFailed
	}

	out := make(map[string]*entity.Submission, len(d.submissions))
	for id, s := range d.submissions {
		copied := *s
		out[id] = &copied
	}

	return out, nil
}

func (d *fakeDirectory) FetchNotifications(_ context.Context, userID string) (map[string]*entity.Notification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]*entity.Notification)
	for id, n := range d.notifications[userID] {
		copied := *n
		out[id] = &copied
	}

	return out, nil
}

func (d *fakeDirectory) FetchBroadcastNotifications(_ context.Context) (map[string]*entity.Notification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]*entity.Notification, len(d.broadcasts))
	for id, n := range d.broadcasts {
		copied := *n
		out[id] = &copied
	}

	return out, nil
}

func (d *fakeDirectory) PutMarket(_ context.Context, market *entity.Market) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	copied := *market
	d.markets[market.ID] = &copied

	return nil
}

func (d *fakeDirectory) PutSubmission(_ context.Context, submission *entity.Submission) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Keyed by market ID, matching the remote store's overwrite behavior.
	copied := *submission
	d.submissions[submission.MarketID] = &copied

	return nil
}

type fakeConnectivity struct {
	online bool
}

func (c *fakeConnectivity) Online(_ context.Context) bool {
	return c.online
}

// memMarketRepo is an in-memory MarketRepository.
type memMarketRepo struct {
	mu      sync.Mutex
	markets map[string]*entity.Market
}

func newMemMarketRepo() *memMarketRepo {
	return &memMarketRepo{markets: make(map[string]*entity.Market)}
}

func (r *memMarketRepo) Upsert(_ context.Context, market *entity.Market) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *market
	r.markets[market.ID] = &copied

	return nil
}

func (r *memMarketRepo) FindByID(_ context.Context, id string) (*entity.Market, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.markets[id]; ok {
		copied := *m

		return &copied, nil
	}

	return nil, repository.ErrMarketNotFound
}

func (r *memMarketRepo) ListAll(_ context.Context) ([]*entity.Market, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Market, 0, len(r.markets))
	for _, m := range r.markets {
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *memMarketRepo) ListBySubmitter(_ context.Context, userID string) ([]*entity.Market, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Market, 0)
	for _, m := range r.markets {
		if m.SubmittedBy == userID {
			copied := *m
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *memMarketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.markets, id)

	return nil
}

// memSubmissionRepo is an in-memory SubmissionRepository.
type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*entity.Submission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{submissions: make(map[string]*entity.Submission)}
}

func (r *memSubmissionRepo) Upsert(_ context.Context, submission *entity.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *submission
	r.submissions[submission.ID] = &copied

	return nil
}

func (r *memSubmissionRepo) ListAll(_ context.Context) ([]*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *memSubmissionRepo) ListBySubmitter(_ context.Context, userID string) ([]*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Submission, 0)
	for _, s := range r.submissions {
		if s.SubmittedBy == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })

	return out, nil
}

func (r *memSubmissionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.submissions, id)

	return nil
}

func (r *memSubmissionRepo) DeleteBySubmitterAndKind(_ context.Context, userID string, kind entity.SubmissionKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.submissions {
		if s.SubmittedBy == userID && s.Kind == kind {
			delete(r.submissions, id)
		}
	}

	return nil
}

// memNotificationRepo is an in-memory NotificationRepository.
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*entity.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[string]*entity.Notification)}
}

func (r *memNotificationRepo) Insert(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notifications[notification.ID]; exists {
		return fmt.Errorf("duplicate notification id %s", notification.ID)
	}

	copied := *notification
	r.notifications[notification.ID] = &copied

	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *memNotificationRepo) ListUnreadByUser(_ context.Context, userID string) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.IsRead = true

	return nil
}

func (r *memNotificationRepo) HasUnread(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			return true, nil
		}
	}

	return false, nil
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Save(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		copied := *u

		return &copied, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// fakeSession returns a fixed user, or an error when none is set.
type fakeSession struct {
	user *entity.User
	err  error
}

func (s *fakeSession) CurrentUser(_ context.Context) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, domainerrors.ErrNotLoggedIn
	}
	copied := *s.user

	return &copied, nil
}

func (s *fakeSession) ParseIDToken(_ string) (*entity.User, error) {
	return s.CurrentUser(context.Background())
}

// fakePhotoStore records uploads and returns deterministic URLs.
type fakePhotoStore struct {
	uploads int
}

func (p *fakePhotoStore) Upload(_ context.Context, name string, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	p.uploads++

	return "https://photos.example.com/" + name, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.SubmissionEvent
	err    error
}

func (p *fakePublisher) PublishSubmissionEvent(_ context.Context, event *service.SubmissionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	copied := *event
	p.events = append(p.events, &copied)

	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}

// fakeShareCodes returns a marker payload instead of an actual PNG.
type fakeShareCodes struct{}

func (f *fakeShareCodes) GenerateMarketCode(marketID string) ([]byte, error) {
	return []byte("code:" + marketID), nil
}

func (f *fakeShareCodes) ParseMarketCode(data string) (string, error) {
	return data, nil
}
