package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jjenkins/civic/internal/model"
)

// Listing page rules shared by the stores and the adapter fallbacks
const (
	DefaultLimit           = 20
	DefaultLegislatorLimit = 10
	MaxLimit               = 100
)

// DB holds every in-memory table. Stores built on the same DB share its lock,
// so multi-table operations (vote + tally, RSVP + counter) are atomic.
type DB struct {
	mu    sync.RWMutex
	now   func() time.Time
	newID func() string

	bills       *table[model.Bill]
	legislators *table[model.Legislator]
	news        *table[model.NewsArticle]
	polls       *table[model.Poll]
	pollVotes   *table[model.PollVote]
	feedback    *table[model.FeedbackSubmission]
	fbVotes     *table[model.FeedbackVote]
	fbComments  *table[model.FeedbackComment]
	events      *table[model.CivicEvent]
	rsvps       *table[model.EventRsvp]
	users       *table[model.User]
	bookmarks   *table[model.Bookmark]
	chats       *table[model.ChatSession]

	// (itemID, voter identity) -> vote id
	pollVoterIndex     map[string]string
	feedbackVoterIndex map[string]string
}

// Option configures a DB
type Option func(*DB)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithIDGenerator overrides how new entity ids are minted
func WithIDGenerator(gen func() string) Option {
	return func(db *DB) { db.newID = gen }
}

// NewDB creates an empty in-memory database
func NewDB(opts ...Option) *DB {
	db := &DB{
		now:                time.Now,
		newID:              uuid.NewString,
		bills:              newTable[model.Bill](),
		legislators:        newTable[model.Legislator](),
		news:               newTable[model.NewsArticle](),
		polls:              newTable[model.Poll](),
		pollVotes:          newTable[model.PollVote](),
		feedback:           newTable[model.FeedbackSubmission](),
		fbVotes:            newTable[model.FeedbackVote](),
		fbComments:         newTable[model.FeedbackComment](),
		events:             newTable[model.CivicEvent](),
		rsvps:              newTable[model.EventRsvp](),
		users:              newTable[model.User](),
		bookmarks:          newTable[model.Bookmark](),
		chats:              newTable[model.ChatSession](),
		pollVoterIndex:     make(map[string]string),
		feedbackVoterIndex: make(map[string]string),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Counts is the number of rows in each table
type Counts struct {
	Bills         int `json:"bills"`
	Legislators   int `json:"legislators"`
	NewsArticles  int `json:"newsArticles"`
	Polls         int `json:"polls"`
	PollVotes     int `json:"pollVotes"`
	Feedback      int `json:"feedback"`
	FeedbackVotes int `json:"feedbackVotes"`
	Comments      int `json:"comments"`
	Events        int `json:"events"`
	Rsvps         int `json:"rsvps"`
	Users         int `json:"users"`
	Bookmarks     int `json:"bookmarks"`
	ChatSessions  int `json:"chatSessions"`
}

// Counts returns the current table sizes
func (db *DB) Counts() Counts {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return Counts{
		Bills:         len(db.bills.rows),
		Legislators:   len(db.legislators.rows),
		NewsArticles:  len(db.news.rows),
		Polls:         len(db.polls.rows),
		PollVotes:     len(db.pollVotes.rows),
		Feedback:      len(db.feedback.rows),
		FeedbackVotes: len(db.fbVotes.rows),
		Comments:      len(db.fbComments.rows),
		Events:        len(db.events.rows),
		Rsvps:         len(db.rsvps.rows),
		Users:         len(db.users.rows),
		Bookmarks:     len(db.bookmarks.rows),
		ChatSessions:  len(db.chats.rows),
	}
}

// Stores bundles one store per entity family over a shared DB
type Stores struct {
	DB          *DB
	Bills       *BillStore
	Legislators *LegislatorStore
	News        *NewsStore
	Polls       *PollStore
	Feedback    *FeedbackStore
	Events      *EventStore
	Users       *UserStore
	Chats       *ChatStore
}

// NewStores wires every store to db
func NewStores(db *DB) *Stores {
	return &Stores{
		DB:          db,
		Bills:       NewBillStore(db),
		Legislators: NewLegislatorStore(db),
		News:        NewNewsStore(db),
		Polls:       NewPollStore(db),
		Feedback:    NewFeedbackStore(db),
		Events:      NewEventStore(db),
		Users:       NewUserStore(db),
		Chats:       NewChatStore(db),
	}
}

// row keeps the insertion sequence next to the value
type row[T any] struct {
	seq uint64
	val T
}

// table is an id-keyed map that remembers insertion order
type table[T any] struct {
	rows map[string]*row[T]
	seq  uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*row[T])}
}

// put inserts or replaces; a replaced row keeps its original position
func (t *table[T]) put(id string, v T) (inserted bool) {
	if r, ok := t.rows[id]; ok {
		r.val = v
		return false
	}
	t.seq++
	t.rows[id] = &row[T]{seq: t.seq, val: v}
	return true
}

func (t *table[T]) get(id string) (T, bool) {
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.val, true
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// scan returns the values accepted by keep, in insertion order
func (t *table[T]) scan(keep func(T) bool) []T {
	rows := make([]*row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r.val) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.val
	}
	return out
}

// NormalizePage applies the default and maximum limit and clamps a negative offset to 0
func NormalizePage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Paginate slices an already filtered and sorted list
func Paginate[T any](items []T, limit, offset, def int) []T {
	limit, offset = NormalizePage(limit, offset, def)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// stamp fills zero created/updated times, inheriting from a previous version when there is one
func stamp(created, updated *time.Time, prevCreated, prevUpdated time.Time, exists bool, now time.Time) {
	if created.IsZero() {
		if exists {
			*created = prevCreated
		} else {
			*created = now
		}
	}
	if updated.IsZero() {
		if exists && !prevUpdated.IsZero() {
			*updated = prevUpdated
		} else {
			*updated = *created
		}
	}
}
