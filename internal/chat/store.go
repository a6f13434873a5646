package chat

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lalith-99/collabsphere/internal/models"
	"go.uber.org/zap"
)

// DefaultSender names the local user when no identity is known.
const DefaultSender = "Current User"

// Change tells observers that one channel's sequence grew. Version counts
// appends to that channel and Length is the new sequence length.
type Change struct {
	ChannelID string `json:"channelId"`
	Version   uint64 `json:"version"`
	Length    int    `json:"length"`
}

// Store owns channel id -> ordered messages plus the active channel pointer.
//
// Sequences are append-only and keyed independently: an append touches exactly
// one key. All methods are safe for concurrent use; each append is one step
// under the lock and observers run after it is released.
type Store struct {
	mu        sync.Mutex
	channels  []models.Channel
	index     map[string]int
	messages  map[string][]models.Message
	versions  map[string]uint64
	active    string
	lastMilli int64

	observers map[int]func(Change)
	nextObs   int

	clock    func() time.Time
	identity func() *models.Identity
	logger   *zap.Logger
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIdentity sets where Send reads the sender from.
func WithIdentity(fn func() *models.Identity) Option {
	return func(s *Store) { s.identity = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore builds a store over a channel catalog and optional seeded history.
// The first channel starts active.
func NewStore(channels []models.Channel, history map[string][]models.Message, opts ...Option) *Store {
	s := &Store{
		index:     make(map[string]int, len(channels)),
		messages:  make(map[string][]models.Message, len(history)),
		versions:  make(map[string]uint64),
		observers: make(map[int]func(Change)),
		clock:     time.Now,
		identity:  func() *models.Identity { return nil },
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, ch := range channels {
		s.addChannel(ch)
	}
	for id, msgs := range history {
		seq := make([]models.Message, len(msgs))
		copy(seq, msgs)
		for i := range seq {
			seq[i].ChannelID = id
		}
		s.messages[id] = seq
	}
	if len(s.channels) > 0 {
		s.active = s.channels[0].ID
	}
	return s
}

// Channels returns the catalog in sidebar order.
func (s *Store) Channels() []models.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]models.Channel, 0, len(s.channels)), s.channels...)
}

func (s *Store) Channel(id string) (models.Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Channel{}, false
	}
	return s.channels[i], true
}

// AddChannel registers a channel. It returns false and changes nothing when the
// id is already known.
func (s *Store) AddChannel(ch models.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addChannel(ch)
}

func (s *Store) addChannel(ch models.Channel) bool {
	if _, ok := s.index[ch.ID]; ok {
		return false
	}
	s.index[ch.ID] = len(s.channels)
	s.channels = append(s.channels, ch)
	return true
}

// SelectChannel moves the active pointer. Selecting the active channel again
// changes nothing, and message contents are never touched.
func (s *Store) SelectChannel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
}

func (s *Store) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Messages returns a copy of a channel's sequence in send order. A channel that
// never received a message yields an empty, non-nil slice.
func (s *Store) Messages(id string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.messages[id]
	return append(make([]models.Message, 0, len(seq)), seq...)
}

// Version is the number of appends to a channel since the store was built.
func (s *Store) Version(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[id]
}

// Send appends a message from the local user to one channel and returns it.
// When text is blank and there is no attachment, nothing happens and ok is false.
func (s *Store) Send(channelID, text string, file *models.Attachment) (msg *models.Message, ok bool) {
	if strings.TrimSpace(text) == "" && file == nil {
		return nil, false
	}

	sender := DefaultSender
	if u := s.identity(); u != nil && u.Name != "" {
		sender = u.Name
	}

	s.mu.Lock()
	ts := s.stamp()
	m := models.Message{
		ID:            channelID + "-" + strconv.FormatInt(ts.UnixMilli(), 10),
		ChannelID:     channelID,
		Sender:        sender,
		Content:       text,
		Timestamp:     ts,
		IsCurrentUser: true,
	}
	if file != nil {
		f := *file
		m.File = &f
	}
	s.messages[channelID] = append(s.messages[channelID], m)
	s.versions[channelID]++
	change := Change{
		ChannelID: channelID,
		Version:   s.versions[channelID],
		Length:    len(s.messages[channelID]),
	}
	observers := make([]func(Change), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	s.logger.Info("message sent",
		zap.String("channel_id", channelID),
		zap.String("message_id", m.ID),
		zap.Bool("has_file", m.File != nil),
	)
	for _, fn := range observers {
		fn(change)
	}
	return &m, true
}

// Subscribe registers fn for every future Change. The returned func removes it.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
		})
	}
}

// stamp returns a millisecond timestamp strictly after the previous one, so
// "<channel>-<millis>" ids never collide even when the clock stalls.
func (s *Store) stamp() time.Time {
	ms := s.clock().UnixMilli()
	if ms <= s.lastMilli {
		ms = s.lastMilli + 1
	}
	s.lastMilli = ms
	return time.UnixMilli(ms).UTC()
}
