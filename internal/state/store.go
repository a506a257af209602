// Package state keeps the per-session workspace: entity list snapshots and
// the invoice draft. Snapshots are replaced wholesale and guarded by a
// per-kind generation counter so a slow response never overwrites a newer
// one.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind names one cached entity list.
type Kind string

const (
	KindOrganizations Kind = "organizations"
	KindBranchTypes   Kind = "branch_types"
	KindBranches      Kind = "branches"
	KindProducts      Kind = "products"
	KindInvoices      Kind = "invoices"
)

// Kinds lists every cached entity kind.
var Kinds = []Kind{KindOrganizations, KindBranchTypes, KindBranches, KindProducts, KindInvoices}

const draftKey = "draft"

// Writes the snapshot only while the generation key still holds the
// caller's ticket.
var commitScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
  return 1
end
return 0
`)

// Snapshot is the cached list of one kind together with the scope (owning
// organization, branch or user id) it was loaded for.
type Snapshot[T any] struct {
	Scope      int64 `json:"scope"`
	Generation int64 `json:"generation"`
	Items      []T   `json:"items"`
	Loaded     bool  `json:"-"`
}

// Ticket identifies one in-flight load.
type Ticket struct {
	Session    string
	Kind       Kind
	Generation int64
}

// Store persists workspace data in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a Store whose keys expire after ttl of inactivity.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Begin issues a ticket newer than every ticket issued before it for the
// same session and kind.
func (s *Store) Begin(ctx context.Context, session string, kind Kind) (Ticket, error) {
	key := s.generationKey(session, kind)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Ticket{}, fmt.Errorf("state: begin %s: %w", kind, err)
	}
	return Ticket{Session: session, Kind: kind, Generation: incr.Val()}, nil
}

// Commit stores items under the ticket's kind. It reports false, leaving
// the stored snapshot alone, when a newer ticket has been issued since.
func Commit[T any](ctx context.Context, s *Store, t Ticket, scope int64, items []T) (bool, error) {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(Snapshot[T]{Scope: scope, Generation: t.Generation, Items: items})
	if err != nil {
		return false, fmt.Errorf("state: encode %s: %w", t.Kind, err)
	}
	keys := []string{s.generationKey(t.Session, t.Kind), s.dataKey(t.Session, string(t.Kind))}
	res, err := commitScript.Run(ctx, s.client, keys,
		strconv.FormatInt(t.Generation, 10), payload, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("state: commit %s: %w", t.Kind, err)
	}
	return res == 1, nil
}

// Get returns the stored snapshot of kind; a missing snapshot comes back
// with Loaded false.
func Get[T any](ctx context.Context, s *Store, session string, kind Kind) (Snapshot[T], error) {
	var snap Snapshot[T]
	found, err := s.getJSON(ctx, s.dataKey(session, string(kind)), &snap)
	if err != nil {
		return Snapshot[T]{}, fmt.Errorf("state: load %s: %w", kind, err)
	}
	snap.Loaded = found
	return snap, nil
}

// PutDraft stores the raw draft document.
func (s *Store) PutDraft(ctx context.Context, session string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode draft: %w", err)
	}
	return s.client.Set(ctx, s.dataKey(session, draftKey), payload, s.ttl).Err()
}

// GetDraft decodes the stored draft into dest.
func (s *Store) GetDraft(ctx context.Context, session string, dest any) (bool, error) {
	return s.getJSON(ctx, s.dataKey(session, draftKey), dest)
}

// DeleteDraft drops the stored draft.
func (s *Store) DeleteDraft(ctx context.Context, session string) error {
	return s.client.Del(ctx, s.dataKey(session, draftKey)).Err()
}

// Reset drops every snapshot, counter and draft of the session.
func (s *Store) Reset(ctx context.Context, session string) error {
	keys := make([]string, 0, len(Kinds)*2+1)
	for _, kind := range Kinds {
		keys = append(keys, s.dataKey(session, string(kind)), s.generationKey(session, kind))
	}
	keys = append(keys, s.dataKey(session, draftKey))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("state: reset: %w", err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) dataKey(session, name string) string {
	return "workspace:" + session + ":" + name
}

func (s *Store) generationKey(session string, kind Kind) string {
	return "workspace:" + session + ":" + string(kind) + ":gen"
}
