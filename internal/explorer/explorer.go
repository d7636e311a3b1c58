// Package explorer holds one viewer session's state: the current artwork,
// the history of accepted artworks and the ban list. Front ends mutate it
// through its methods and subscribe to change notifications.
package explorer

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
)

// ErrNoSuchEntry is returned when a history index is out of range
var ErrNoSuchEntry = errors.New("no such history entry")

// Fetcher draws one acceptable artwork for a ban list
type Fetcher interface {
	FetchOne(ctx context.Context, list bans.List) (*models.ArtworkRecord, error)
}

// Entry is a history entry as seen through the current ban list
type Entry struct {
	Index   int                   `json:"index"`
	Artwork *models.ArtworkRecord `json:"artwork"`
	Banned  bool                  `json:"banned"`
}

// Snapshot is a copy of an explorer's state. Version increases with every
// state change, so a consumer receiving snapshots from several goroutines
// can discard one older than what it already holds.
type Snapshot struct {
	ID        string                `json:"id"`
	Version   uint64                `json:"version"`
	CreatedAt time.Time             `json:"created_at"`
	Current   *models.ArtworkRecord `json:"current,omitempty"`
	History   []Entry               `json:"history"`
	Bans      bans.List             `json:"bans"`
	Fetching  bool                  `json:"fetching"`
}

// Explorer is the state of a single viewer session
type Explorer struct {
	id        string
	createdAt time.Time
	fetcher   Fetcher

	mu         sync.Mutex
	current    *models.ArtworkRecord
	history    history.History
	bans       bans.List
	fetching   bool
	version    uint64
	lastActive time.Time

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates an explorer starting with the preset ban terms
func New(id string, fetcher Fetcher, preset bans.List) *Explorer {
	list := bans.List{}
	for _, term := range preset {
		if !list.Contains(term) {
			list = bans.Toggle(term, list)
		}
	}

	now := time.Now()
	return &Explorer{
		id:         id,
		createdAt:  now,
		lastActive: now,
		fetcher:    fetcher,
		bans:       list,
		subs:       make(map[int]func(Snapshot)),
	}
}

// ID returns the session identifier
func (e *Explorer) ID() string {
	return e.id
}

// Touch marks the session as used now
func (e *Explorer) Touch() {
	e.mu.Lock()
	e.lastActive = time.Now()
	e.mu.Unlock()
}

// LastActive returns when the session was last used or changed
func (e *Explorer) LastActive() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastActive
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
//
// fn runs on the goroutine that made the change, outside the explorer's
// lock. Changes made concurrently may arrive out of order; compare
// Snapshot.Version. fn must not block waiting on a caller of the explorer.
func (e *Explorer) Subscribe(fn func(Snapshot)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, id)
	}
}

// changedLocked records a state change and returns the snapshot to publish.
// e.mu must be held.
func (e *Explorer) changedLocked() Snapshot {
	e.version++
	e.lastActive = time.Now()
	return e.snapshotLocked()
}

func (e *Explorer) publish(snap Snapshot) {
	e.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Discover fetches a new acceptable artwork. On success it becomes the
// current selection and is added to history. When the attempt budget is
// exhausted the current selection is cleared and sampler.ErrExhausted is
// returned. Fetch failures leave the state untouched.
func (e *Explorer) Discover(ctx context.Context) (*models.ArtworkRecord, error) {
	e.mu.Lock()
	if e.fetching {
		e.mu.Unlock()
		return nil, sampler.ErrBusy
	}
	e.fetching = true
	list := slices.Clone(e.bans)
	snap := e.changedLocked()
	e.mu.Unlock()
	e.publish(snap)

	record, err := e.fetcher.FetchOne(ctx, list)

	e.mu.Lock()
	e.fetching = false
	switch {
	case err == nil:
		e.current = record
		e.history.Add(record)
	case errors.Is(err, sampler.ErrExhausted):
		e.current = nil
	}
	snap = e.changedLocked()
	e.mu.Unlock()
	e.publish(snap)

	if err != nil {
		if !errors.Is(err, sampler.ErrExhausted) {
			slog.Error("Discover failed", "session_id", e.id, "err", err)
		}
		return nil, err
	}

	slog.Info("Artwork discovered", "session_id", e.id, "objectid", record.ObjectID, "title", record.Title)
	return record, nil
}

// ToggleBan adds or removes a ban term and returns the new list
func (e *Explorer) ToggleBan(term string) bans.List {
	e.mu.Lock()
	e.bans = bans.Toggle(term, e.bans)
	snap := e.changedLocked()
	e.mu.Unlock()

	e.publish(snap)
	return slices.Clone(snap.Bans)
}

// ClearBans removes every ban term
func (e *Explorer) ClearBans() {
	e.mu.Lock()
	e.bans = bans.Clear(e.bans)
	snap := e.changedLocked()
	e.mu.Unlock()

	e.publish(snap)
}

// SelectHistory makes history entry index the current selection unless it
// is banned by the current list.
func (e *Explorer) SelectHistory(index int) (*models.ArtworkRecord, error) {
	e.mu.Lock()
	entry, ok := e.history.At(index)
	if !ok {
		e.mu.Unlock()
		return nil, ErrNoSuchEntry
	}

	record, err := history.Select(entry, e.bans)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.current = record
	snap := e.changedLocked()
	e.mu.Unlock()

	e.publish(snap)
	return record, nil
}

// Current returns the current selection, if any
func (e *Explorer) Current() *models.ArtworkRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Bans returns a copy of the ban list
func (e *Explorer) Bans() bans.List {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.bans)
}

// Snapshot returns a copy of the whole state
func (e *Explorer) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Explorer) snapshotLocked() Snapshot {
	entries := e.history.Entries()
	hist := make([]Entry, len(entries))
	for i, r := range entries {
		hist[i] = Entry{
			Index:   i,
			Artwork: r,
			Banned:  bans.IsBanned(r, e.bans),
		}
	}

	return Snapshot{
		ID:        e.id,
		Version:   e.version,
		CreatedAt: e.createdAt,
		Current:   e.current,
		History:   hist,
		Bans:      slices.Clone(e.bans),
		Fetching:  e.fetching,
	}
}
