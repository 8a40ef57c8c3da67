package reactroles

import (
	"errors"
	"sync"
	"time"

	"github.com/corvidae-dev/rin/guildmodels"
	"github.com/sirupsen/logrus"
)

//unresolvedTTL is how long a bind table payload that cannot be attached to a
//live channel is kept around before being dropped at snapshot time.
const unresolvedTTL = 30 * 24 * time.Hour

//ChannelResolver reports whether a channel can currently be resolved. At
//runtime this is backed by the discord session; tests provide their own.
type ChannelResolver func(channelID string) bool

//Registry holds every bind table in one guild, keyed by message ID. Entries
//whose channel could not be resolved at load time are parked in an
//unresolved side table and promotion is retried lazily on lookup.
//
//discordgo runs event handlers on separate goroutines, so all access goes
//through the registry's lock.
type Registry struct {
	mu         sync.RWMutex
	enabled    bool
	tables     map[string]*BindTable
	unresolved map[string]guildmodels.BindTablePayload
	resolve    ChannelResolver
	now        func() time.Time
}

//NewRegistry builds a registry from a persisted config document, parking any
//payload that fails to decode or whose channel cannot be resolved.
func NewRegistry(cfg guildmodels.ReactRoleConfig, resolve ChannelResolver) *Registry {
	r := &Registry{
		enabled:    cfg.Enabled,
		tables:     map[string]*BindTable{},
		unresolved: map[string]guildmodels.BindTablePayload{},
		resolve:    resolve,
		now:        time.Now,
	}
	for messageID, payload := range cfg.MessageCache {
		if !r.tryAttach(messageID, payload) {
			r.park(messageID, payload)
		}
	}
	return r
}

//tryAttach attempts to turn a payload into a live table. Caller must hold no
//locks that conflict with writes; used from the constructor and promote.
func (r *Registry) tryAttach(messageID string, payload guildmodels.BindTablePayload) bool {
	if r.resolve != nil && !r.resolve(payload.ChannelID) {
		return false
	}
	table, err := TableFromPayload(payload)
	if err != nil {
		logrus.Warnf("Failed to rebuild bind table for message %v: %v", messageID, err)
		return false
	}
	r.tables[messageID] = table
	return true
}

func (r *Registry) park(messageID string, payload guildmodels.BindTablePayload) {
	if payload.StoredAt.IsZero() {
		payload.StoredAt = r.now()
	}
	r.unresolved[messageID] = payload
}

//Enabled reports whether reaction role dispatch is active for this guild.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

//SetEnabled flips the feature flag. Returns false if the flag already had
//the requested value.
func (r *Registry) SetEnabled(enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled == enabled {
		return false
	}
	r.enabled = enabled
	return true
}

//ErrNoTable is returned by Update when no table is attached to the message.
var ErrNoTable = errors.New("no bind table is attached to that message")

//Find returns a snapshot of the bind table attached to a message, retrying
//unresolved promotion first if any entries are parked. Returns nil if no
//table matches. The snapshot is safe to read without holding the registry
//lock; mutations go through Update.
func (r *Registry) Find(messageID string) *BindTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.unresolved) > 0 {
		r.promoteLocked()
	}
	table, ok := r.tables[messageID]
	if !ok {
		return nil
	}
	return table.Clone()
}

//Update runs fn against the live table attached to a message while holding
//the registry lock, then prunes the table if fn left it empty. Returns
//ErrNoTable if no table matches, otherwise fn's error.
func (r *Registry) Update(messageID string, fn func(*BindTable) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[messageID]
	if !ok {
		return ErrNoTable
	}
	err := fn(table)
	if table.Len() == 0 {
		delete(r.tables, messageID)
	}
	return err
}

//Put registers a table under its message ID, replacing any previous table on
//the same message.
func (r *Registry) Put(table *BindTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table.MessageID] = table
}

//Remove drops the table attached to a message. Returns the removed table, or
//nil if none matched. Unresolved payloads for the message are dropped too,
//so a deleted message cannot resurrect stale data.
func (r *Registry) Remove(messageID string) *BindTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	table := r.tables[messageID]
	delete(r.tables, messageID)
	delete(r.unresolved, messageID)
	return table
}

//Prune removes the table if it has no binds left. Returns true if pruned.
func (r *Registry) Prune(messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[messageID]
	if !ok || table.Len() > 0 {
		return false
	}
	delete(r.tables, messageID)
	return true
}

//Clear drops every table and unresolved payload, returning the tables that
//were live so their messages can be cleaned up.
func (r *Registry) Clear() []*BindTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*BindTable, 0, len(r.tables))
	for _, table := range r.tables {
		out = append(out, table)
	}
	r.tables = map[string]*BindTable{}
	r.unresolved = map[string]guildmodels.BindTablePayload{}
	return out
}

//Tables returns a snapshot of every live table.
func (r *Registry) Tables() []*BindTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*BindTable, 0, len(r.tables))
	for _, table := range r.tables {
		out = append(out, table.Clone())
	}
	return out
}

//Unresolved returns a copy of the parked payloads keyed by message ID.
func (r *Registry) Unresolved() map[string]guildmodels.BindTablePayload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]guildmodels.BindTablePayload, len(r.unresolved))
	for k, v := range r.unresolved {
		out[k] = v
	}
	return out
}

//Promote retries attachment of every unresolved payload and returns how many
//were fixed.
func (r *Registry) Promote() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.promoteLocked()
}

func (r *Registry) promoteLocked() int {
	fixed := 0
	for messageID, payload := range r.unresolved {
		if r.tryAttach(messageID, payload) {
			delete(r.unresolved, messageID)
			fixed++
		}
	}
	return fixed
}

//Snapshot serializes the registry back into its persisted document shape.
//Unresolved payloads are carried along rather than silently dropped, unless
//they have been parked for longer than the retention window. Expired
//payloads are evicted from the registry as well, so each one is reported
//once rather than on every save.
func (r *Registry) Snapshot() guildmodels.ReactRoleConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	cache := make(map[string]guildmodels.BindTablePayload, len(r.tables)+len(r.unresolved))
	for messageID, table := range r.tables {
		cache[messageID] = table.ToPayload()
	}
	cutoff := r.now().Add(-unresolvedTTL)
	for messageID, payload := range r.unresolved {
		if payload.StoredAt.Before(cutoff) {
			logrus.Warnf("Dropping unresolved reaction role data for message %v, unresolved since %v", messageID, payload.StoredAt)
			delete(r.unresolved, messageID)
			continue
		}
		cache[messageID] = payload
	}
	return guildmodels.ReactRoleConfig{
		Enabled:      r.enabled,
		MessageCache: cache,
	}
}
