package reactroles

import (
	"errors"
	"fmt"

	"github.com/corvidae-dev/rin/guildmodels"
)

//Errors returned by bind table mutations. These are user input errors and are
//always reported back to the caller rather than logged.
var (
	ErrDuplicateRole    = errors.New("role is already bound on this message")
	ErrDuplicateTrigger = errors.New("trigger is already bound on this message")
	ErrNoAffordance     = errors.New("emoji and label cannot both be empty")
)

//BindEntry associates a single trigger with a role, along with the
//presentation data for the button variant.
type BindEntry struct {
	RoleID     string
	TriggerKey string
	Emoji      string
	Label      string
	Style      string
}

//Validate checks that the entry has a visible affordance and a target role.
func (e BindEntry) Validate() error {
	if e.RoleID == "" {
		return errors.New("bind entry has no role")
	}
	if e.Emoji == "" && e.Label == "" {
		return ErrNoAffordance
	}
	return nil
}

//BindTable holds every bind attached to one message, along with the rule
//governing how the bound roles may be combined.
type BindTable struct {
	MessageID   string
	ChannelID   string
	TriggerType TriggerType
	Rule        Rule
	entries     []BindEntry
}

//NewBindTable creates an empty bind table for a message.
func NewBindTable(messageID, channelID string, triggerType TriggerType, rule Rule) *BindTable {
	return &BindTable{
		MessageID:   messageID,
		ChannelID:   channelID,
		TriggerType: triggerType,
		Rule:        rule,
	}
}

//Add inserts a new bind. It fails with ErrDuplicateRole or ErrDuplicateTrigger
//if the role or trigger is already bound on this message.
func (t *BindTable) Add(entry BindEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	for _, existing := range t.entries {
		if existing.RoleID == entry.RoleID {
			return ErrDuplicateRole
		}
		if existing.TriggerKey == entry.TriggerKey {
			return ErrDuplicateTrigger
		}
	}
	t.entries = append(t.entries, entry)
	return nil
}

//RemoveRole deletes the bind pointing at the given role. Removing a role that
//is not bound is a no-op. Returns true if an entry was removed.
func (t *BindTable) RemoveRole(roleID string) bool {
	for i, entry := range t.entries {
		if entry.RoleID == roleID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

//RemoveRoles deletes every bind pointing at any of the given roles and
//returns the number of entries removed.
func (t *BindTable) RemoveRoles(roleIDs []string) int {
	removed := 0
	for _, rid := range roleIDs {
		if t.RemoveRole(rid) {
			removed++
		}
	}
	return removed
}

//Len returns the number of binds in the table. A table with zero binds is
//considered deleted and must be pruned by the owning registry.
func (t *BindTable) Len() int {
	return len(t.entries)
}

//Entries returns a copy of the table's binds in insertion order.
func (t *BindTable) Entries() []BindEntry {
	out := make([]BindEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

//LookupTrigger resolves a trigger key to its bind entry.
func (t *BindTable) LookupTrigger(key string) (BindEntry, bool) {
	for _, entry := range t.entries {
		if entry.TriggerKey == key {
			return entry, true
		}
	}
	return BindEntry{}, false
}

//LookupRole resolves a role ID to its bind entry.
func (t *BindTable) LookupRole(roleID string) (BindEntry, bool) {
	for _, entry := range t.entries {
		if entry.RoleID == roleID {
			return entry, true
		}
	}
	return BindEntry{}, false
}

//BoundRoles returns the IDs of every role bound on this message.
func (t *BindTable) BoundRoles() []string {
	out := make([]string, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, entry.RoleID)
	}
	return out
}

//ToggleRoles computes the member's role list after toggling the given bound
//role, reading the current membership from the live role list passed in. If
//the member already holds the role it is removed; otherwise it is granted
//and, under RuleUnique, every other role bound in this table is removed at
//the same time. The returned slice is intended for a single batched member
//edit rather than one API call per role.
func (t *BindTable) ToggleRoles(held []string, roleID string) (next []string, granted bool) {
	for _, rid := range held {
		if rid == roleID {
			//Member already holds the role, so this toggle removes it.
			next = make([]string, 0, len(held)-1)
			for _, r := range held {
				if r != roleID {
					next = append(next, r)
				}
			}
			return next, false
		}
	}
	return t.GrantRoles(held, roleID), true
}

//GrantRoles computes the member's role list after granting the given bound
//role, applying the RuleUnique exclusivity side effect. Granting a role the
//member already holds is idempotent.
func (t *BindTable) GrantRoles(held []string, roleID string) []string {
	exclusive := map[string]bool{}
	if t.Rule == RuleUnique {
		for _, entry := range t.entries {
			if entry.RoleID != roleID {
				exclusive[entry.RoleID] = true
			}
		}
	}
	next := make([]string, 0, len(held)+1)
	alreadyHeld := false
	for _, r := range held {
		if r == roleID {
			alreadyHeld = true
		}
		if !exclusive[r] {
			next = append(next, r)
		}
	}
	if !alreadyHeld {
		next = append(next, roleID)
	}
	return next
}

//Clone returns an independent copy of the table.
func (t *BindTable) Clone() *BindTable {
	clone := *t
	clone.entries = make([]BindEntry, len(t.entries))
	copy(clone.entries, t.entries)
	return &clone
}

//ToPayload serializes the table into its persisted document shape.
func (t *BindTable) ToPayload() guildmodels.BindTablePayload {
	binds := make(map[string]guildmodels.BindPayload, len(t.entries))
	for _, entry := range t.entries {
		binds[entry.RoleID] = guildmodels.BindPayload{
			TriggerKey: entry.TriggerKey,
			Emoji:      entry.Emoji,
			Label:      entry.Label,
			Style:      entry.Style,
		}
	}
	return guildmodels.BindTablePayload{
		MessageID:   t.MessageID,
		ChannelID:   t.ChannelID,
		TriggerType: string(t.TriggerType),
		Rules:       string(t.Rule),
		Binds:       binds,
	}
}

//TableFromPayload reconstructs a bind table from its persisted form.
func TableFromPayload(payload guildmodels.BindTablePayload) (*BindTable, error) {
	triggerType, err := ParseTriggerType(payload.TriggerType)
	if err != nil {
		return nil, fmt.Errorf("bind table for message %v: %v", payload.MessageID, err)
	}
	rule, err := ParseRule(payload.Rules)
	if err != nil {
		return nil, fmt.Errorf("bind table for message %v: %v", payload.MessageID, err)
	}
	table := NewBindTable(payload.MessageID, payload.ChannelID, triggerType, rule)
	for roleID, bind := range payload.Binds {
		err := table.Add(BindEntry{
			RoleID:     roleID,
			TriggerKey: bind.TriggerKey,
			Emoji:      bind.Emoji,
			Label:      bind.Label,
			Style:      bind.Style,
		})
		if err != nil {
			return nil, fmt.Errorf("bind table for message %v: role %v: %v", payload.MessageID, roleID, err)
		}
	}
	return table, nil
}
