package reactroles

import (
	"testing"
	"time"

	"github.com/corvidae-dev/rin/guildmodels"
)

func allowAll(string) bool  { return true }
func allowNone(string) bool { return false }

func storedConfig(messageIDs ...string) guildmodels.ReactRoleConfig {
	cache := map[string]guildmodels.BindTablePayload{}
	for _, mid := range messageIDs {
		cache[mid] = guildmodels.BindTablePayload{
			MessageID:   mid,
			ChannelID:   "chan-" + mid,
			TriggerType: string(TriggerReaction),
			Rules:       string(RuleNormal),
			Binds: map[string]guildmodels.BindPayload{
				"role-" + mid: {TriggerKey: "🏷", Emoji: "🏷"},
			},
		}
	}
	return guildmodels.ReactRoleConfig{Enabled: true, MessageCache: cache}
}

func TestRegistryAttachesResolvableTables(t *testing.T) {
	reg := NewRegistry(storedConfig("m1", "m2"), allowAll)
	if got := len(reg.Tables()); got != 2 {
		t.Errorf("attached %v tables, want 2", got)
	}
	if got := len(reg.Unresolved()); got != 0 {
		t.Errorf("%v unresolved payloads, want 0", got)
	}
}

func TestRegistryParksUnresolvableTables(t *testing.T) {
	reg := NewRegistry(storedConfig("m1"), allowNone)
	if reg.Find("m1") != nil {
		t.Error("parked table should not be findable")
	}
	unresolved := reg.Unresolved()
	if len(unresolved) != 1 {
		t.Fatalf("%v unresolved payloads, want 1", len(unresolved))
	}
	if unresolved["m1"].StoredAt.IsZero() {
		t.Error("parking should stamp StoredAt")
	}
}

func TestRegistryPromotesLazilyOnFind(t *testing.T) {
	visible := false
	reg := NewRegistry(storedConfig("m1"), func(string) bool { return visible })
	if reg.Find("m1") != nil {
		t.Fatal("table should start parked")
	}
	//The channel becomes visible again, eg the bot was re-invited.
	visible = true
	if reg.Find("m1") == nil {
		t.Fatal("find should retry promotion once the channel resolves")
	}
	if len(reg.Unresolved()) != 0 {
		t.Error("promoted payload should leave the unresolved side table")
	}
}

func TestRegistryPromoteReportsFixedCount(t *testing.T) {
	visible := false
	reg := NewRegistry(storedConfig("m1", "m2"), func(string) bool { return visible })
	if fixed := reg.Promote(); fixed != 0 {
		t.Errorf("promote fixed %v while still unresolvable, want 0", fixed)
	}
	visible = true
	if fixed := reg.Promote(); fixed != 2 {
		t.Errorf("promote fixed %v, want 2", fixed)
	}
}

func TestFindReturnsSnapshot(t *testing.T) {
	reg := NewRegistry(storedConfig("m1"), allowAll)
	snapshot := reg.Find("m1")
	snapshot.RemoveRole("role-m1")
	if live := reg.Find("m1"); live == nil || live.Len() != 1 {
		t.Error("mutating a find result must not affect the registry")
	}
}

func TestUpdatePrunesEmptyTables(t *testing.T) {
	reg := NewRegistry(storedConfig("m1"), allowAll)
	err := reg.Update("m1", func(table *BindTable) error {
		table.RemoveRole("role-m1")
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if reg.Find("m1") != nil {
		t.Error("a table left empty by an update should be pruned")
	}
	if err := reg.Update("m1", func(*BindTable) error { return nil }); err != ErrNoTable {
		t.Errorf("update on pruned table returned %v, want ErrNoTable", err)
	}
}

func TestRemoveDropsUnresolvedToo(t *testing.T) {
	reg := NewRegistry(storedConfig("m1"), allowNone)
	reg.Remove("m1")
	if len(reg.Unresolved()) != 0 {
		t.Error("removing a message should drop its unresolved payload")
	}
}

func TestSetEnabledReportsChange(t *testing.T) {
	reg := NewRegistry(storedConfig(), allowAll)
	if reg.SetEnabled(true) {
		t.Error("enabling an already enabled registry should report no change")
	}
	if !reg.SetEnabled(false) {
		t.Error("disabling should report a change")
	}
	if reg.Enabled() {
		t.Error("registry should now be disabled")
	}
}

func TestSnapshotRoundTripsLiveAndUnresolved(t *testing.T) {
	cfg := storedConfig("live", "parked")
	reg := NewRegistry(cfg, func(channelID string) bool {
		return channelID == "chan-live"
	})
	snapshot := reg.Snapshot()
	if !snapshot.Enabled {
		t.Error("snapshot should carry the enabled flag")
	}
	if _, found := snapshot.MessageCache["live"]; !found {
		t.Error("snapshot should contain the live table")
	}
	parked, found := snapshot.MessageCache["parked"]
	if !found {
		t.Fatal("snapshot should carry unresolved payloads rather than dropping them")
	}
	if parked.StoredAt.IsZero() {
		t.Error("carried unresolved payload should keep its StoredAt stamp")
	}
	//A reload from the snapshot with full visibility recovers everything.
	reloaded := NewRegistry(snapshot, allowAll)
	if got := len(reloaded.Tables()); got != 2 {
		t.Errorf("reloaded %v tables, want 2", got)
	}
}

func TestSnapshotDropsExpiredUnresolved(t *testing.T) {
	cfg := storedConfig("stale", "fresh")
	stale := cfg.MessageCache["stale"]
	stale.StoredAt = time.Now().Add(-unresolvedTTL - time.Hour)
	cfg.MessageCache["stale"] = stale
	reg := NewRegistry(cfg, allowNone)
	snapshot := reg.Snapshot()
	if _, found := snapshot.MessageCache["stale"]; found {
		t.Error("payload unresolved for longer than the retention window should be dropped")
	}
	if _, found := snapshot.MessageCache["fresh"]; !found {
		t.Error("recently parked payload should survive the snapshot")
	}
}

func TestSnapshotEvictsExpiredUnresolved(t *testing.T) {
	cfg := storedConfig("stale", "fresh")
	stale := cfg.MessageCache["stale"]
	stale.StoredAt = time.Now().Add(-unresolvedTTL - time.Hour)
	cfg.MessageCache["stale"] = stale
	reg := NewRegistry(cfg, allowNone)
	reg.Snapshot()
	//The expired payload is gone from the registry too, so later saves do
	//not rediscover and re-report it.
	if _, found := reg.Unresolved()["stale"]; found {
		t.Error("expired payload should be evicted from the registry")
	}
	if _, found := reg.Unresolved()["fresh"]; !found {
		t.Error("fresh payload should still be parked")
	}
	if _, found := reg.Snapshot().MessageCache["fresh"]; !found {
		t.Error("fresh payload should survive repeated snapshots")
	}
}

func TestClearReturnsLiveTables(t *testing.T) {
	reg := NewRegistry(storedConfig("m1", "m2"), allowAll)
	cleared := reg.Clear()
	if len(cleared) != 2 {
		t.Errorf("cleared %v tables, want 2", len(cleared))
	}
	if len(reg.Tables()) != 0 || len(reg.Unresolved()) != 0 {
		t.Error("clear should empty the registry")
	}
}
