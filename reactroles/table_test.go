package reactroles

import (
	"reflect"
	"sort"
	"testing"
)

func testTable(t *testing.T, rule Rule, entries ...BindEntry) *BindTable {
	t.Helper()
	table := NewBindTable("msg1", "chan1", TriggerReaction, rule)
	for _, entry := range entries {
		if err := table.Add(entry); err != nil {
			t.Fatalf("failed to add entry %+v: %v", entry, err)
		}
	}
	return table
}

func TestBindTableAddRejectsDuplicates(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "🏷", Emoji: "🏷"},
	)
	cases := []struct {
		name  string
		entry BindEntry
		want  error
	}{
		{"duplicate role", BindEntry{RoleID: "r1", TriggerKey: "🔖", Emoji: "🔖"}, ErrDuplicateRole},
		{"duplicate trigger", BindEntry{RoleID: "r2", TriggerKey: "🏷", Emoji: "🏷"}, ErrDuplicateTrigger},
		{"no affordance", BindEntry{RoleID: "r2", TriggerKey: "x"}, ErrNoAffordance},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := table.Add(c.entry); err != c.want {
				t.Errorf("Add returned %v, want %v", err, c.want)
			}
		})
	}
	if table.Len() != 1 {
		t.Errorf("failed adds should not grow the table, got %v entries", table.Len())
	}
}

func TestToggleRolesGrantsWhenNotHeld(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "🏷", Emoji: "🏷"},
	)
	next, granted := table.ToggleRoles([]string{"other"}, "r1")
	if !granted {
		t.Fatal("expected a grant when the member does not hold the role")
	}
	want := []string{"other", "r1"}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("next roles = %v, want %v", next, want)
	}
}

func TestToggleRolesRemovesWhenHeld(t *testing.T) {
	table := testTable(t, RuleUnique,
		BindEntry{RoleID: "r1", TriggerKey: "🏷", Emoji: "🏷"},
		BindEntry{RoleID: "r2", TriggerKey: "🔖", Emoji: "🔖"},
	)
	//A held role toggles off without touching other bound roles, even
	//under the unique rule.
	next, granted := table.ToggleRoles([]string{"r1", "r2", "other"}, "r1")
	if granted {
		t.Fatal("expected a removal when the member already holds the role")
	}
	want := []string{"r2", "other"}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("next roles = %v, want %v", next, want)
	}
}

func TestUniqueRuleRemovesOtherBoundRoles(t *testing.T) {
	table := NewBindTable("msg1", "chan1", TriggerInteraction, RuleUnique)
	for _, entry := range []BindEntry{
		{RoleID: "red", TriggerKey: "k1", Label: "Red"},
		{RoleID: "blue", TriggerKey: "k2", Label: "Blue"},
		{RoleID: "green", TriggerKey: "k3", Label: "Green"},
	} {
		if err := table.Add(entry); err != nil {
			t.Fatal(err)
		}
	}
	held := []string{"red", "green", "unrelated"}
	next, granted := table.ToggleRoles(held, "blue")
	if !granted {
		t.Fatal("expected a grant")
	}
	//Every other role bound in the table goes, unrelated roles stay.
	want := []string{"unrelated", "blue"}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("next roles = %v, want %v", next, want)
	}
}

func TestGrantRolesIsIdempotent(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "🏷", Emoji: "🏷"},
	)
	held := []string{"r1", "other"}
	next := table.GrantRoles(held, "r1")
	if !reflect.DeepEqual(next, held) {
		t.Errorf("granting a held role should change nothing, got %v", next)
	}
}

func TestRemoveRoles(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "a", Emoji: "a"},
		BindEntry{RoleID: "r2", TriggerKey: "b", Emoji: "b"},
		BindEntry{RoleID: "r3", TriggerKey: "c", Emoji: "c"},
	)
	removed := table.RemoveRoles([]string{"r1", "r3", "missing"})
	if removed != 2 {
		t.Errorf("removed = %v, want 2", removed)
	}
	if table.Len() != 1 {
		t.Errorf("table has %v entries after removal, want 1", table.Len())
	}
	if _, found := table.LookupRole("r2"); !found {
		t.Error("surviving bind should still resolve")
	}
}

func TestLookupTrigger(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "blob:12345", Emoji: "blob:12345"},
	)
	entry, found := table.LookupTrigger("blob:12345")
	if !found || entry.RoleID != "r1" {
		t.Errorf("LookupTrigger = %+v, %v", entry, found)
	}
	if _, found := table.LookupTrigger("other:999"); found {
		t.Error("unbound trigger should not resolve")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	original := NewBindTable("msg1", "chan1", TriggerInteraction, RuleUnique)
	for _, entry := range []BindEntry{
		{RoleID: "r1", TriggerKey: "reactrole:msg1:r1", Emoji: "🏷", Label: "Tag", Style: "green"},
		{RoleID: "r2", TriggerKey: "reactrole:msg1:r2", Label: "Other", Style: "red"},
	} {
		if err := original.Add(entry); err != nil {
			t.Fatal(err)
		}
	}
	rebuilt, err := TableFromPayload(original.ToPayload())
	if err != nil {
		t.Fatalf("failed to rebuild table: %v", err)
	}
	if rebuilt.MessageID != original.MessageID || rebuilt.ChannelID != original.ChannelID ||
		rebuilt.TriggerType != original.TriggerType || rebuilt.Rule != original.Rule {
		t.Errorf("rebuilt header = %+v", rebuilt)
	}
	//Binds are persisted as a map, so compare without relying on order.
	got := rebuilt.Entries()
	want := original.Entries()
	sort.Slice(got, func(i, j int) bool { return got[i].RoleID < got[j].RoleID })
	sort.Slice(want, func(i, j int) bool { return want[i].RoleID < want[j].RoleID })
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rebuilt entries = %+v, want %+v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	table := testTable(t, RuleNormal,
		BindEntry{RoleID: "r1", TriggerKey: "a", Emoji: "a"},
	)
	clone := table.Clone()
	clone.RemoveRole("r1")
	if table.Len() != 1 {
		t.Error("mutating a clone must not affect the original")
	}
}
