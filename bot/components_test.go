package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/reactroles"
)

func interactionTable(t *testing.T, roleIDs ...string) *reactroles.BindTable {
	t.Helper()
	table := reactroles.NewBindTable("msg1", "chan1", reactroles.TriggerInteraction, reactroles.RuleNormal)
	for _, roleID := range roleIDs {
		err := table.Add(reactroles.BindEntry{
			RoleID:     roleID,
			TriggerKey: reactroles.ComponentID("msg1", roleID),
			Label:      "role " + roleID,
		})
		if err != nil {
			t.Fatalf("adding bind for %v returned error %v", roleID, err)
		}
	}
	return table
}

func TestBindTableComponentsRowLayout(t *testing.T) {
	table := interactionTable(t, "r1", "r2", "r3", "r4", "r5", "r6")
	rows := bindTableComponents(table)
	if len(rows) != 2 {
		t.Fatalf("got %v rows, want 2", len(rows))
	}
	first, ok := rows[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("row has type %T, want ActionsRow", rows[0])
	}
	if len(first.Components) != 5 {
		t.Errorf("first row holds %v buttons, want 5", len(first.Components))
	}
	button, ok := first.Components[0].(discordgo.Button)
	if !ok {
		t.Fatalf("component has type %T, want Button", first.Components[0])
	}
	if button.CustomID != reactroles.ComponentID("msg1", "r1") {
		t.Errorf("button custom ID = %q", button.CustomID)
	}
}

func TestMenuComponentsAfterPrune(t *testing.T) {
	cases := []struct {
		name     string
		prior    *reactroles.BindTable
		current  *reactroles.BindTable
		wantEdit bool
		wantLen  int
	}{
		{"no snapshot", nil, nil, false, 0},
		{
			//Removing the last bind prunes the whole table; the message must
			//still lose its now dead buttons.
			name:     "last bind removed",
			prior:    interactionTable(t, "r1"),
			current:  nil,
			wantEdit: true,
			wantLen:  0,
		},
		{
			name:     "bind removed",
			prior:    interactionTable(t, "r1", "r2"),
			current:  interactionTable(t, "r1"),
			wantEdit: true,
			wantLen:  1,
		},
		{
			name:     "reaction table has no components",
			prior:    reactroles.NewBindTable("msg1", "chan1", reactroles.TriggerReaction, reactroles.RuleNormal),
			current:  nil,
			wantEdit: false,
			wantLen:  0,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			components, edit := menuComponentsAfterPrune(c.prior, c.current)
			if edit != c.wantEdit {
				t.Fatalf("edit = %v, want %v", edit, c.wantEdit)
			}
			if !edit {
				return
			}
			if components == nil {
				t.Fatal("components must not be nil when an edit is needed")
			}
			if len(components) != c.wantLen {
				t.Errorf("got %v rows, want %v", len(components), c.wantLen)
			}
		})
	}
}

func TestButtonStyle(t *testing.T) {
	if buttonStyle("green") != discordgo.SuccessButton {
		t.Error("green should map to the success style")
	}
	if buttonStyle("") != discordgo.PrimaryButton {
		t.Error("unset style should map to the primary style")
	}
}
