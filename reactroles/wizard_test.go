package reactroles

import (
	"fmt"
	"sync"
	"testing"
)

func fullSession() *WizardSession {
	return NewWizardSession("sid1", "guild1", "user1", []WizardStage{
		StageTriggerType, StageRule, StageBind,
	})
}

func TestWizardFullFlow(t *testing.T) {
	s := fullSession()
	if s.Stage() != StageTriggerType {
		t.Fatalf("session starts at %v, want %v", s.Stage(), StageTriggerType)
	}
	if err := s.ChooseTriggerType(TriggerInteraction); err != nil {
		t.Fatal(err)
	}
	if s.Stage() != StageRule {
		t.Fatalf("stage after type choice = %v, want %v", s.Stage(), StageRule)
	}
	if err := s.ChooseRule(RuleUnique); err != nil {
		t.Fatal(err)
	}
	if s.Stage() != StageBind {
		t.Fatalf("stage after rule choice = %v, want %v", s.Stage(), StageBind)
	}
	if err := s.StageBind(BindEntry{RoleID: "r1", TriggerKey: "label:Red", Label: "Red"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitStaged(); err != nil {
		t.Fatal(err)
	}
	if err := s.Done(); err != nil {
		t.Fatal(err)
	}
	if !s.Finished() || !s.Committed() {
		t.Error("done should leave the session finished and committed")
	}

	table, err := s.BuildTable("msg1", "chan1")
	if err != nil {
		t.Fatal(err)
	}
	entry, found := table.LookupRole("r1")
	if !found {
		t.Fatal("built table is missing the committed bind")
	}
	//Interaction binds dispatch on the component custom ID, not the label.
	if want := ComponentID("msg1", "r1"); entry.TriggerKey != want {
		t.Errorf("trigger key = %v, want %v", entry.TriggerKey, want)
	}
}

func TestWizardStageOrderIsEnforced(t *testing.T) {
	s := fullSession()
	if err := s.ChooseRule(RuleUnique); err != ErrWrongStage {
		t.Errorf("rule choice before type stage returned %v, want ErrWrongStage", err)
	}
	if err := s.StageBind(BindEntry{RoleID: "r1", Label: "x", TriggerKey: "label:x"}); err != ErrWrongStage {
		t.Errorf("bind before bind stage returned %v, want ErrWrongStage", err)
	}
	if err := s.Done(); err != ErrWrongStage {
		t.Errorf("done before bind stage returned %v, want ErrWrongStage", err)
	}
}

func TestWizardStageBindValidation(t *testing.T) {
	s := fullSession()
	if err := s.ChooseTriggerType(TriggerReaction); err != nil {
		t.Fatal(err)
	}
	if err := s.ChooseRule(RuleNormal); err != nil {
		t.Fatal(err)
	}
	if err := s.StageBind(BindEntry{RoleID: "r1", Label: "NoEmoji", TriggerKey: "label:NoEmoji"}); err == nil {
		t.Error("a reaction-triggered bind without an emoji should be rejected")
	}
	if err := s.StageBind(BindEntry{RoleID: "r1", Emoji: "🏷", TriggerKey: "🏷"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitStaged(); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name  string
		entry BindEntry
		want  error
	}{
		{"duplicate role", BindEntry{RoleID: "r1", Emoji: "🔖", TriggerKey: "🔖"}, ErrDuplicateRole},
		{"duplicate trigger", BindEntry{RoleID: "r2", Emoji: "🏷", TriggerKey: "🏷"}, ErrDuplicateTrigger},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := s.StageBind(c.entry); err != c.want {
				t.Errorf("StageBind returned %v, want %v", err, c.want)
			}
		})
	}
}

func TestWizardCommitWithoutStaging(t *testing.T) {
	s := NewWizardSession("sid1", "guild1", "user1", []WizardStage{StageBind})
	if _, err := s.CommitStaged(); err != ErrNothingStaged {
		t.Errorf("commit without staging returned %v, want ErrNothingStaged", err)
	}
}

func TestWizardDoneRequiresBinds(t *testing.T) {
	s := NewWizardSession("sid1", "guild1", "user1", []WizardStage{StageBind})
	if err := s.Done(); err != ErrNoBinds {
		t.Errorf("done without binds returned %v, want ErrNoBinds", err)
	}
	//A staged-but-uncommitted bind does not count.
	if err := s.StageBind(BindEntry{RoleID: "r1", Emoji: "🏷", TriggerKey: "🏷"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Done(); err != ErrNoBinds {
		t.Errorf("done with only a staged bind returned %v, want ErrNoBinds", err)
	}
}

func TestWizardStyleAppliesToStagedAndFollowing(t *testing.T) {
	s := NewWizardSession("sid1", "guild1", "user1", []WizardStage{StageBind})
	s.SetTriggerType(TriggerInteraction)
	if err := s.StageBind(BindEntry{RoleID: "r1", Label: "A", TriggerKey: "label:A"}); err != nil {
		t.Fatal(err)
	}
	s.SetStyle("green")
	if s.Staged().Style != "green" {
		t.Errorf("staged style = %v, want green", s.Staged().Style)
	}
	if _, err := s.CommitStaged(); err != nil {
		t.Fatal(err)
	}
	if err := s.StageBind(BindEntry{RoleID: "r2", Label: "B", TriggerKey: "label:B"}); err != nil {
		t.Fatal(err)
	}
	if s.Staged().Style != "green" {
		t.Errorf("later staged style = %v, want green", s.Staged().Style)
	}
}

func TestWizardCancelDiscardsEverything(t *testing.T) {
	s := NewWizardSession("sid1", "guild1", "user1", []WizardStage{StageBind})
	if err := s.StageBind(BindEntry{RoleID: "r1", Emoji: "🏷", TriggerKey: "🏷"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitStaged(); err != nil {
		t.Fatal(err)
	}
	s.Cancel()
	if s.Committed() {
		t.Error("cancelled session must not report committed")
	}
	if _, err := s.BuildTable("msg1", "chan1"); err == nil {
		t.Error("build after cancel should fail, nothing may reach persistence")
	}
	if err := s.StageBind(BindEntry{RoleID: "r2", Emoji: "🔖", TriggerKey: "🔖"}); err != ErrSessionClosed {
		t.Errorf("staging after cancel returned %v, want ErrSessionClosed", err)
	}
}

func TestComponentIDRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		customID string
		wantMsg  string
		wantRole string
		wantOK   bool
	}{
		{"valid", ComponentID("m1", "r1"), "m1", "r1", true},
		{"wrong family", WizardComponentID("sid", ActionDone), "", "", false},
		{"missing parts", "reactrole:m1", "", "", false},
		{"empty role", "reactrole:m1:", "", "", false},
		{"garbage", "hello there", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			msg, role, ok := ParseComponentID(c.customID)
			if msg != c.wantMsg || role != c.wantRole || ok != c.wantOK {
				t.Errorf("ParseComponentID(%q) = %v, %v, %v", c.customID, msg, role, ok)
			}
		})
	}
}

func TestWizardComponentIDRoundTrip(t *testing.T) {
	sid, action, ok := ParseWizardComponentID(WizardComponentID("sid1", ActionPreview))
	if !ok || sid != "sid1" || action != ActionPreview {
		t.Errorf("round trip = %v, %v, %v", sid, action, ok)
	}
	if _, _, ok := ParseWizardComponentID("rrwizard:sid1:explode"); ok {
		t.Error("unknown action should not parse")
	}
	if _, _, ok := ParseWizardComponentID(ComponentID("m1", "r1")); ok {
		t.Error("persistent button IDs should not parse as wizard IDs")
	}
}

//Panel interactions arrive on separate gateway goroutines, so a double
//click can drive StageBind and CommitStaged (or Done) at the same time.
func TestWizardConcurrentInteractions(t *testing.T) {
	s := fullSession()
	if err := s.ChooseTriggerType(TriggerReaction); err != nil {
		t.Fatalf("choosing trigger type returned error %v", err)
	}
	if err := s.ChooseRule(RuleNormal); err != nil {
		t.Fatalf("choosing rule returned error %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.StageBind(BindEntry{
				RoleID:     fmt.Sprintf("role%v", i),
				TriggerKey: fmt.Sprintf("emoji%v", i),
				Emoji:      fmt.Sprintf("emoji%v", i),
			})
		}()
		go func() {
			defer wg.Done()
			s.CommitStaged()
		}()
		go func() {
			defer wg.Done()
			s.SetStyle("green")
			s.Staged()
			s.Binds()
		}()
	}
	wg.Wait()

	//Whatever interleaving happened, the committed binds must be unique.
	seen := map[string]bool{}
	for _, bind := range s.Binds() {
		if seen[bind.RoleID] {
			t.Errorf("role %v was committed more than once", bind.RoleID)
		}
		seen[bind.RoleID] = true
	}
}

func TestWizardTimeoutRacingDone(t *testing.T) {
	s := fullSession()
	if err := s.ChooseTriggerType(TriggerReaction); err != nil {
		t.Fatalf("choosing trigger type returned error %v", err)
	}
	if err := s.ChooseRule(RuleNormal); err != nil {
		t.Fatalf("choosing rule returned error %v", err)
	}
	if err := s.StageBind(BindEntry{RoleID: "role1", TriggerKey: "emoji1", Emoji: "emoji1"}); err != nil {
		t.Fatalf("staging returned error %v", err)
	}
	if _, err := s.CommitStaged(); err != nil {
		t.Fatalf("committing returned error %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Cancel()
	}()
	go func() {
		defer wg.Done()
		s.Done()
	}()
	wg.Wait()

	if !s.Finished() {
		t.Error("session should be finished")
	}
	//Either outcome is valid, but a committed session must still build.
	if s.Committed() {
		if _, err := s.BuildTable("msg1", "chan1"); err != nil {
			t.Errorf("building a committed session returned error %v", err)
		}
	}
}
