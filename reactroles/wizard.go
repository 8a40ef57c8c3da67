package reactroles

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

//WizardTimeout is how long a creation panel stays interactive without input
//before it behaves as a cancel.
const WizardTimeout = 600 * time.Second

//WizardAction identifies a panel control. Components carry these stable
//identifiers in their custom IDs; display labels are presentation only and
//are never parsed.
type WizardAction string

const (
	ActionSet     WizardAction = "set"
	ActionAdd     WizardAction = "add"
	ActionClear   WizardAction = "clear"
	ActionDone    WizardAction = "done"
	ActionPreview WizardAction = "preview"
	ActionCancel  WizardAction = "cancel"
	ActionMenu    WizardAction = "menu"
	ActionModal   WizardAction = "modal"
)

//ParseWizardAction converts a custom ID fragment back into a WizardAction.
func ParseWizardAction(s string) (WizardAction, bool) {
	switch WizardAction(s) {
	case ActionSet, ActionAdd, ActionClear, ActionDone, ActionPreview, ActionCancel, ActionMenu, ActionModal:
		return WizardAction(s), true
	default:
		return "", false
	}
}

//WizardStage names one input session in the creation flow.
type WizardStage string

const (
	StageTriggerType WizardStage = "type"
	StageRule        WizardStage = "rule"
	StageBind        WizardStage = "bind"
	StageDone        WizardStage = "done"
)

//Wizard session errors, reported inline to the operator. The session stays
//on its current stage after any of these.
var (
	ErrWrongStage    = errors.New("that action is not available at this step")
	ErrNothingStaged = errors.New("no bind values have been set yet")
	ErrNoBinds       = errors.New("at least one bind must be added first")
	ErrSessionClosed = errors.New("this session has already finished")
)

//WizardSession is the ephemeral state of one creation panel: an ordered,
//forward-only list of input stages, the accumulated binds, and a scratch
//bind being edited. It performs no I/O; the bot layer renders it onto a
//panel message and feeds interactions back in.
//
//Panel interactions and the timeout timer each arrive on their own
//goroutine, so every method takes the session lock.
type WizardSession struct {
	ID      string
	GuildID string
	UserID  string

	mu     sync.Mutex
	stages []WizardStage
	index  int

	triggerType TriggerType
	rule        Rule
	style       string
	binds       []BindEntry
	staged      *BindEntry

	finished  bool
	committed bool
	StartedAt time.Time
}

//NewWizardSession creates a session walking the given stages in order. The
//full creation flow uses [type, rule, bind, done]; binding onto an existing
//table uses [bind, done] with the table's settings pre-filled.
func NewWizardSession(id, guildID, userID string, stages []WizardStage) *WizardSession {
	return &WizardSession{
		ID:          id,
		GuildID:     guildID,
		UserID:      userID,
		stages:      stages,
		triggerType: TriggerReaction,
		rule:        RuleNormal,
		style:       "blurple",
		StartedAt:   time.Now(),
	}
}

//stage is Stage without the lock, for use from methods that already hold it.
func (s *WizardSession) stage() WizardStage {
	if s.index >= len(s.stages) {
		return StageDone
	}
	return s.stages[s.index]
}

//Stage returns the session's current input stage.
func (s *WizardSession) Stage() WizardStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage()
}

func (s *WizardSession) advance() {
	s.index++
}

//TriggerType returns the selected trigger type.
func (s *WizardSession) TriggerType() TriggerType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggerType
}

//Rule returns the selected rule.
func (s *WizardSession) Rule() Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rule
}

//SetRule pre-fills the rule for sessions that skip the rule stage.
func (s *WizardSession) SetRule(r Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rule = r
}

//SetTriggerType pre-fills the trigger type for sessions that skip the type stage.
func (s *WizardSession) SetTriggerType(t TriggerType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggerType = t
}

//SetStyle records the button colour chosen from the panel dropdown. It
//applies to the staged bind if one exists and to binds staged afterwards.
func (s *WizardSession) SetStyle(style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style
	if s.staged != nil {
		s.staged.Style = style
	}
}

//SeedBinds pre-fills the accumulated binds when editing an existing table.
func (s *WizardSession) SeedBinds(binds []BindEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binds = append([]BindEntry(nil), binds...)
}

//ChooseTriggerType records the trigger type selection and advances the flow.
func (s *WizardSession) ChooseTriggerType(t TriggerType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionClosed
	}
	if s.stage() != StageTriggerType {
		return ErrWrongStage
	}
	s.triggerType = t
	s.advance()
	return nil
}

//ChooseRule records the rule selection and advances the flow.
func (s *WizardSession) ChooseRule(r Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionClosed
	}
	if s.stage() != StageRule {
		return ErrWrongStage
	}
	s.rule = r
	s.advance()
	return nil
}

//StageBind validates a bind and stores it as the scratch entry. Duplicates
//are checked against the session's accumulated list, not the persisted
//table, so the error surfaces before the commit step.
func (s *WizardSession) StageBind(entry BindEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionClosed
	}
	if s.stage() != StageBind {
		return ErrWrongStage
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if s.triggerType == TriggerReaction && entry.Emoji == "" {
		return fmt.Errorf("a reaction trigger needs an emoji")
	}
	if entry.Style == "" {
		entry.Style = s.style
	}
	for _, existing := range s.binds {
		if existing.RoleID == entry.RoleID {
			return ErrDuplicateRole
		}
		if existing.TriggerKey == entry.TriggerKey {
			return ErrDuplicateTrigger
		}
	}
	s.staged = &entry
	return nil
}

//Staged returns a copy of the scratch bind being edited, or nil.
func (s *WizardSession) Staged() *BindEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return nil
	}
	staged := *s.staged
	return &staged
}

//CommitStaged moves the scratch bind into the accumulated list.
func (s *WizardSession) CommitStaged() (BindEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return BindEntry{}, ErrSessionClosed
	}
	if s.stage() != StageBind {
		return BindEntry{}, ErrWrongStage
	}
	if s.staged == nil {
		return BindEntry{}, ErrNothingStaged
	}
	entry := *s.staged
	//Re-check duplicates: the accumulated list may have changed since the
	//scratch bind was staged.
	for _, existing := range s.binds {
		if existing.RoleID == entry.RoleID {
			return BindEntry{}, ErrDuplicateRole
		}
		if existing.TriggerKey == entry.TriggerKey {
			return BindEntry{}, ErrDuplicateTrigger
		}
	}
	s.binds = append(s.binds, entry)
	s.staged = nil
	return entry, nil
}

//ClearBinds wipes the accumulated list and the scratch bind.
func (s *WizardSession) ClearBinds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binds = nil
	s.staged = nil
}

//Binds returns a copy of the accumulated binds.
func (s *WizardSession) Binds() []BindEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BindEntry, len(s.binds))
	copy(out, s.binds)
	return out
}

//Done finishes the session successfully. The scratch bind is discarded;
//only committed binds make it into the result.
func (s *WizardSession) Done() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionClosed
	}
	if s.stage() != StageBind {
		return ErrWrongStage
	}
	if len(s.binds) == 0 {
		return ErrNoBinds
	}
	s.staged = nil
	s.index = len(s.stages)
	s.finished = true
	s.committed = true
	return nil
}

//Cancel discards everything. Also used on timeout. A session that already
//finished stays finished, so a timeout firing just after Done cannot revert
//the commit.
func (s *WizardSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.binds = nil
	s.staged = nil
	s.finished = true
	s.committed = false
}

//Finished reports whether the session has reached a terminal state.
func (s *WizardSession) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

//Committed reports whether the session finished via Done rather than being
//cancelled or timing out.
func (s *WizardSession) Committed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

//BuildTable materializes the session's result into a bind table attached to
//the given message. For interaction tables each bind's trigger key is
//rewritten to the stable component custom ID, since the message ID is not
//known until the target message exists.
func (s *WizardSession) BuildTable(messageID, channelID string) (*BindTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.committed {
		return nil, errors.New("session did not complete")
	}
	table := NewBindTable(messageID, channelID, s.triggerType, s.rule)
	for _, entry := range s.binds {
		if s.triggerType == TriggerInteraction {
			entry.TriggerKey = ComponentID(messageID, entry.RoleID)
		}
		if err := table.Add(entry); err != nil {
			return nil, err
		}
	}
	return table, nil
}

//ComponentID builds the custom ID carried by a persistent reaction role
//button. Dispatch resolves the role from this ID, never from the label.
func ComponentID(messageID, roleID string) string {
	return fmt.Sprintf("reactrole:%v:%v", messageID, roleID)
}

//ParseComponentID splits a persistent button custom ID back into its message
//and role IDs. Returns false for custom IDs from other component families.
func ParseComponentID(customID string) (messageID, roleID string, ok bool) {
	var prefix string
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 {
		return "", "", false
	}
	prefix, messageID, roleID = parts[0], parts[1], parts[2]
	if prefix != "reactrole" || messageID == "" || roleID == "" {
		return "", "", false
	}
	return messageID, roleID, true
}

//WizardComponentID builds the custom ID for a creation panel control.
func WizardComponentID(sessionID string, action WizardAction) string {
	return fmt.Sprintf("rrwizard:%v:%v", sessionID, action)
}

//ParseWizardComponentID splits a creation panel custom ID into its session
//ID and action.
func ParseWizardComponentID(customID string) (sessionID string, action WizardAction, ok bool) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != "rrwizard" {
		return "", "", false
	}
	action, ok = ParseWizardAction(parts[2])
	if !ok {
		return "", "", false
	}
	return parts[1], action, true
}
