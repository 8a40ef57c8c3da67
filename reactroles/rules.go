package reactroles

import "fmt"

//Rule decides whether a member may hold several roles from the same bind
//table at once.
type Rule string

const (
	//RuleNormal allows members to hold multiple roles from the group.
	RuleNormal Rule = "NORMAL"
	//RuleUnique removes any other role in the group when a new one is assigned.
	RuleUnique Rule = "UNIQUE"
)

//ParseRule converts a stored or user-supplied string into a Rule.
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case RuleNormal:
		return RuleNormal, nil
	case RuleUnique:
		return RuleUnique, nil
	default:
		return "", fmt.Errorf("`%v` is not a valid reaction role rule", s)
	}
}

//TriggerType describes how members interact with a bind table: by reacting
//with an emoji or by pressing a persistent button.
type TriggerType string

const (
	//TriggerReaction assigns roles from emoji reactions.
	TriggerReaction TriggerType = "REACTION"
	//TriggerInteraction assigns roles from button presses.
	TriggerInteraction TriggerType = "INTERACTION"
)

//ParseTriggerType converts a stored or user-supplied string into a TriggerType.
func ParseTriggerType(s string) (TriggerType, error) {
	switch TriggerType(s) {
	case TriggerReaction:
		return TriggerReaction, nil
	case TriggerInteraction:
		return TriggerInteraction, nil
	default:
		return "", fmt.Errorf("`%v` is not a valid trigger type", s)
	}
}
