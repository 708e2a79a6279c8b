package toolcall

// ToolName identifies one of the program modification tools the coaching
// agent may call. The set is closed: the schema registry and this
// enumeration are checked against each other at startup.
type ToolName string

const (
	ToolModifyExercise ToolName = "modify_exercise"
	ToolAddExercise    ToolName = "add_exercise"
	ToolRemoveExercise ToolName = "remove_exercise"
	ToolModifySession  ToolName = "modify_session"
	ToolAddSession     ToolName = "add_session"
	ToolRemoveSession  ToolName = "remove_session"
	ToolModifySet      ToolName = "modify_set"
	ToolAddSet         ToolName = "add_set"
	ToolRemoveSet      ToolName = "remove_set"
)

// IsValid checks if the name is a member of the closed tool enumeration.
func (n ToolName) IsValid() bool {
	switch n {
	case ToolModifyExercise, ToolAddExercise, ToolRemoveExercise,
		ToolModifySession, ToolAddSession, ToolRemoveSession,
		ToolModifySet, ToolAddSet, ToolRemoveSet:
		return true
	default:
		return false
	}
}

// String returns the wire name of the tool.
func (n ToolName) String() string {
	return string(n)
}

// AllToolNames returns every member of the enumeration.
func AllToolNames() []ToolName {
	return []ToolName{
		ToolModifyExercise,
		ToolAddExercise,
		ToolRemoveExercise,
		ToolModifySession,
		ToolAddSession,
		ToolRemoveSession,
		ToolModifySet,
		ToolAddSet,
		ToolRemoveSet,
	}
}

// ToolCall is one modification request emitted by the agent. It is not
// persisted; it only lives for the duration of a proposal's lifecycle.
type ToolCall struct {
	Name   ToolName       `json:"name"`
	Params map[string]any `json:"params"`
}
