package workout

// WorkoutPromptTemplates contains prompt templates for coaching conversations
// These templates encode coaching knowledge about program review and logging
type WorkoutPromptTemplates struct{}

// PromptTemplate represents a prompt template with its metadata
type PromptTemplate struct {
	Name         string
	Description  string
	Template     string
	RequiredArgs []string
}

// GetReviewPrompt returns the template for reviewing the workout program
func (p *WorkoutPromptTemplates) GetReviewPrompt() PromptTemplate {
	return PromptTemplate{
		Name:        "program_review",
		Description: "Review the current workout program and suggest adjustments",
		Template: `Please review the current workout program with a focus on "%s".

Read the coach://program resource first, then analyze:

**Structure**
1. Weekly layout and session distribution
2. Exercise selection and ordering within sessions
3. Set and rep schemes against the stated focus

**Progression**
1. Load and volume trends across weeks
2. RIR targets and whether recent actuals hit them
3. Sessions or exercises that were skipped or incomplete

**Recommendations**
For each suggested change, use the matching program tool to create a
proposal, then present its summary to the user and wait for their
explicit confirmation before applying anything. Never apply a change
the user has not confirmed in this conversation.`,
		RequiredArgs: []string{"focus"},
	}
}

// GetDebriefPrompt returns the template for debriefing a training session
func (p *WorkoutPromptTemplates) GetDebriefPrompt() PromptTemplate {
	return PromptTemplate{
		Name:        "session_debrief",
		Description: "Debrief a completed training session and log the results",
		Template: `Please debrief the training session "%s" with the user.

Read the coach://program resource to find the session, then walk through
each exercise and ask the user:

1. Which sets were completed, and the actual reps, weight and RIR
2. Anything that felt off (pain, fatigue, form breakdown)
3. Whether the prescribed loads should change next time

Record the results with modify_set proposals (actual values and
completion), and mark the session completed with modify_session once
everything is logged. Each change needs the user's explicit confirmation
before it is applied.`,
		RequiredArgs: []string{"session_title"},
	}
}

// GetAllPromptTemplates returns all available prompt templates
func (p *WorkoutPromptTemplates) GetAllPromptTemplates() []PromptTemplate {
	return []PromptTemplate{
		p.GetReviewPrompt(),
		p.GetDebriefPrompt(),
	}
}

// NewWorkoutPromptTemplates creates a new instance of the templates
func NewWorkoutPromptTemplates() *WorkoutPromptTemplates {
	return &WorkoutPromptTemplates{}
}
