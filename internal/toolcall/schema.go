package toolcall

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// FieldKind is the semantic type of a tool parameter.
type FieldKind string

const (
	FieldID      FieldKind = "id"       // reference to an existing entity
	FieldString  FieldKind = "string"   // free text
	FieldInt     FieldKind = "int"      // integral number, range via Min/Max
	FieldFloat   FieldKind = "float"    // number, range via Min/Max
	FieldBool    FieldKind = "bool"     // boolean flag
	FieldIndex   FieldKind = "index"    // insertion position, >= 0
	FieldDate    FieldKind = "date"     // RFC 3339 date-time string
	FieldSetList FieldKind = "set_list" // list of set prescriptions
)

// FieldSpec declares one parameter of a tool: its semantic type, whether it
// is required, and numeric bounds where they apply.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	Required    bool
	Description string
	Min         *float64
	Max         *float64
}

// Schema is one entry of the tool schema registry. The description is
// exposed to the agent for its own tool selection; it is not consumed
// internally.
type Schema struct {
	Name        ToolName
	Description string
	Fields      []FieldSpec
}

// Registry is the closed, static catalog of tool schemas. It is built once
// at startup and never mutated afterwards.
type Registry struct {
	schemas map[ToolName]Schema
}

// NewRegistry builds the catalog for the full tool enumeration.
func NewRegistry() *Registry {
	entries := []Schema{
		{
			Name:        ToolAddExercise,
			Description: "Add a new exercise to a session of the workout program",
			Fields: []FieldSpec{
				{Name: "session_id", Kind: FieldID, Required: true, Description: "Id of the session to add the exercise to"},
				{Name: "name", Kind: FieldString, Required: true, Description: "Exercise name"},
				{Name: "position", Kind: FieldIndex, Description: "Insertion position among the session's exercises; appended when omitted"},
				{Name: "sets", Kind: FieldSetList, Description: "Initial set prescriptions (reps, weight, rir, notes)"},
			},
		},
		{
			Name:        ToolRemoveExercise,
			Description: "Remove an exercise from the workout program",
			Fields: []FieldSpec{
				{Name: "exercise_id", Kind: FieldID, Required: true, Description: "Id of the exercise to remove"},
				{Name: "session_id", Kind: FieldID, Description: "Session the exercise is expected to belong to"},
			},
		},
		{
			Name:        ToolModifyExercise,
			Description: "Modify fields of an exercise; omitted fields are left untouched",
			Fields: []FieldSpec{
				{Name: "exercise_id", Kind: FieldID, Required: true, Description: "Id of the exercise to modify"},
				{Name: "session_id", Kind: FieldID, Description: "Session the exercise is expected to belong to"},
				{Name: "name", Kind: FieldString, Description: "New exercise name"},
				{Name: "completed", Kind: FieldBool, Description: "Mark the exercise as completed or not"},
			},
		},
		{
			Name:        ToolAddSession,
			Description: "Add a new session to a week of the workout program",
			Fields: []FieldSpec{
				{Name: "week_id", Kind: FieldID, Required: true, Description: "Id of the week to add the session to"},
				{Name: "title", Kind: FieldString, Required: true, Description: "Session title"},
				{Name: "day", Kind: FieldString, Description: "Day label, e.g. 'Monday'"},
				{Name: "date", Kind: FieldDate, Description: "Session date, RFC 3339"},
				{Name: "position", Kind: FieldIndex, Description: "Insertion position among the week's sessions; appended when omitted"},
			},
		},
		{
			Name:        ToolRemoveSession,
			Description: "Remove a session from the workout program",
			Fields: []FieldSpec{
				{Name: "session_id", Kind: FieldID, Required: true, Description: "Id of the session to remove"},
				{Name: "week_id", Kind: FieldID, Description: "Week the session is expected to belong to"},
			},
		},
		{
			Name:        ToolModifySession,
			Description: "Modify fields of a session; omitted fields are left untouched",
			Fields: []FieldSpec{
				{Name: "session_id", Kind: FieldID, Required: true, Description: "Id of the session to modify"},
				{Name: "title", Kind: FieldString, Description: "New session title"},
				{Name: "day", Kind: FieldString, Description: "New day label"},
				{Name: "date", Kind: FieldDate, Description: "New session date, RFC 3339"},
				{Name: "completed", Kind: FieldBool, Description: "Mark the session as completed or not"},
				{Name: "cardio_duration_minutes", Kind: FieldInt, Min: f(0), Description: "Cardio block duration in minutes"},
				{Name: "cardio_type", Kind: FieldString, Description: "Cardio block type, e.g. 'incline walk'"},
				{Name: "cardio_notes", Kind: FieldString, Description: "Cardio block notes"},
			},
		},
		{
			Name:        ToolAddSet,
			Description: "Add a set prescription to an exercise",
			Fields: []FieldSpec{
				{Name: "exercise_id", Kind: FieldID, Required: true, Description: "Id of the exercise to add the set to"},
				{Name: "reps", Kind: FieldInt, Required: true, Min: f(1), Description: "Prescribed repetitions"},
				{Name: "weight", Kind: FieldFloat, Min: f(0), Description: "Prescribed weight in kg"},
				{Name: "rir", Kind: FieldInt, Min: f(0), Max: f(10), Description: "Prescribed reps in reserve"},
				{Name: "notes", Kind: FieldString, Description: "Prescription notes"},
				{Name: "position", Kind: FieldIndex, Description: "Insertion position among the exercise's sets; appended when omitted"},
			},
		},
		{
			Name:        ToolRemoveSet,
			Description: "Remove a set from an exercise",
			Fields: []FieldSpec{
				{Name: "set_id", Kind: FieldID, Required: true, Description: "Id of the set to remove"},
				{Name: "exercise_id", Kind: FieldID, Description: "Exercise the set is expected to belong to"},
			},
		},
		{
			Name:        ToolModifySet,
			Description: "Modify prescribed or actual values of a set; omitted fields are left untouched",
			Fields: []FieldSpec{
				{Name: "set_id", Kind: FieldID, Required: true, Description: "Id of the set to modify"},
				{Name: "exercise_id", Kind: FieldID, Description: "Exercise the set is expected to belong to"},
				{Name: "prescribed_reps", Kind: FieldInt, Min: f(1), Description: "Prescribed repetitions"},
				{Name: "prescribed_weight", Kind: FieldFloat, Min: f(0), Description: "Prescribed weight in kg"},
				{Name: "prescribed_rir", Kind: FieldInt, Min: f(0), Max: f(10), Description: "Prescribed reps in reserve"},
				{Name: "prescribed_notes", Kind: FieldString, Description: "Prescription notes"},
				{Name: "actual_reps", Kind: FieldInt, Min: f(0), Description: "Performed repetitions"},
				{Name: "actual_weight", Kind: FieldFloat, Min: f(0), Description: "Performed weight in kg"},
				{Name: "actual_rir", Kind: FieldInt, Min: f(0), Max: f(10), Description: "Performed reps in reserve"},
				{Name: "actual_notes", Kind: FieldString, Description: "Performance notes"},
				{Name: "completed", Kind: FieldBool, Description: "Mark the set as completed or not"},
			},
		},
	}

	schemas := make(map[ToolName]Schema, len(entries))
	for _, entry := range entries {
		schemas[entry.Name] = entry
	}
	return &Registry{schemas: schemas}
}

// Get returns the schema for a tool name in O(1), failing with a descriptive
// error for any name outside the enumeration.
func (r *Registry) Get(name ToolName) (Schema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return schema, nil
}

// Schemas returns all registered schemas.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.schemas))
	for _, name := range AllToolNames() {
		if schema, ok := r.schemas[name]; ok {
			out = append(out, schema)
		}
	}
	return out
}

// CheckLockstep verifies that the registry and the tool name enumeration
// match exactly. A mismatch is a startup-time configuration error, not a
// runtime one.
func (r *Registry) CheckLockstep() error {
	for _, name := range AllToolNames() {
		if _, ok := r.schemas[name]; !ok {
			return fmt.Errorf("tool %q is in the enumeration but not registered", name)
		}
	}
	for name := range r.schemas {
		if !name.IsValid() {
			return fmt.Errorf("registered tool %q is not in the enumeration", name)
		}
	}
	return nil
}

// MCPTool renders the schema as an MCP tool declaration for the transport.
func (s Schema) MCPTool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(s.Description)}
	for _, field := range s.Fields {
		opts = append(opts, field.mcpOption())
	}
	return mcp.NewTool(string(s.Name), opts...)
}

func (spec FieldSpec) mcpOption() mcp.ToolOption {
	var props []mcp.PropertyOption
	if spec.Required {
		props = append(props, mcp.Required())
	}
	props = append(props, mcp.Description(spec.Description))

	switch spec.Kind {
	case FieldBool:
		return mcp.WithBoolean(spec.Name, props...)
	case FieldInt, FieldFloat, FieldIndex:
		return mcp.WithNumber(spec.Name, props...)
	case FieldSetList:
		props = append(props, mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reps":   map[string]any{"type": "number"},
				"weight": map[string]any{"type": "number"},
				"rir":    map[string]any{"type": "number"},
				"notes":  map[string]any{"type": "string"},
			},
		}))
		return mcp.WithArray(spec.Name, props...)
	default:
		return mcp.WithString(spec.Name, props...)
	}
}

func f(v float64) *float64 {
	return &v
}
