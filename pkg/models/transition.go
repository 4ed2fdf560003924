package models

// AllowedValue is one selectable option of a transition screen field.
type AllowedValue struct {
	// Value is the option text submitted back to Jira
	Value string `json:"value"`

	// ID and Self are the option's Jira metadata, when the server sends them
	ID   string `json:"id,omitempty"`
	Self string `json:"self,omitempty"`
}

// FieldSchema describes the type of a transition screen field.
type FieldSchema struct {
	Type   string `json:"type,omitempty"`
	Custom string `json:"custom,omitempty"`
}

// TransitionField is a field that can be set while executing a transition.
type TransitionField struct {
	Required      bool           `json:"required,omitempty"`
	Name          string         `json:"name,omitempty"`
	Schema        FieldSchema    `json:"schema"`
	AllowedValues []AllowedValue `json:"allowedValues,omitempty"`
}

// Transition is a workflow action available on a ticket. Transitions are
// fetched per ticket selection and never cached.
type Transition struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	HasScreen *bool                      `json:"hasScreen,omitempty"`
	Fields    map[string]TransitionField `json:"fields,omitempty"`
}

// NeedsScreen reports whether the transition declares a secondary screen.
func (t Transition) NeedsScreen() bool {
	return t.HasScreen != nil && *t.HasScreen
}

// TransitionList is the envelope returned by the transitions endpoint.
type TransitionList struct {
	Transitions []Transition `json:"transitions"`
}

// TransitionRequest is the payload posted to execute a transition.
type TransitionRequest struct {
	Transition TransitionID          `json:"transition"`
	Fields     map[string]FieldValue `json:"fields,omitempty"`
	Update     *TransitionUpdate     `json:"update,omitempty"`
}

// TransitionID identifies the transition to execute.
type TransitionID struct {
	ID string `json:"id"`
}

// FieldValue sets a select field by option value.
type FieldValue struct {
	Value string `json:"value"`
}

// TransitionUpdate carries the update operations sent with a transition.
type TransitionUpdate struct {
	Comment []CommentUpdate `json:"comment,omitempty"`
}

// CommentUpdate adds a comment as part of a transition.
type CommentUpdate struct {
	Add CommentBody `json:"add"`
}

// CommentBody is the body of a comment being added.
type CommentBody struct {
	Body string `json:"body"`
}
