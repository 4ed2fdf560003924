package transition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielolaszy/jtui/pkg/models"
)

// FieldKind classifies a transition screen field by its custom type.
type FieldKind int

const (
	KindUnrecognized FieldKind = iota
	KindSelect
	KindMultiSelect
)

const (
	selectSuffix      = ":select"
	multiSelectSuffix = ":multiselect"
)

func (k FieldKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindMultiSelect:
		return "multiselect"
	default:
		return "unrecognized"
	}
}

// Classify returns the kind of a transition field.
func Classify(f models.TransitionField) FieldKind {
	switch {
	case strings.HasSuffix(f.Schema.Custom, multiSelectSuffix):
		return KindMultiSelect
	case strings.HasSuffix(f.Schema.Custom, selectSuffix):
		return KindSelect
	default:
		return KindUnrecognized
	}
}

// SchemaError reports a transition that declares a screen without a field
// the screen can ask for.
type SchemaError struct {
	TransitionID   string
	TransitionName string
	Reason         string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("transition %s (%s) has an unusable screen: %s", e.TransitionName, e.TransitionID, e.Reason)
}

// screenField picks the field a floating screen asks for. Fields are
// examined in key order; the first select field with allowed values wins,
// falling back to the first select field without any.
func screenField(t models.Transition) (string, models.TransitionField, error) {
	if len(t.Fields) == 0 {
		return "", models.TransitionField{}, &SchemaError{TransitionID: t.ID, TransitionName: t.Name, Reason: "no fields"}
	}

	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fallback := ""
	for _, k := range keys {
		f := t.Fields[k]
		if Classify(f) != KindSelect {
			continue
		}
		if len(f.AllowedValues) > 0 {
			return k, f, nil
		}
		if fallback == "" {
			fallback = k
		}
	}
	if fallback != "" {
		return fallback, t.Fields[fallback], nil
	}
	return "", models.TransitionField{}, &SchemaError{TransitionID: t.ID, TransitionName: t.Name, Reason: "no select field"}
}
