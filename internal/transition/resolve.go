package transition

import (
	"fmt"
	"strings"

	"github.com/danielolaszy/jtui/pkg/models"
)

// Find returns the transition whose ID matches ref, or whose name matches it
// ignoring case.
func Find(transitions []models.Transition, ref string) (models.Transition, error) {
	for _, t := range transitions {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range transitions {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}

	names := make([]string, len(transitions))
	for i, t := range transitions {
		names[i] = t.Name
	}
	return models.Transition{}, fmt.Errorf("no transition %q, available: %s", ref, strings.Join(names, ", "))
}

// Resolve builds a submission without the interactive screen. A transition
// with a screen needs value to be one of the allowed values of its screen
// field.
func Resolve(t models.Transition, value, comment string) (Submission, error) {
	sub := Submission{TransitionID: t.ID, TransitionName: t.Name}
	if !t.NeedsScreen() {
		sub.Comment = comment
		return sub, nil
	}

	key, field, err := screenField(t)
	if err != nil {
		return Submission{}, err
	}
	if len(field.AllowedValues) == 0 {
		return Submission{}, &SchemaError{TransitionID: t.ID, TransitionName: t.Name, Reason: "screen field " + key + " has no allowed values"}
	}

	allowed := make([]string, len(field.AllowedValues))
	for i, v := range field.AllowedValues {
		allowed[i] = v.Value
		if strings.EqualFold(v.Value, value) {
			sub.Field = &ResolvedField{Key: key, Value: v.Value}
			sub.Comment = comment
			return sub, nil
		}
	}
	return Submission{}, fmt.Errorf("transition %s needs %s, one of: %s", t.Name, fieldLabel(key, field), strings.Join(allowed, ", "))
}

// ScreenField describes the field a transition screen asks for, or "" when
// the transition has no usable screen.
func ScreenField(t models.Transition) (string, []string) {
	if !t.NeedsScreen() {
		return "", nil
	}
	key, field, err := screenField(t)
	if err != nil {
		return "", nil
	}
	values := make([]string, len(field.AllowedValues))
	for i, v := range field.AllowedValues {
		values[i] = v.Value
	}
	return fieldLabel(key, field), values
}

func fieldLabel(key string, f models.TransitionField) string {
	if f.Name != "" {
		return f.Name
	}
	return key
}
