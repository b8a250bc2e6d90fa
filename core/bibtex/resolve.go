package bibtex

import (
	"strings"

	apperrors "github.com/FocuswithJustin/bibtex/core/errors"
	"github.com/FocuswithJustin/bibtex/core/syntax"
)

// resolveVariables computes the final name to expanded-text mapping for all
// @string definitions. References are resolved against the full declared
// set, so a definition may reference a variable declared later in the file.
func resolveVariables(entries []syntax.Entry) (map[string]string, error) {
	var defs []syntax.KeyValue
	for _, entry := range entries {
		if v, ok := entry.(syntax.Variable); ok {
			defs = append(defs, v.KeyValue)
		}
	}

	resolved := make(map[string]string, len(defs))
	for _, def := range defs {
		value, err := expandDefinition(def.Value, defs, map[string]bool{def.Key: true})
		if err != nil {
			return nil, err
		}
		resolved[def.Key] = value
	}
	return resolved, nil
}

// expandDefinition recursively expands a definition's fragments against the
// declared set. Each top-level definition is expanded independently, with no
// memoization; the redundant work is immaterial at the input sizes this
// handles. active holds the names on the current expansion path so that a
// definition depending on itself fails instead of recursing forever.
func expandDefinition(value []syntax.Fragment, defs []syntax.KeyValue, active map[string]bool) (string, error) {
	var sb strings.Builder
	for _, frag := range value {
		switch f := frag.(type) {
		case syntax.Literal:
			sb.WriteString(f.Value)
		case syntax.Abbreviation:
			if active[f.Name] {
				return "", &apperrors.CyclicVariableError{Name: f.Name}
			}
			def, ok := findDefinition(defs, f.Name)
			if !ok {
				return "", &apperrors.UndefinedVariableError{Name: f.Name}
			}
			active[f.Name] = true
			nested, err := expandDefinition(def.Value, defs, active)
			if err != nil {
				return "", err
			}
			delete(active, f.Name)
			sb.WriteString(nested)
		}
	}
	return sb.String(), nil
}

// findDefinition returns the first definition named name, case-sensitively.
func findDefinition(defs []syntax.KeyValue, name string) (syntax.KeyValue, bool) {
	for _, def := range defs {
		if def.Key == name {
			return def, true
		}
	}
	return syntax.KeyValue{}, false
}
