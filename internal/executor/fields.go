package executor

import (
	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

// collectedField is one response key and every field node merged under it.
type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

// groupedFields keeps response keys in the order they first appear.
type groupedFields struct {
	fields []collectedField
	index  map[string]int
}

func (g *groupedFields) add(responseName string, field *language.Field) {
	if i, ok := g.index[responseName]; ok {
		g.fields[i].Fields = append(g.fields[i].Fields, field)
		return
	}
	g.index[responseName] = len(g.fields)
	g.fields = append(g.fields, collectedField{ResponseName: responseName, Fields: []*language.Field{field}})
}

func (g *groupedFields) orderedFields() []collectedField { return g.fields }

// fieldCollector flattens fragments and applies @skip/@include for one
// object type. Each named fragment is expanded at most once.
type fieldCollector struct {
	state      *executionState
	objectType *schema.Type
	out        *groupedFields
	visited    map[string]bool
}

func collectFields(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet) *groupedFields {
	c := &fieldCollector{
		state:      state,
		objectType: objectType,
		out:        &groupedFields{index: make(map[string]int)},
		visited:    make(map[string]bool),
	}
	c.collect(selectionSet)
	return c.out
}

func (c *fieldCollector) collect(selectionSet language.SelectionSet) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldIncludeNode(c.state, sel.Directives) {
				continue
			}
			name := sel.Alias
			if name == "" {
				name = sel.Name
			}
			c.out.add(name, sel)

		case *language.InlineFragment:
			if shouldIncludeNode(c.state, sel.Directives) && doesFragmentTypeApply(c.state, c.objectType, sel.TypeCondition) {
				c.collect(sel.SelectionSet)
			}

		case *language.FragmentSpread:
			if !shouldIncludeNode(c.state, sel.Directives) || c.visited[sel.Name] {
				continue
			}
			c.visited[sel.Name] = true
			def := c.state.document.Fragments.ForName(sel.Name)
			if def == nil || !doesFragmentTypeApply(c.state, c.objectType, def.TypeCondition) {
				continue
			}
			if shouldIncludeNode(c.state, def.Directives) {
				c.collect(def.SelectionSet)
			}
		}
	}
}

// doesFragmentTypeApply reports whether a fragment with the given type
// condition applies to objectType, either directly or through an interface
// or union the object belongs to.
func doesFragmentTypeApply(state *executionState, objectType *schema.Type, typeCondition string) bool {
	if typeCondition == "" || typeCondition == objectType.Name {
		return true
	}
	conditionType := state.schema.Types[typeCondition]
	if conditionType == nil {
		return false
	}
	switch conditionType.Kind {
	case schema.TypeKindInterface:
		return containsName(objectType.Interfaces, typeCondition)
	case schema.TypeKindUnion:
		return containsName(conditionType.PossibleTypes, objectType.Name)
	}
	return false
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// shouldIncludeNode evaluates @skip(if:) and @include(if:). Skip wins when
// both are present.
func shouldIncludeNode(state *executionState, directives language.DirectiveList) bool {
	if v, ok := directiveIf(state, directives.ForName("skip")); ok && v {
		return false
	}
	if v, ok := directiveIf(state, directives.ForName("include")); ok && !v {
		return false
	}
	return true
}

func directiveIf(state *executionState, d *language.Directive) (value bool, ok bool) {
	if d == nil {
		return false, false
	}
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	value, ok = valueFromAST(arg.Value, state.variableValues).(bool)
	return value, ok
}

func getFieldDefinition(objectType *schema.Type, fieldName string) *schema.Field {
	return objectType.Field(fieldName)
}
