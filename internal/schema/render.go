package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render writes s as SDL. Types and directives are emitted sorted by name;
// built-in scalars and @include/@skip are left to the GraphQL prelude.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	r := &renderer{}
	r.schemaBlock(s)
	for _, name := range sortedKeys(s.Types) {
		if isBuiltinScalar(name) {
			continue
		}
		r.typeDefinition(s.Types[name])
	}
	for _, name := range sortedKeys(s.Directives) {
		if isBuiltinDirective(name) {
			continue
		}
		r.directiveDefinition(s.Directives[name])
	}
	return strings.TrimRight(r.String(), "\n") + "\n"
}

type renderer struct {
	strings.Builder
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// schemaBlock is only needed when a root type has a non-default name.
func (r *renderer) schemaBlock(s *Schema) {
	roots := []struct{ op, name, conventional string }{
		{"query", s.QueryType, "Query"},
		{"mutation", s.MutationType, "Mutation"},
		{"subscription", s.SubscriptionType, "Subscription"},
	}
	custom := false
	for _, root := range roots {
		if root.name != "" && root.name != root.conventional {
			custom = true
		}
	}
	if !custom {
		return
	}
	r.WriteString("schema {\n")
	for _, root := range roots {
		if root.name != "" {
			fmt.Fprintf(r, "  %s: %s\n", root.op, root.name)
		}
	}
	r.WriteString("}\n\n")
}

func (r *renderer) typeDefinition(t *Type) {
	r.description("", t.Description)
	switch t.Kind {
	case TypeKindScalar:
		fmt.Fprintf(r, "scalar %s\n\n", t.Name)
	case TypeKindUnion:
		fmt.Fprintf(r, "union %s = %s\n\n", t.Name, strings.Join(t.PossibleTypes, " | "))
	case TypeKindEnum:
		fmt.Fprintf(r, "enum %s {\n", t.Name)
		for _, v := range t.EnumValues {
			r.description("  ", v.Description)
			r.WriteString("  " + v.Name)
			r.deprecated(v.IsDeprecated, v.DeprecationReason)
			r.WriteString("\n")
		}
		r.WriteString("}\n\n")
	case TypeKindInputObject:
		r.WriteString("input " + t.Name)
		if t.OneOf {
			r.WriteString(" @oneOf")
		}
		r.WriteString(" {\n")
		for _, f := range t.InputFields {
			r.description("  ", f.Description)
			r.WriteString("  ")
			r.inputValue(f)
			r.deprecated(f.IsDeprecated, f.DeprecationReason)
			r.WriteString("\n")
		}
		r.WriteString("}\n\n")
	case TypeKindObject, TypeKindInterface:
		keyword := "type"
		if t.Kind == TypeKindInterface {
			keyword = "interface"
		}
		r.WriteString(keyword + " " + t.Name)
		if len(t.Interfaces) > 0 {
			r.WriteString(" implements " + strings.Join(t.Interfaces, " & "))
		}
		r.WriteString(" {\n")
		for _, f := range t.Fields {
			r.description("  ", f.Description)
			r.WriteString("  " + f.Name)
			r.arguments(f.Arguments)
			r.WriteString(": " + f.Type.String())
			r.deprecated(f.IsDeprecated, f.DeprecationReason)
			r.WriteString("\n")
		}
		r.WriteString("}\n\n")
	}
}

func (r *renderer) directiveDefinition(d *Directive) {
	r.description("", d.Description)
	r.WriteString("directive @" + d.Name)
	r.arguments(d.Arguments)
	if d.IsRepeatable {
		r.WriteString(" repeatable")
	}
	r.WriteString(" on " + strings.Join(d.Locations, " | ") + "\n\n")
}

func (r *renderer) description(indent, desc string) {
	if desc == "" {
		return
	}
	fmt.Fprintf(r, "%s\"\"\"\n%s%s\n%s\"\"\"\n", indent, indent, strings.ReplaceAll(desc, `"""`, `\"""`), indent)
}

func (r *renderer) arguments(args []*InputValue) {
	if len(args) == 0 {
		return
	}
	r.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			r.WriteString(", ")
		}
		r.inputValue(arg)
	}
	r.WriteString(")")
}

func (r *renderer) inputValue(v *InputValue) {
	r.WriteString(v.Name + ": " + v.Type.String())
	if v.DefaultValue != nil {
		r.WriteString(" = " + renderValue(v.DefaultValue))
	}
}

func (r *renderer) deprecated(is bool, reason string) {
	if !is {
		return
	}
	r.WriteString(" @deprecated")
	if reason != "" {
		r.WriteString("(reason: " + strconv.Quote(reason) + ")")
	}
}

// renderValue writes a default value as a GraphQL literal. Object keys are
// sorted so output is stable.
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		parts := make([]string, 0, len(v))
		for _, k := range sortedKeys(v) {
			parts = append(parts, k+": "+renderValue(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
