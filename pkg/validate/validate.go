// Package validate provides struct-tag validation.
//
// Rules are listed comma-separated in the `validate` tag and checked in
// order; the first failing rule of a field is reported.
//
//	required            must be present; strings must be non-empty
//	present             must be present (nil pointer fails, anything else passes)
//	nullable            if null, skip the remaining rules; a pointer to "" is not null
//	email               valid email address
//	url                 valid http/https URL
//	alpha_dash          letters, digits, hyphens, underscores
//	numeric             any number
//	integer             whole number (fractional floats fail)
//	min=N / max=N       string: rune length | number: value
//	gt=N gte=N lt=N lte=N
//	between=lo,hi       number or string length, inclusive
//	in=a,b,c            value must be one of the listed items
//	not_in=a,b,c        value must not be one of the listed items
//	regex=pattern       value must match (avoid commas in pattern)
//
// Messages can be overridden per rule with the `msg` tag, separated by ';'.
// {PATH} and {VALUE} are replaced with the field name and offending value:
//
//	type Input struct {
//	    Unit *string `json:"unit" validate:"required,in=kg,litre,pcs" msg:"in=unit value can't be {VALUE}"`
//	}
//
// Default messages for a whole rule set can be replaced with New:
//
//	v := validate.New(map[string]string{"required": "Path `{PATH}` is required."})
//	errs := v.Struct(input)
//
// Pointer fields distinguish "absent" (nil) from zero values, so a quantity
// of 0 or an empty description still count as present.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// FieldError describes one violated rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
	Value   any
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// Errors holds field errors in struct declaration order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, ", ")
}

// Map returns field → message.
func (e Errors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// Has reports whether field failed any rule.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// HasErrors returns true when errs is non-empty.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

// Validator checks structs, replacing built-in rule messages with its own
// templates. Per-field `msg` tags still take precedence.
type Validator struct {
	messages map[string]string
}

// New returns a Validator using messages (rule → template) as defaults.
func New(messages map[string]string) *Validator {
	m := make(map[string]string, len(messages))
	for k, v := range messages {
		m[k] = v
	}
	return &Validator{messages: m}
}

var std = New(nil)

// Struct validates v with the built-in messages.
func Struct(v any) Errors { return std.Struct(v) }

// Struct validates every exported field of v that carries a `validate` tag.
func (vd *Validator) Struct(v any) Errors {
	var errs Errors

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		rules := splitRules(tag)
		messages := parseMessages(field.Tag.Get("msg"))
		value := rv.Field(i)

		if hasRule(rules, "nullable") && isNull(value) {
			continue
		}

		for _, rule := range rules {
			key, param, _ := strings.Cut(rule, "=")
			if key == "nullable" {
				continue
			}
			msg := applyRule(key, param, name, value)
			if msg == "" {
				continue
			}
			if custom, ok := messages[key]; ok {
				msg = custom
			} else if tmpl, ok := vd.messages[key]; ok {
				msg = tmpl
			}
			shown := display(value)
			msg = strings.NewReplacer("{PATH}", name, "{VALUE}", shown).Replace(msg)
			errs = append(errs, FieldError{Field: name, Rule: key, Message: msg, Value: indirect(value)})
			break
		}
	}

	return errs
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(key, param, field string, v reflect.Value) string {
	switch key {
	case "required":
		if isMissing(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	case "present":
		if isNil(v) {
			return fmt.Sprintf("The %s field must be present.", field)
		}
		return ""
	}

	// Every other rule is vacuous on an absent value; pair it with
	// required/present when absence should fail.
	if isNil(v) {
		return ""
	}
	v = deref(v)
	raw := fmt.Sprintf("%v", v.Interface())

	switch key {
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
			}
		}
	case "numeric":
		if !isNumericKind(v) {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return fmt.Sprintf("The %s field must be a number.", field)
			}
		}
	case "integer":
		switch {
		case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
			f := v.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		case isNumericKind(v):
		default:
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		}

	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(runeLen(v)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(runeLen(v)) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if toFloat(v) <= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if toFloat(v) >= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		l, h := mustParseFloat(lo), mustParseFloat(hi)
		if isNumericKind(v) {
			if f := toFloat(v); f < l || f > h {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if n := float64(runeLen(v)); n < l || n > h {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "not_in":
		for _, f := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(f) {
				return fmt.Sprintf("The selected %s is invalid.", field)
			}
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func indirect(v reflect.Value) any {
	if isNil(v) {
		return nil
	}
	return deref(v).Interface()
}

// isNull reports a nil pointer, or a zero value in a non-pointer field where
// null cannot be told apart from empty.
func isNull(v reflect.Value) bool {
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		return v.IsNil()
	}
	return isNil(v) || v.IsZero()
}

// isMissing treats nil pointers and empty strings as absent. Non-pointer
// numbers keep the zero-means-empty convention; use a pointer when 0 is a
// legitimate value.
func isMissing(v reflect.Value) bool {
	if isNil(v) {
		return true
	}
	pointer := v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface
	v = deref(v)

	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return !pointer && v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return !pointer && v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return !pointer && v.Float() == 0
	}
	return false
}

func display(v reflect.Value) string {
	if isNil(v) {
		return "null"
	}
	v = deref(v)
	if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func runeLen(v reflect.Value) int {
	if v.Kind() == reflect.String {
		return len([]rune(v.String()))
	}
	return len([]rune(fmt.Sprintf("%v", v.Interface())))
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func parseMessages(tag string) map[string]string {
	if tag == "" {
		return nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		key, msg, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(msg)
	}
	return out
}

var ruleNames = []string{
	"required", "present", "nullable", "email", "url", "alpha_dash", "numeric",
	"integer", "min", "max", "gt", "gte", "lt", "lte", "between", "in",
	"not_in", "regex",
}

// splitRules splits a tag on commas while keeping multi-value parameters
// (in=, not_in=, between=) intact:
//
//	"required,in=kg,litre,pcs,max=9" → ["required", "in=kg,litre,pcs", "max=9"]
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if len(rules) > 0 && !isRuleToken(tok) && isMultiValue(rules[len(rules)-1]) {
			rules[len(rules)-1] += "," + tok
			continue
		}
		rules = append(rules, tok)
	}
	return rules
}

func isRuleToken(tok string) bool {
	key, _, _ := strings.Cut(tok, "=")
	for _, name := range ruleNames {
		if key == name {
			return true
		}
	}
	return false
}

func isMultiValue(rule string) bool {
	return strings.HasPrefix(rule, "in=") || strings.HasPrefix(rule, "not_in=") || strings.HasPrefix(rule, "between=")
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
