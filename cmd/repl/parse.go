package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/litequery/nodes"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising the comparison operators and punctuation.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true

		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))

		case ch == '!' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, "!=")
			i++
		case ch == '<' && i+1 < len(input) && input[i+1] == '>':
			flush()
			tokens = append(tokens, "<>")
			i++
		case ch == '<' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, "<=")
			i++
		case ch == '>' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, ">=")
			i++
		case ch == '=' || ch == '>' || ch == '<':
			flush()
			tokens = append(tokens, string(ch))

		case ch == ' ' || ch == '\t':
			flush()

		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a token to a Go value.
func parseValue(token string) (any, error) {
	lower := strings.ToLower(token)
	if lower == "true" {
		return true, nil
	}
	if lower == "false" {
		return false, nil
	}
	if lower == "null" {
		return nil, nil
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		return strings.ReplaceAll(inner, "''", "'"), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// comparisonOp maps an operator token to its predicate.
func comparisonOp(token string) (func(*nodes.Field, any) *nodes.ConditionNode, bool) {
	switch strings.ToLower(token) {
	case "=":
		return (*nodes.Field).Eq, true
	case "!=", "<>":
		return (*nodes.Field).NotEq, true
	case ">":
		return (*nodes.Field).Gt, true
	case ">=":
		return (*nodes.Field).Gte, true
	case "<":
		return (*nodes.Field).Lt, true
	case "<=":
		return (*nodes.Field).Lte, true
	case "like":
		return (*nodes.Field).Like, true
	default:
		return nil, false
	}
}

// parseCondition parses conditions joined by AND / OR, left to right:
//
//	firstName = 'Joe' and lastName is not null
//	id in (1, 2, 3) or firstName like 'J%'
func parseCondition(m *nodes.Model, input string) (nodes.Node, error) {
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}

	var (
		result nodes.Node
		join   = "and"
		start  int
	)
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) {
			lower := strings.ToLower(tokens[i])
			if lower != "and" && lower != "or" {
				continue
			}
		}
		cond, err := parseSingleCondition(m, tokens[start:i])
		if err != nil {
			return nil, err
		}
		if join == "or" {
			result = nodes.Or(result, cond)
		} else {
			result = nodes.And(result, cond)
		}
		if i < len(tokens) {
			join = strings.ToLower(tokens[i])
		}
		start = i + 1
	}
	return result, nil
}

func parseSingleCondition(m *nodes.Model, tokens []string) (nodes.Node, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("incomplete condition: %s", strings.Join(tokens, " "))
	}
	f, err := resolveField(m, tokens[0])
	if err != nil {
		return nil, err
	}
	rest := tokens[1:]

	switch strings.ToLower(rest[0]) {
	case "is":
		return parseIsCondition(f, rest[1:])
	case "in":
		return parseInCondition(f, rest[1:], false)
	case "not":
		return parseNotCondition(f, rest[1:])
	}

	op, ok := comparisonOp(rest[0])
	if !ok {
		return nil, fmt.Errorf("unknown operator: %s", rest[0])
	}
	if len(rest) != 2 {
		return nil, fmt.Errorf("expected one value after %s", rest[0])
	}
	val, err := parseValue(rest[1])
	if err != nil {
		return nil, err
	}
	return op(f, val), nil
}

// resolveField accepts "column", "table.column" or "Model:field".
func resolveField(m *nodes.Model, ref string) (*nodes.Field, error) {
	name := ref
	if i := strings.LastIndexAny(ref, ".:"); i >= 0 {
		name = ref[i+1:]
	}
	if f := m.Field(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("unknown column %q on %s", ref, m.Table)
}

func parseIsCondition(f *nodes.Field, tokens []string) (nodes.Node, error) {
	switch {
	case len(tokens) == 1 && strings.EqualFold(tokens[0], "null"):
		return f.Eq(nil), nil
	case len(tokens) == 2 && strings.EqualFold(tokens[0], "not") && strings.EqualFold(tokens[1], "null"):
		return f.NotEq(nil), nil
	}
	return nil, errors.New("expected NULL or NOT NULL after IS")
}

func parseNotCondition(f *nodes.Field, tokens []string) (nodes.Node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("expected IN or LIKE after NOT")
	}
	switch strings.ToLower(tokens[0]) {
	case "in":
		return parseInCondition(f, tokens[1:], true)
	case "like":
		if len(tokens) != 2 {
			return nil, errors.New("missing value after NOT LIKE")
		}
		val, err := parseValue(tokens[1])
		if err != nil {
			return nil, err
		}
		return f.NotLike(val), nil
	default:
		return nil, fmt.Errorf("expected IN or LIKE after NOT, got %s", tokens[0])
	}
}

func parseInCondition(f *nodes.Field, tokens []string, negate bool) (nodes.Node, error) {
	var vals []any
	for _, t := range tokens {
		if t == "(" || t == ")" || t == "," {
			continue
		}
		val, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	if len(vals) == 0 {
		return nil, errors.New("IN requires at least one value")
	}
	if negate {
		return f.NotIn(vals...), nil
	}
	return f.In(vals...), nil
}
