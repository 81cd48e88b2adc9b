// Package scalars defines the custom GraphQL scalar types of the API.
// Coercion functions return nil for invalid values; the graphql library
// turns that into a type error at the offending location.
package scalars

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

const dateLayout = "2006-01-02"

func Date() *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        "Date",
		Description: "Calendar date serialized as YYYY-MM-DD.",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if _, err := time.Parse(dateLayout, v); err == nil {
					return v
				}
				return nil
			case time.Time:
				return v.UTC().Format(dateLayout)
			case *time.Time:
				if v == nil {
					return nil
				}
				return v.UTC().Format(dateLayout)
			default:
				return nil
			}
		},
		ParseValue: func(value interface{}) interface{} {
			if s, ok := value.(string); ok {
				return coerceDate(s)
			}
			return nil
		},
		ParseLiteral: func(valueAST ast.Value) interface{} {
			if sv, ok := valueAST.(*ast.StringValue); ok {
				return coerceDate(sv.Value)
			}
			return nil
		},
	})
}

func URL() *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        "URL",
		Description: "Absolute URL with a scheme and host.",
		Serialize: func(value interface{}) interface{} {
			if s, ok := value.(string); ok {
				return s
			}
			return nil
		},
		ParseValue: func(value interface{}) interface{} {
			if s, ok := value.(string); ok {
				return coerceURL(s)
			}
			return nil
		},
		ParseLiteral: func(valueAST ast.Value) interface{} {
			if sv, ok := valueAST.(*ast.StringValue); ok {
				return coerceURL(sv.Value)
			}
			return nil
		},
	})
}

func UUID() *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        "UUID",
		Description: "UUID in canonical textual form.",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				return v
			case uuid.UUID:
				return v.String()
			default:
				return nil
			}
		},
		ParseValue: func(value interface{}) interface{} {
			if s, ok := value.(string); ok {
				return coerceUUID(s)
			}
			return nil
		},
		ParseLiteral: func(valueAST ast.Value) interface{} {
			if sv, ok := valueAST.(*ast.StringValue); ok {
				return coerceUUID(sv.Value)
			}
			return nil
		},
	})
}

func coerceDate(value string) interface{} {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return nil
	}
	return value
}

func coerceURL(value string) interface{} {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil
	}
	return value
}

func coerceUUID(value string) interface{} {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return parsed.String()
}
