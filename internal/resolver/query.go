package resolver

import (
	"github.com/graphql-go/graphql"

	"pagesnap/internal/apperror"
	"pagesnap/internal/page"
	"pagesnap/internal/validation"
)

var windowBounds = validation.Bounds{
	Min: int64Ptr(0),
	Max: int64Ptr(10000),
}

func int64Ptr(n int64) *int64 { return &n }

// resolvePage handles the page(id) query. Validation and repository
// failures come back as union members, never as GraphQL errors.
func (r *Resolver) resolvePage(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	if err := validation.Validate([]*apperror.FieldError{
		validation.UUID(id, "id"),
	}); err != nil {
		return apperror.Wrap(err), nil
	}

	result, err := r.repo.GetPage(p.Context, id)
	if err != nil {
		return apperror.Wrap(err), nil
	}
	return result, nil
}

// resolvePages handles the pages query: validate everything up front
// (collecting every failing field), then hand the parsed parameters to
// the repository.
func (r *Resolver) resolvePages(p graphql.ResolveParams) (interface{}, error) {
	params, err := parseListParams(p.Args)
	if err != nil {
		return apperror.Wrap(err), nil
	}

	result, err := r.repo.GetPages(p.Context, *params)
	if err != nil {
		return apperror.Wrap(err), nil
	}
	return result, nil
}

// parseListParams validates the raw pages arguments and builds the
// domain listing parameters. A key that is absent is skipped; a key
// that is present with a null value is a field error.
func parseListParams(args map[string]interface{}) (*page.ListParams, error) {
	var results []*apperror.FieldError
	params := &page.ListParams{}

	inRange := validation.InRange(windowBounds)
	for _, name := range []string{"first", "last"} {
		value, present := args[name]
		if !present {
			continue
		}
		if fieldErr := validation.NotNull(value, name); fieldErr != nil {
			results = append(results, fieldErr)
			continue
		}
		if fieldErr := validation.Number(value, name); fieldErr != nil {
			results = append(results, fieldErr)
			continue
		}
		if fieldErr := inRange(value, name); fieldErr != nil {
			results = append(results, fieldErr)
			continue
		}
		count := value.(int)
		if name == "first" {
			params.First = &count
		} else {
			params.Last = &count
		}
	}

	for _, name := range []string{"after", "before"} {
		value, present := args[name]
		if !present {
			continue
		}
		if fieldErr := validation.NotNull(value, name); fieldErr != nil {
			results = append(results, fieldErr)
			continue
		}
		if fieldErr := validation.UUID(value, name); fieldErr != nil {
			results = append(results, fieldErr)
			continue
		}
		cursor := value.(string)
		if name == "after" {
			params.After = &cursor
		} else {
			params.Before = &cursor
		}
	}

	if raw, present := args["filter"]; present {
		if fieldErr := validation.NotNull(raw, "filter"); fieldErr != nil {
			results = append(results, fieldErr)
		} else {
			filter, fieldErrs := parseFilter(raw)
			results = append(results, fieldErrs...)
			params.Filter = filter
		}
	}
	if raw, present := args["sort"]; present {
		if fieldErr := validation.NotNull(raw, "sort"); fieldErr != nil {
			results = append(results, fieldErr)
		} else {
			params.Sort = parseSort(raw)
		}
	}

	if err := validation.Validate(results); err != nil {
		return nil, err
	}
	return params, nil
}

func parseFilter(raw interface{}) (*page.Filter, []*apperror.FieldError) {
	values, ok := raw.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	var results []*apperror.FieldError
	filter := &page.Filter{}

	if dateRaw, present := values["date"]; present {
		if fieldErr := validation.NotNull(dateRaw, "filter.date"); fieldErr != nil {
			results = append(results, fieldErr)
		} else if dateValues, ok := dateRaw.(map[string]interface{}); ok {
			dateFilter := &page.DateRangeFilter{}
			for _, op := range []string{"gt", "gte", "lt", "lte"} {
				value, present := dateValues[op]
				if !present {
					continue
				}
				field := "filter.date." + op
				if fieldErr := validation.NotNull(value, field); fieldErr != nil {
					results = append(results, fieldErr)
					continue
				}
				if fieldErr := validation.Date(value, field); fieldErr != nil {
					results = append(results, fieldErr)
					continue
				}
				operand := value.(string)
				switch op {
				case "gt":
					dateFilter.Gt = &operand
				case "gte":
					dateFilter.Gte = &operand
				case "lt":
					dateFilter.Lt = &operand
				case "lte":
					dateFilter.Lte = &operand
				}
			}
			filter.Date = dateFilter
		}
	}

	if typeRaw, present := values["type"]; present {
		if fieldErr := validation.NotNull(typeRaw, "filter.type"); fieldErr != nil {
			results = append(results, fieldErr)
		} else if typeValues, ok := typeRaw.(map[string]interface{}); ok {
			typeFilter := &page.TypeFilter{}
			for _, op := range []string{"eq", "ne"} {
				value, present := typeValues[op]
				if !present {
					continue
				}
				if fieldErr := validation.NotNull(value, "filter.type."+op); fieldErr != nil {
					results = append(results, fieldErr)
					continue
				}
				s, _ := value.(string)
				t := page.Type(s)
				if op == "eq" {
					typeFilter.Eq = &t
				} else {
					typeFilter.Ne = &t
				}
			}
			for _, op := range []string{"in", "nin"} {
				value, present := typeValues[op]
				if !present {
					continue
				}
				field := "filter.type." + op
				if fieldErr := validation.NotEmpty(value, field); fieldErr != nil {
					results = append(results, fieldErr)
					continue
				}
				members := toTypeList(value)
				if op == "in" {
					typeFilter.In = members
				} else {
					typeFilter.Nin = members
				}
			}
			filter.Type = typeFilter
		}
	}

	if filter.Date == nil && filter.Type == nil {
		return nil, results
	}
	return filter, results
}

func toTypeList(value interface{}) []page.Type {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	types := make([]page.Type, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			types = append(types, page.Type(s))
		}
	}
	return types
}

func parseSort(raw interface{}) *page.Sort {
	values, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	field, _ := values["field"].(string)
	order, _ := values["order"].(string)
	if field == "" {
		return nil
	}
	return &page.Sort{
		Field: page.SortField(field),
		Order: page.SortOrder(order),
	}
}
