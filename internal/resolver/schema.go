package resolver

import (
	"github.com/graphql-go/graphql"

	"pagesnap/internal/apperror"
	"pagesnap/internal/middleware"
	"pagesnap/internal/page"
	"pagesnap/internal/scalars"
)

// Schema assembles the executable GraphQL schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	dateScalar := scalars.Date()
	urlScalar := scalars.URL()
	uuidScalar := scalars.UUID()

	pageTypeEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "PageTypeEnum",
		Values: graphql.EnumValueConfigMap{
			"PDF":  &graphql.EnumValueConfig{Value: string(page.TypePDF)},
			"PNG":  &graphql.EnumValueConfig{Value: string(page.TypePNG)},
			"JPEG": &graphql.EnumValueConfig{Value: string(page.TypeJPEG)},
			"WEBP": &graphql.EnumValueConfig{Value: string(page.TypeWEBP)},
		},
	})

	sortFieldEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "PageSortField",
		Values: graphql.EnumValueConfigMap{
			"DATE": &graphql.EnumValueConfig{Value: string(page.SortByDate)},
			"FILE": &graphql.EnumValueConfig{Value: string(page.SortByFile)},
			"SITE": &graphql.EnumValueConfig{Value: string(page.SortBySite)},
			"TYPE": &graphql.EnumValueConfig{Value: string(page.SortByType)},
		},
	})

	sortOrderEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "SortOrder",
		Values: graphql.EnumValueConfigMap{
			"ASC":  &graphql.EnumValueConfig{Value: string(page.SortAsc)},
			"DESC": &graphql.EnumValueConfig{Value: string(page.SortDesc)},
		},
	})

	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "Status",
		Values: graphql.EnumValueConfigMap{
			"SUCCESS": &graphql.EnumValueConfig{Value: statusSuccess},
			"ERROR":   &graphql.EnumValueConfig{Value: statusError},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Page",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(uuidScalar),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*page.Page).ID, nil
				},
			},
			"type": &graphql.Field{
				Type: graphql.NewNonNull(pageTypeEnum),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*page.Page).Type), nil
				},
			},
			"date": &graphql.Field{
				Type: graphql.NewNonNull(dateScalar),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*page.Page).Date, nil
				},
			},
			"site": &graphql.Field{
				Type: graphql.NewNonNull(urlScalar),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*page.Page).Site, nil
				},
			},
			// The stored value is an opaque storage key; clients get a URL
			// on this server that redirects to the artifact.
			"file": &graphql.Field{
				Type: graphql.NewNonNull(urlScalar),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin := middleware.OriginFromContext(p.Context)
					return origin + "/file/" + p.Source.(*page.Page).File, nil
				},
			},
		},
	})

	pageEdgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageEdge",
		Fields: graphql.Fields{
			"cursor": &graphql.Field{
				Type: graphql.NewNonNull(uuidScalar),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(page.Edge).Cursor, nil
				},
			},
			"node": &graphql.Field{
				Type: graphql.NewNonNull(pageType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(page.Edge).Node, nil
				},
			},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(page.PageInfo).HasNextPage, nil
				},
			},
			"hasPreviousPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(page.PageInfo).HasPreviousPage, nil
				},
			},
			"startCursor": &graphql.Field{
				Type: uuidScalar,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if cursor := p.Source.(page.PageInfo).StartCursor; cursor != nil {
						return *cursor, nil
					}
					return nil, nil
				},
			},
			"endCursor": &graphql.Field{
				Type: uuidScalar,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if cursor := p.Source.(page.PageInfo).EndCursor; cursor != nil {
						return *cursor, nil
					}
					return nil, nil
				},
			},
		},
	})

	pagesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Pages",
		Fields: graphql.Fields{
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(pageEdgeType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*page.Connection).Edges, nil
				},
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(pageInfoType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*page.Connection).PageInfo, nil
				},
			},
		},
	})

	inputFieldErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InputFieldError",
		Fields: graphql.Fields{
			"field": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(apperror.FieldError).Field, nil
				},
			},
			"message": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(apperror.FieldError).Message, nil
				},
			},
		},
	})

	errorMessageField := &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*apperror.Error).Message, nil
		},
	}

	invalidInputErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InvalidInputError",
		Fields: graphql.Fields{
			"message": errorMessageField,
			"validations": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(inputFieldErrorType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*apperror.Error).Fields, nil
				},
			},
		},
	})

	notFoundErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NotFoundError",
		Fields: graphql.Fields{
			"message": errorMessageField,
		},
	})

	unknownErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UnknownError",
		Fields: graphql.Fields{
			"message": errorMessageField,
		},
	})

	errorObjectFor := func(err *apperror.Error) *graphql.Object {
		switch err.Kind {
		case apperror.KindNotFound:
			return notFoundErrorType
		case apperror.KindInvalidInput:
			return invalidInputErrorType
		default:
			return unknownErrorType
		}
	}

	pageResultUnion := graphql.NewUnion(graphql.UnionConfig{
		Name:  "PageResult",
		Types: []*graphql.Object{pageType, invalidInputErrorType, notFoundErrorType, unknownErrorType},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch value := p.Value.(type) {
			case *page.Page:
				return pageType
			case *apperror.Error:
				return errorObjectFor(value)
			default:
				return nil
			}
		},
	})

	pagesResultUnion := graphql.NewUnion(graphql.UnionConfig{
		Name:  "PagesResult",
		Types: []*graphql.Object{pagesType, invalidInputErrorType, notFoundErrorType, unknownErrorType},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch value := p.Value.(type) {
			case *page.Connection:
				return pagesType
			case *apperror.Error:
				return errorObjectFor(value)
			default:
				return nil
			}
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Result",
		Fields: graphql.Fields{
			"status": &graphql.Field{Type: graphql.NewNonNull(statusEnum)},
			"id":     &graphql.Field{Type: uuidScalar},
			"page":   &graphql.Field{Type: pageType},
			"error":  &graphql.Field{Type: graphql.String},
		},
	})

	dateFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "DateFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"gt":  &graphql.InputObjectFieldConfig{Type: dateScalar},
			"gte": &graphql.InputObjectFieldConfig{Type: dateScalar},
			"lt":  &graphql.InputObjectFieldConfig{Type: dateScalar},
			"lte": &graphql.InputObjectFieldConfig{Type: dateScalar},
		},
	})

	typeFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PageTypeFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"eq":  &graphql.InputObjectFieldConfig{Type: pageTypeEnum},
			"ne":  &graphql.InputObjectFieldConfig{Type: pageTypeEnum},
			"in":  &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(pageTypeEnum))},
			"nin": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(pageTypeEnum))},
		},
	})

	pageFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PageFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"date": &graphql.InputObjectFieldConfig{Type: dateFilterInput},
			"type": &graphql.InputObjectFieldConfig{Type: typeFilterInput},
		},
	})

	pageSortInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PageSortInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"field": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(sortFieldEnum)},
			"order": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(sortOrderEnum)},
		},
	})

	createPageInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"site": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(urlScalar)},
			"type": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(pageTypeEnum)},
		},
	})

	updatePageInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdatePageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"site": &graphql.InputObjectFieldConfig{Type: urlScalar},
			"type": &graphql.InputObjectFieldConfig{Type: pageTypeEnum},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"page": &graphql.Field{
				Type: pageResultUnion,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidScalar)},
				},
				Resolve: r.resolvePage,
			},
			"pages": &graphql.Field{
				Type: pagesResultUnion,
				Args: graphql.FieldConfigArgument{
					"first":  &graphql.ArgumentConfig{Type: graphql.Int},
					"last":   &graphql.ArgumentConfig{Type: graphql.Int},
					"after":  &graphql.ArgumentConfig{Type: uuidScalar},
					"before": &graphql.ArgumentConfig{Type: uuidScalar},
					"filter": &graphql.ArgumentConfig{Type: pageFilterInput},
					"sort":   &graphql.ArgumentConfig{Type: pageSortInput},
				},
				Resolve: r.resolvePages,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPage": &graphql.Field{
				Type: resultType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createPageInput)},
				},
				Resolve: r.resolveCreatePage,
			},
			"updatePage": &graphql.Field{
				Type: resultType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidScalar)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updatePageInput)},
				},
				Resolve: r.resolveUpdatePage,
			},
			"deletePage": &graphql.Field{
				Type: resultType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidScalar)},
				},
				Resolve: r.resolveDeletePage,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
