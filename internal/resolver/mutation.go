package resolver

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"pagesnap/internal/apperror"
	"pagesnap/internal/page"
	"pagesnap/internal/planner"
	"pagesnap/internal/validation"
)

const (
	statusSuccess = "SUCCESS"
	statusError   = "ERROR"
)

func successResult(p *page.Page) map[string]interface{} {
	return map[string]interface{}{
		"status": statusSuccess,
		"id":     p.ID,
		"page":   p,
	}
}

func errorResult(err error) map[string]interface{} {
	return map[string]interface{}{
		"status": statusError,
		"error":  apperror.Wrap(err).Message,
	}
}

// resolveCreatePage renders and stores the artifact first; the row is
// only inserted once a stored artifact exists for it to reference.
func (r *Resolver) resolveCreatePage(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})
	site, _ := input["site"].(string)
	pageType := page.Type(input["type"].(string))

	if err := validation.Validate([]*apperror.FieldError{
		validation.URL(site, "input.site"),
	}); err != nil {
		return errorResult(err), nil
	}

	data, err := r.renderer.Render(p.Context, site, pageType)
	if err != nil {
		r.logger.ErrorContext(p.Context, "render failed", "site", site, "error", err)
		return errorResult(err), nil
	}

	key, err := r.store.UploadNew(p.Context, data, site, pageType)
	if err != nil {
		r.logger.ErrorContext(p.Context, "artifact upload failed", "site", site, "error", err)
		return errorResult(err), nil
	}

	created, err := r.repo.CreatePage(p.Context, uuid.NewString(), page.CreateInput{Site: site, Type: pageType}, key)
	if err != nil {
		return errorResult(err), nil
	}

	r.logger.InfoContext(p.Context, "page created", "id", created.ID, "site", site, "type", string(pageType))
	return successResult(created), nil
}

// resolveUpdatePage re-renders from the merged existing and incoming
// fields, replaces the artifact under its existing key, and then writes
// the changed columns.
func (r *Resolver) resolveUpdatePage(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	input, _ := p.Args["input"].(map[string]interface{})

	var results []*apperror.FieldError
	results = append(results, validation.UUID(id, "id"))
	results = append(results, validation.NotEmpty(input, "input"))

	siteRaw, sitePresent := input["site"]
	if sitePresent {
		if fieldErr := validation.NotNull(siteRaw, "input.site"); fieldErr != nil {
			results = append(results, fieldErr)
		} else {
			results = append(results, validation.URL(siteRaw, "input.site"))
		}
	}
	typeRaw, typePresent := input["type"]
	if typePresent {
		results = append(results, validation.NotNull(typeRaw, "input.type"))
	}

	if err := validation.Validate(results); err != nil {
		return errorResult(err), nil
	}

	existing, err := r.repo.GetPage(p.Context, id)
	if err != nil {
		return errorResult(err), nil
	}

	site := existing.Site
	if sitePresent {
		site = siteRaw.(string)
	}
	pageType := existing.Type
	if typePresent {
		pageType = page.Type(typeRaw.(string))
	}

	data, err := r.renderer.Render(p.Context, site, pageType)
	if err != nil {
		r.logger.ErrorContext(p.Context, "render failed", "site", site, "error", err)
		return errorResult(err), nil
	}
	if err := r.store.UploadNewVersion(p.Context, data, pageType, existing.File); err != nil {
		r.logger.ErrorContext(p.Context, "artifact upload failed", "key", existing.File, "error", err)
		return errorResult(err), nil
	}

	fields := planner.NewFieldSet()
	if sitePresent {
		fields.SetSite(site)
	}
	if typePresent {
		fields.SetType(string(pageType))
	}

	updated, err := r.repo.UpdatePage(p.Context, id, fields)
	if err != nil {
		return errorResult(err), nil
	}

	r.logger.InfoContext(p.Context, "page updated", "id", id)
	return successResult(updated), nil
}

// resolveDeletePage removes the row first; the row is the source of
// truth, so the artifact delete afterwards is best effort.
func (r *Resolver) resolveDeletePage(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	if err := validation.Validate([]*apperror.FieldError{
		validation.UUID(id, "id"),
	}); err != nil {
		return errorResult(err), nil
	}

	deleted, err := r.repo.DeletePage(p.Context, id)
	if err != nil {
		return errorResult(err), nil
	}

	if err := r.store.Delete(p.Context, deleted.File); err != nil {
		r.logger.WarnContext(p.Context, "artifact delete failed", "key", deleted.File, "error", err)
	}

	r.logger.InfoContext(p.Context, "page deleted", "id", id)
	return successResult(deleted), nil
}
