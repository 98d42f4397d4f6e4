// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package pool

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishalsx/identify-objects/internal/platform/constants"
	"github.com/vishalsx/identify-objects/internal/platform/ctxutil"
	"github.com/vishalsx/identify-objects/internal/platform/respond"
	"github.com/vishalsx/identify-objects/internal/tenant"
	"github.com/vishalsx/identify-objects/pkg/pagination"
	"github.com/vishalsx/identify-objects/pkg/query"
)

// Handler implements the HTTP layer for the object pool.
type Handler struct {
	poolService *Service
}

// NewHandler constructs a new pool [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{poolService: service}
}

// Routes returns a [chi.Router] configured with the pool endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/pool", handler.getPool)

	return router
}

/*
GET /api/v1/objects/pool.

Description: Returns one page of the object pool. With `search_query` set
the page is ranked by hybrid-search relevance and paged by `skip`; without
it the page is the popularity-ordered discovery feed, paged by the
`last_object_id` cursor.

Query parameters:
  - search_query: free text, switches to search mode
  - language: target language for object-name resolution
  - languages: comma-separated override of the allowed-language set
  - limit, skip, last_object_id: paging
  - use_vector_search: enables the vector strategy (default true)

Response:
  - 200: [Item] page with pagination metadata
  - 400: ErrValidation: malformed last_object_id cursor
  - 503: ErrStoreUnavailable: document store unreachable
*/
func (handler *Handler) getPool(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetClaims(request.Context())
	scope := tenant.FromClaims(claims)
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	languages := query.StringSlice(values.Get("languages"))
	if claims != nil && len(claims.LanguagesAllowed) > 0 {
		// Token claims are authoritative over the query parameter.
		languages = claims.LanguagesAllowed
	}
	if len(languages) == 0 {
		languages = []string{constants.DefaultLanguage}
	}

	input := QueryInput{
		SearchQuery:    values.Get("search_query"),
		TargetLanguage: values.Get("language"),
		Languages:      languages,
		Limit:          params.Limit,
		Skip:           params.Skip,
		LastID:         params.LastID,
		UseVector:      query.Bool(values.Get("use_vector_search"), true),
	}

	result, err := handler.poolService.Query(request.Context(), scope, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.Meta{
		Limit:   params.Limit,
		Total:   result.Total,
		HasMore: result.HasMore,
	})
}
