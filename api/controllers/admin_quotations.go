package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dhruvpatel3d/printquote-backend/api/responses"
	"github.com/dhruvpatel3d/printquote-backend/api/validators"
	"github.com/dhruvpatel3d/printquote-backend/internal/quotes"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
	"github.com/dhruvpatel3d/printquote-backend/pkg/pagination"
)

// AdminListQuotations pages through generated quotations, newest first.
func AdminListQuotations(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), quotes.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminGetQuotation fetches one quotation by number.
func AdminGetQuotation(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "number"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quotation number is required"))
			return
		}

		quotation, err := svc.GetByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotation)
	}
}

// AdminDeleteQuotation removes a quotation by number.
func AdminDeleteQuotation(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "number"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quotation number is required"))
			return
		}

		if err := svc.DeleteByNumber(r.Context(), number); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
