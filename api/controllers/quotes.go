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
)

// QuoteSummary returns the live breakdown for a draft session.
func QuoteSummary(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("sessionId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sessionId is required"))
			return
		}
		sessionID, err := validators.ParseUUIDParam(raw, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// QuotePeekNumber reports the next quotation number without consuming it.
func QuotePeekNumber(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		number, err := svc.PeekNumber(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"nextNumber": number})
	}
}

// QuoteGenerate freezes the session into a numbered quotation.
func QuoteGenerate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		var body quotes.GenerateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Generate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quotation)
	}
}

// QuotePDF streams the rendered quotation document.
func QuotePDF(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
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

		data, err := svc.RenderPDF(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, number+".pdf", data)
	}
}
