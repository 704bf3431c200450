package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dhruvpatel3d/printquote-backend/api/responses"
	"github.com/dhruvpatel3d/printquote-backend/api/validators"
	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

// CreateLine registers an uploaded file as a draft order line.
func CreateLine(svc orderlines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order lines service unavailable"))
			return
		}

		var body orderlines.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

// UpdateLine patches line options and reprices the line.
func UpdateLine(svc orderlines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order lines service unavailable"))
			return
		}

		lineID, err := validators.ParseUUIDParam(chi.URLParam(r, "lineId"), "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderlines.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.Update(r.Context(), lineID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func DeleteLine(svc orderlines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order lines service unavailable"))
			return
		}

		lineID, err := validators.ParseUUIDParam(chi.URLParam(r, "lineId"), "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// RefreshLines synchronously re-measures every still-estimated line in the
// session, repricing the ones whose volume changes.
func RefreshLines(svc orderlines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order lines service unavailable"))
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

		refined, err := svc.RefineSession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"refinedLines": refined})
	}
}

// ListLines returns all draft lines for the requested session.
func ListLines(svc orderlines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order lines service unavailable"))
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

		lines, err := svc.ListBySession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}
