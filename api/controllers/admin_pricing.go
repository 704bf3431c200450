package controllers

import (
	"net/http"

	"github.com/dhruvpatel3d/printquote-backend/api/responses"
	"github.com/dhruvpatel3d/printquote-backend/api/validators"
	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

type slabsPayload struct {
	Slabs []pricing.Slab `json:"slabs" validate:"required"`
}

// AdminGetSlabs returns the configured volume-discount tiers.
func AdminGetSlabs(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		slabs, err := svc.Slabs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slabsPayload{Slabs: slabs})
	}
}

func AdminPutSlabs(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body slabsPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutSlabs(r.Context(), body.Slabs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

func AdminGetRegularDiscount(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		discount, err := svc.RegularDiscount(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

func AdminPutRegularDiscount(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body pricing.RegularDiscount
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutRegularDiscount(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

func AdminGetTaxRates(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		rates, err := svc.TaxRates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rates)
	}
}

func AdminPutTaxRates(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body pricing.TaxRates
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutTaxRates(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

func AdminGetMinimumPrice(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		rule, err := svc.MinimumPrice(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

func AdminPutMinimumPrice(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body pricing.MinimumPriceRule
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutMinimumPrice(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

func AdminGetCharges(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		charges, err := svc.Charges(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, charges)
	}
}

func AdminPutCharges(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body pricing.Charges
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutCharges(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

func AdminGetBankDetails(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		details, err := svc.BankDetails(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

func AdminPutBankDetails(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body settings.BankDetails
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.PutBankDetails(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}
