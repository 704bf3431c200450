package catalog

import (
	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

type materialKey struct {
	technology enums.Technology
	key        string
}

// snapshot is an immutable point-in-time view of the catalog. All pricing
// for one request runs against a single snapshot so admin edits mid-flight
// cannot produce mixed results.
type snapshot struct {
	materials map[materialKey]pricing.Material
	finishes  map[string]pricing.Finish
	minimum   pricing.MinimumPriceRule
}

func newSnapshot(materials []models.Material, finishes []models.Finish, minimum pricing.MinimumPriceRule) *snapshot {
	s := &snapshot{
		materials: make(map[materialKey]pricing.Material, len(materials)),
		finishes:  make(map[string]pricing.Finish, len(finishes)),
		minimum:   minimum,
	}
	for _, m := range materials {
		s.materials[materialKey{technology: m.Technology, key: m.MaterialKey}] = pricing.Material{
			Technology:   m.Technology,
			MaterialKey:  m.MaterialKey,
			DisplayName:  m.DisplayName,
			DensityGCC:   m.DensityGCC,
			PricePerGram: m.PricePerGram,
		}
	}
	for _, f := range finishes {
		s.finishes[f.FinishKey] = pricing.Finish{
			FinishKey:      f.FinishKey,
			DisplayName:    f.DisplayName,
			CostMultiplier: f.CostMultiplier,
		}
	}
	return s
}

func (s *snapshot) LookupMaterial(technology enums.Technology, key string) (pricing.Material, bool) {
	material, ok := s.materials[materialKey{technology: technology, key: key}]
	return material, ok
}

func (s *snapshot) LookupFinish(key string) (pricing.Finish, bool) {
	finish, ok := s.finishes[key]
	return finish, ok
}

func (s *snapshot) MinimumPrice() pricing.MinimumPriceRule {
	return s.minimum
}
