package quotes

import (
	"context"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

// Mailer delivers a generated quotation to the client. Actual SMTP/provider
// integration lives behind this interface; the default implementation only
// logs.
type Mailer interface {
	SendQuotation(ctx context.Context, to string, quotation *models.Quotation) error
}

type logMailer struct {
	logg *logger.Logger
}

// NewLogMailer returns a mailer that records the delivery intent without
// sending anything.
func NewLogMailer(logg *logger.Logger) Mailer {
	return &logMailer{logg: logg}
}

func (m *logMailer) SendQuotation(ctx context.Context, to string, quotation *models.Quotation) error {
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{
			"to":               to,
			"quotation_number": quotation.Number,
		})
		m.logg.Info(ctx, "mail delivery disabled, skipping quotation email")
	}
	return nil
}
