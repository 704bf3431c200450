package enums

// QuotationStatus tracks the lifecycle of a generated quotation.
type QuotationStatus string

const (
	QuotationStatusGenerated QuotationStatus = "generated"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusCancelled QuotationStatus = "cancelled"
)

func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusGenerated, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusCancelled:
		return true
	}
	return false
}

func (s QuotationStatus) String() string {
	return string(s)
}
