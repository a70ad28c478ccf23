// Package model contains domain models passed between layers.
package model

import "fmt"

// DocumentKind identifies one of the four supported document types.
type DocumentKind string

// Supported document kinds.
const (
	KindCIN            DocumentKind = "CIN"
	KindPaySlip        DocumentKind = "PAY_SLIP"
	KindTaxDeclaration DocumentKind = "TAX_DECLARATION"
	KindBankStatement  DocumentKind = "BANK_STATEMENT"
)

// Kinds lists every supported document kind in a stable order.
func Kinds() []DocumentKind {
	return []DocumentKind{KindCIN, KindPaySlip, KindTaxDeclaration, KindBankStatement}
}

// ParseKind validates and normalizes a document kind string.
func ParseKind(s string) (DocumentKind, error) {
	switch DocumentKind(s) {
	case KindCIN, KindPaySlip, KindTaxDeclaration, KindBankStatement:
		return DocumentKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DocumentStatus is the terminal classification of one document
// instance, assigned once at analysis time.
type DocumentStatus string

// Document statuses.
const (
	StatusValid      DocumentStatus = "VALID"
	StatusSuspicious DocumentStatus = "SUSPICIOUS"
	StatusInvalid    DocumentStatus = "INVALID"
	StatusIncomplete DocumentStatus = "INCOMPLETE"
)

// Statuses lists every document status in a stable order. The order
// doubles as the label encoding for the model layer.
func Statuses() []DocumentStatus {
	return []DocumentStatus{StatusValid, StatusSuspicious, StatusInvalid, StatusIncomplete}
}
