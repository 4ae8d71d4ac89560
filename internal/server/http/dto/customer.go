package dto

import "github.com/polkiloo/membership/internal/domain/model"

// ErrorResponse carries a human readable failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QRResponse holds the payload rendered into a membership card QR code.
type QRResponse struct {
	QRValue string `json:"qrValue"`
}

// VerifyResponse is the public result of scanning a membership card.
type VerifyResponse struct {
	Valid    bool            `json:"valid"`
	Expired  bool            `json:"expired"`
	DaysLeft int             `json:"daysLeft"`
	Customer *model.Customer `json:"customer,omitempty"`
	Error    string          `json:"error,omitempty"`
}
