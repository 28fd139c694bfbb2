package qr

import (
	"github.com/skip2/go-qrcode"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
)

const imageSize = 256

// EncodePayload renders a token payload as a QR code PNG for display.
func EncodePayload(p token.Payload) ([]byte, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, imageSize)
}
