package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"ms-busbooking/internal/models"

	"github.com/skip2/go-qrcode"
)

var ErrInvalidPayload = errors.New("invalid boarding pass payload")

// BoardingPass is what the QR code carries, encrypted.
type BoardingPass struct {
	BookingID     string   `json:"bookingId"`
	ScheduleID    string   `json:"scheduleId"`
	CustomerName  string   `json:"customerName"`
	Route         string   `json:"route"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	Seats         []string `json:"seats"`
	PaymentID     string   `json:"paymentId"`
}

// NewBoardingPass joins a booking with its schedule and route for printing.
func NewBoardingPass(b models.Booking, s models.Schedule, r models.Route) BoardingPass {
	return BoardingPass{
		BookingID:     b.BookingID,
		ScheduleID:    b.ScheduleID,
		CustomerName:  b.CustomerName,
		Route:         r.Label(),
		DepartureDate: s.DepartureDate,
		DepartureTime: s.DepartureTime,
		Seats:         b.SeatsBooked,
		PaymentID:     b.PaymentID,
	}
}

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// Token returns the encrypted, URL-safe form of the pass.
func (q *QRGenerator) Token(pass BoardingPass) (string, error) {
	data, err := json.Marshal(pass)
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// GeneratePNG renders the encrypted pass as a 256px QR code.
func (q *QRGenerator) GeneratePNG(pass BoardingPass) ([]byte, error) {
	token, err := q.Token(pass)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(token, qrcode.Medium, 256)
}

// Decode reverses Token; used at boarding to verify a scanned code.
func (q *QRGenerator) Decode(token string) (BoardingPass, error) {
	data, err := decryptAES(token, q.secret)
	if err != nil {
		return BoardingPass{}, err
	}
	var pass BoardingPass
	if err := json.Unmarshal(data, &pass); err != nil {
		return BoardingPass{}, ErrInvalidPayload
	}
	return pass, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// encryptAES seals data with AES-GCM; the nonce is prepended.
func encryptAES(data []byte, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// decryptAES fails with ErrInvalidPayload on any tampered or foreign token.
func decryptAES(token string, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	sealed, err := base64.URLEncoding.DecodeString(token)
	if err != nil || len(sealed) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrInvalidPayload
	}

	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	return plain, nil
}
