package payments

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Order is the gateway's view of a created payment order.
type Order struct {
	OrderID    string  `json:"order_id"`
	PaymentURL string  `json:"payment_url"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
}

// Gateway creates signed payment orders and verifies result callbacks.
type Gateway interface {
	CreateOrder(amount float64, description, email string) (*Order, error)
	VerifyResultSignature(amount float64, orderID, receivedSig string) bool
	Currency() string
}

type Config struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	Currency      string
}

// SignedGateway builds a hosted-checkout URL with an MD5 request signature,
// the scheme the payment provider expects.
type SignedGateway struct {
	cfg Config
}

func NewSignedGateway(cfg Config) *SignedGateway {
	return &SignedGateway{cfg: cfg}
}

func (g *SignedGateway) Currency() string {
	return g.cfg.Currency
}

func (g *SignedGateway) CreateOrder(amount float64, description, email string) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid order amount: %.2f", amount)
	}

	orderID := uuid.NewString()
	signature := g.requestSignature(orderID, amount)

	params := url.Values{}
	params.Set("MrchLogin", g.cfg.MerchantLogin)
	params.Set("OutSum", fmt.Sprintf("%.2f", amount))
	params.Set("InvId", orderID)
	params.Set("Desc", description)
	params.Set("SignatureValue", signature)
	params.Set("Email", email)
	params.Set("IncCurrLabel", g.cfg.Currency)

	return &Order{
		OrderID:    orderID,
		PaymentURL: fmt.Sprintf("%s?%s", g.cfg.BaseURL, params.Encode()),
		Amount:     amount,
		Currency:   g.cfg.Currency,
		Status:     "created",
	}, nil
}

func (g *SignedGateway) requestSignature(orderID string, amount float64) string {
	plain := fmt.Sprintf("%s:%.2f:%s:%s", g.cfg.MerchantLogin, amount, orderID, g.cfg.Password1)
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// VerifyResultSignature checks the signature the gateway sends on payment
// callbacks.
func (g *SignedGateway) VerifyResultSignature(amount float64, orderID, receivedSig string) bool {
	plain := fmt.Sprintf("%.2f:%s:%s", amount, orderID, g.cfg.Password2)
	hash := md5.Sum([]byte(plain))
	expected := strings.ToUpper(hex.EncodeToString(hash[:]))
	return strings.EqualFold(expected, receivedSig)
}
