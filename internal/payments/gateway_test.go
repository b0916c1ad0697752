package payments

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway() *SignedGateway {
	return NewSignedGateway(Config{
		MerchantLogin: "workhub",
		Password1:     "pass-one",
		Password2:     "pass-two",
		BaseURL:       "https://pay.example.com/checkout",
		Currency:      "INR",
	})
}

func TestCreateOrder_SignsCheckoutURL(t *testing.T) {
	g := testGateway()

	order, err := g.CreateOrder(499.50, "Pro plan", "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, 499.50, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)

	parsed, err := url.Parse(order.PaymentURL)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "workhub", q.Get("MrchLogin"))
	assert.Equal(t, "499.50", q.Get("OutSum"))
	assert.Equal(t, order.OrderID, q.Get("InvId"))

	plain := fmt.Sprintf("workhub:%.2f:%s:pass-one", 499.50, order.OrderID)
	sum := md5.Sum([]byte(plain))
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(sum[:])), q.Get("SignatureValue"))
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	g := testGateway()
	_, err := g.CreateOrder(0, "free?", "jane@example.com")
	assert.Error(t, err)
	_, err = g.CreateOrder(-10, "refund?", "jane@example.com")
	assert.Error(t, err)
}

func TestVerifyResultSignature(t *testing.T) {
	g := testGateway()

	plain := fmt.Sprintf("%.2f:%s:pass-two", 499.50, "order-1")
	sum := md5.Sum([]byte(plain))
	sig := strings.ToUpper(hex.EncodeToString(sum[:]))

	assert.True(t, g.VerifyResultSignature(499.50, "order-1", sig))
	assert.True(t, g.VerifyResultSignature(499.50, "order-1", strings.ToLower(sig)), "case-insensitive comparison")

	assert.False(t, g.VerifyResultSignature(499.50, "order-1", "FORGED"))
	assert.False(t, g.VerifyResultSignature(100.00, "order-1", sig), "amount is covered by the signature")
	assert.False(t, g.VerifyResultSignature(499.50, "order-2", sig), "order id is covered by the signature")
}
