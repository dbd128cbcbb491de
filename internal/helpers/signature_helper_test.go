package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDeliverySignatureRoundTrip(t *testing.T) {
	orderID, transactionID, deliveryID := uuid.New(), uuid.New(), uuid.New()

	signature := GenerateDeliverySignature(orderID, transactionID, deliveryID, "secret")
	assert.True(t, VerifyDeliverySignature(orderID, transactionID, deliveryID, "secret", signature))

	assert.False(t, VerifyDeliverySignature(orderID, transactionID, deliveryID, "other-secret", signature))
	assert.False(t, VerifyDeliverySignature(uuid.New(), transactionID, deliveryID, "secret", signature))
	assert.False(t, VerifyDeliverySignature(orderID, transactionID, deliveryID, "secret", "deadbeef"))
}
