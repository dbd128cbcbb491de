package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateDeliverySignature signs the identifiers printed on a delivery
// label, so a scanned label can be tied back to a real order.
func GenerateDeliverySignature(orderID, transactionID, deliveryID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", orderID.String(), transactionID.String(), deliveryID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func VerifyDeliverySignature(orderID, transactionID, deliveryID uuid.UUID, secretKey, signature string) bool {
	expected := GenerateDeliverySignature(orderID, transactionID, deliveryID, secretKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}
