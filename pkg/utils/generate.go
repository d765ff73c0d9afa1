package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBookingReference builds a human-readable booking code.
// Format: BK-YYYYMMDD-XXXXXX
func GenerateBookingReference() string {
	datePart := time.Now().Format("20060102")

	randomPart := make([]byte, 6)
	for i := range randomPart {
		randomPart[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}

	return fmt.Sprintf("BK-%s-%s", datePart, randomPart)
}

// GeneratePaymentIntentID builds a gateway intent identifier.
func GeneratePaymentIntentID() string {
	return fmt.Sprintf("pi_%s", uuid.NewString())
}
