package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratePaymentID returns a PAY_<millis>_<random> transaction reference.
func GeneratePaymentID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("PAY_%d_%s", time.Now().UnixMilli(), suffix)
}

// GenerateHoldID identifies one checkout's seat holds.
func GenerateHoldID() string {
	return uuid.NewString()
}
