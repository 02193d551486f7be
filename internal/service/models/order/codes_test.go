package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	number := NewOrderNumber("ORD", now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20250615-[0-9A-Z]{4}$`), number)
}

func TestNewDeliveryCode(t *testing.T) {
	code := NewDeliveryCode()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{8}$`), code)
	assert.NotEqual(t, code, NewDeliveryCode())
}
