package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"ms-busbooking/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestWriterLogger_FormatsCategory(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriterLogger(&buf)

	log.LogBooking("CREATE", "BK1", "seats 1A")
	log.LogIntegrity("route", "R1", "referenced by SCD1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "[BOOKING")
	assert.Contains(t, lines[0], "[CREATE] BK1 - seats 1A")
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[1], "[INTEGRITY")
}

func TestNilLogger_IsSilent(t *testing.T) {
	var log *logger.Logger
	assert.NotPanics(t, func() { log.Info("API", "ignored") })
}
