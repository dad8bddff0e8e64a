package interview

import (
	"testing"

	core "github.com/adityadeoche/interview-iq-ai-sub000/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"

	"github.com/stretchr/testify/assert"
)

// The orchestrator writes these status strings; the model constants and the
// registration approval set must carry the exact same values.
func TestTerminalStatusValuesAgree(t *testing.T) {
	assert.Equal(t, core.RecordStatusCompleted, StatusCompleted)
	assert.Equal(t, core.RecordStatusScreenedOut, StatusScreenedOut)

	assert.Equal(t, StatusCompleted, models.RegistrationCompleted)
	assert.Equal(t, StatusScreenedOut, models.RegistrationScreenedOut)
}
