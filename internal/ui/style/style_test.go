package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/ui/style"
)

func TestOutcomeIcon(t *testing.T) {
	assert.Equal(t, style.Check, style.OutcomeIcon(domain.OutcomeBuilt))
	assert.Equal(t, style.Tilde, style.OutcomeIcon(domain.OutcomeUpToDate))
	assert.Equal(t, style.Tilde, style.OutcomeIcon(domain.OutcomeSource))
	assert.Equal(t, style.Circle, style.OutcomeIcon(domain.OutcomeSkipped))
	assert.Equal(t, style.Cross, style.OutcomeIcon(domain.OutcomeFailed))
}
