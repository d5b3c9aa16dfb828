package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeRetryBackoff(t *testing.T) {
	assert.Equal(t, 1*time.Minute, computeRetryBackoff(1))
	assert.Equal(t, 2*time.Minute, computeRetryBackoff(2))
	assert.Equal(t, 4*time.Minute, computeRetryBackoff(3))
	assert.Equal(t, 8*time.Minute, computeRetryBackoff(4))
	assert.Equal(t, 16*time.Minute, computeRetryBackoff(5))
	// tope de 30 minutos
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(6))
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(12))
	// valores fuera de rango se tratan como primer intento
	assert.Equal(t, 1*time.Minute, computeRetryBackoff(0))
}
