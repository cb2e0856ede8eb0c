package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteChannel(t *testing.T) {
	assert.Equal(t, "operator", routeChannel("/api/v1/hosts"))
	assert.Equal(t, "operator", routeChannel("/api/v1/alerts/1/ack"))
	assert.Equal(t, "system", routeChannel("/health"))
	assert.Equal(t, "system", routeChannel("/metrics"))
	assert.Equal(t, "system", routeChannel("/swagger/index.html"))
	assert.Equal(t, "agent", routeChannel("/agent/update"))
	assert.Equal(t, "agent", routeChannel("/historical"))
}
