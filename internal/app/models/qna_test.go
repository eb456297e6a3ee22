package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSessionStatus(t *testing.T) {
	assert.Equal(t, SessionLive, NextSessionStatus(SessionScheduled))
	assert.Equal(t, SessionEnded, NextSessionStatus(SessionLive))

	// Ended is terminal
	assert.Equal(t, SessionStatus(""), NextSessionStatus(SessionEnded))
	assert.Equal(t, SessionStatus(""), NextSessionStatus(SessionStatus("bogus")))
}
