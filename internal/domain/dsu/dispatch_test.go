// internal/domain/dsu/dispatch_test.go
package dsu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchEventDelivered(t *testing.T) {
	assert.True(t, DispatchEvent{Outcome: OutcomeSent}.Delivered())
	assert.True(t, DispatchEvent{Outcome: OutcomeThreadFailed}.Delivered(),
		"thread failure must not retract a successful send")
	assert.False(t, DispatchEvent{Outcome: OutcomeSendFailed}.Delivered())
	assert.False(t, DispatchEvent{}.Delivered())
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Morning", KindMorning.Title())
	assert.Equal(t, "Evening", KindEvening.Title())
	assert.Equal(t, "adhoc", Kind("adhoc").Title())
}
