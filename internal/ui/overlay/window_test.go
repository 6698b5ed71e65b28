package overlay

import (
	"testing"

	"pomo/internal/core/model"
	"pomo/internal/core/session"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	config := model.DefaultConfig()

	title, subtitle := Message(session.State{
		AlarmActive: true,
		Pending:     model.SessionWork,
		Next:        model.SessionBreak,
		Config:      config,
	})
	assert.Equal(t, "Work session finished", title)
	assert.Equal(t, "Next up: break (5:00)", subtitle)

	_, subtitle = Message(session.State{
		AlarmActive: true,
		Pending:     model.SessionWork,
		Next:        model.SessionLongBreak,
		Config:      config,
	})
	assert.Equal(t, "Next up: long break (30:00)", subtitle)

	title, subtitle = Message(session.State{
		AlarmActive: true,
		Pending:     model.SessionBreak,
		Next:        model.SessionWork,
		Config:      config,
	})
	assert.Equal(t, "Break session finished", title)
	assert.Equal(t, "Next up: work (25:00)", subtitle)
}
