package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
)

func newService(t *testing.T) (*Service, *bus.Bus) {
	t.Helper()
	store, err := db.Open(t.TempDir(), 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	b := bus.New()
	return NewService(store, b), b
}

func TestMutationsPublishContentUpdate(t *testing.T) {
	svc, b := newService(t)

	var events []model.Content
	b.Subscribe(bus.TopicContentUpdate, func(topic string, payload any) {
		events = append(events, payload.(model.Content))
	})

	created, err := svc.Create(model.Content{Title: "lobby loop"})
	require.NoError(t, err)

	created.Title = "lobby loop v2"
	_, err = svc.Update(created)
	require.NoError(t, err)

	disabled, err := svc.Disable(created.ID)
	require.NoError(t, err)
	assert.True(t, disabled.PermanentlyDisabled)

	require.Len(t, events, 3)
	assert.Equal(t, "lobby loop", events[0].Title)
	assert.Equal(t, "lobby loop v2", events[1].Title)
	assert.False(t, events[2].Active)
}

func TestFailedMutationPublishesNothing(t *testing.T) {
	svc, b := newService(t)

	calls := 0
	b.Subscribe(bus.TopicContentUpdate, func(string, any) { calls++ })

	_, err := svc.Disable(999)
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Zero(t, calls)

	c, err := svc.Create(model.Content{Title: "once"})
	require.NoError(t, err)
	_, err = svc.Disable(c.ID)
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// A rejected re-enable changes nothing and announces nothing.
	c.Active = true
	_, err = svc.Update(c)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, calls)
}
