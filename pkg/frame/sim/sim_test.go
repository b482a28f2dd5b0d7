package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationHistory(t *testing.T) {
	ctx := context.Background()
	host := New(WithStartURL("https://a.example"))

	require.NoError(t, host.Navigate(ctx, "https://b.example"))
	require.NoError(t, host.Navigate(ctx, "https://c.example"))

	assert.Equal(t, "https://c.example", host.CurrentURL())
	assert.True(t, host.CanGoBack())
	assert.False(t, host.CanGoForward())

	require.NoError(t, host.Back(ctx))
	assert.Equal(t, "https://b.example", host.CurrentURL())
	assert.True(t, host.CanGoForward())

	require.NoError(t, host.Go(ctx, -1))
	assert.Equal(t, "https://a.example", host.CurrentURL())
	assert.False(t, host.CanGoBack())

	// Navigating truncates forward history.
	require.NoError(t, host.Navigate(ctx, "https://d.example"))
	assert.False(t, host.CanGoForward())

	err := host.Go(ctx, 5)
	assert.Error(t, err)
}

func TestZoomAndAudio(t *testing.T) {
	ctx := context.Background()
	host := New()

	zoom, err := host.GetZoom()
	require.NoError(t, err)
	assert.Equal(t, 1.0, zoom)

	require.NoError(t, host.SetZoom(ctx, 1.5))
	zoom, err = host.GetZoom()
	require.NoError(t, err)
	assert.Equal(t, 1.5, zoom)

	assert.Error(t, host.SetZoom(ctx, 0))

	require.NoError(t, host.SetAudioMuted(ctx, true))
	state, err := host.GetAudioState()
	require.NoError(t, err)
	assert.True(t, state.Muted)
}

func TestContentScripts(t *testing.T) {
	ctx := context.Background()
	host := New()

	require.NoError(t, host.AddContentScripts(ctx, []frame.ContentScript{
		{Name: "probe", Matches: []string{"https://*/*"}, Code: "console.log(1)"},
	}))
	assert.Equal(t, []string{"probe"}, host.ContentScriptNames())

	err := host.AddContentScripts(ctx, []frame.ContentScript{{Name: "probe"}})
	assert.Error(t, err, "duplicate names must be rejected")

	require.NoError(t, host.RemoveContentScripts(ctx, []string{"probe"}))
	assert.Empty(t, host.ContentScriptNames())
}

func TestCapabilityMasking(t *testing.T) {
	ctx := context.Background()
	host := New(WithoutCapabilities(frame.CapZoom, frame.CapHistory))

	assert.False(t, host.Supports(frame.CapZoom))
	assert.True(t, host.Supports(frame.CapAudio))

	_, err := host.GetZoom()
	assert.ErrorIs(t, err, frame.ErrUnsupported)
	assert.ErrorIs(t, host.Back(ctx), frame.ErrUnsupported)
}

func TestEventSubscription(t *testing.T) {
	ctx := context.Background()
	host := New()

	var kinds []frame.EventKind
	cancel, err := host.Subscribe([]frame.EventKind{frame.EventLoadStart, frame.EventLoadStop}, func(e frame.Event) {
		kinds = append(kinds, e.Kind)
	})
	require.NoError(t, err)

	require.NoError(t, host.Navigate(ctx, "https://a.example"))
	assert.Equal(t, []frame.EventKind{frame.EventLoadStart, frame.EventLoadStop}, kinds)

	cancel()
	require.NoError(t, host.Navigate(ctx, "https://b.example"))
	assert.Len(t, kinds, 2, "cancelled subscription must not receive events")
}

func TestTerminate(t *testing.T) {
	ctx := context.Background()
	host := New()

	var closed bool
	_, err := host.Subscribe([]frame.EventKind{frame.EventClose}, func(frame.Event) { closed = true })
	require.NoError(t, err)

	require.NoError(t, host.Terminate(ctx))
	assert.True(t, closed)

	err = host.Navigate(ctx, "https://a.example")
	assert.True(t, errors.Is(err, frame.ErrTerminated))
}
