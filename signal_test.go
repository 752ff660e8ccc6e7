package appsettings_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsettings "github.com/pawamoy/appsettings"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := appsettings.NewBus()
	var got []string

	s1 := bus.Subscribe(func(c appsettings.Change) { got = append(got, "first:"+c.Setting) })
	s2 := bus.Subscribe(func(c appsettings.Change) { got = append(got, "second:"+c.Setting) })
	defer s1.Close()
	defer s2.Close()

	bus.Publish("PORT", false)
	assert.Equal(t, []string{"first:PORT", "second:PORT"}, got)
}

func TestBus_CarriesEnterFlag(t *testing.T) {
	bus := appsettings.NewBus()
	var changes []appsettings.Change

	sub := bus.Subscribe(func(c appsettings.Change) { changes = append(changes, c) })
	defer sub.Close()

	bus.Publish("PORT", true)
	bus.Publish("PORT", false)

	require.Len(t, changes, 2)
	assert.True(t, changes[0].Enter)
	assert.False(t, changes[1].Enter)
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	bus := appsettings.NewBus()
	calls := 0

	sub := bus.Subscribe(func(appsettings.Change) { calls++ })
	bus.Publish("PORT", false)
	sub.Close()
	sub.Close() // safe to call twice
	bus.Publish("PORT", false)

	assert.Equal(t, 1, calls)
}

func TestSubscription_DistinctIDs(t *testing.T) {
	bus := appsettings.NewBus()
	s1 := bus.Subscribe(func(appsettings.Change) {})
	s2 := bus.Subscribe(func(appsettings.Change) {})
	defer s1.Close()
	defer s2.Close()

	assert.NotEqual(t, s1.ID(), s2.ID())
}

func TestGroup_EnvironShadowDance(t *testing.T) {
	bus := appsettings.NewBus()
	schema, err := appsettings.NewBuilder(appsettings.WithGroupPrefix("app_")).
		Register("debug", appsettings.Bool("")).
		Build()
	require.NoError(t, err)

	g, err := appsettings.NewGroup(schema, appsettings.MapSource{"APP_DEBUG": false}, appsettings.WithBus(bus))
	require.NoError(t, err)
	defer g.Close()

	t.Setenv("APP_DEBUG", "yes")

	// The environment value wins before the override is entered.
	v, err := g.BoolValue("debug")
	require.NoError(t, err)
	assert.True(t, v)

	bus.Publish("APP_DEBUG", true)

	_, present := os.LookupEnv("APP_DEBUG")
	assert.False(t, present, "entering the override hides the environment key")
	shadowed, present := os.LookupEnv("__APPSETTINGS_OVERRIDE_APP_DEBUG")
	require.True(t, present)
	assert.Equal(t, "yes", shadowed)

	// With the environment key hidden the primary source takes over.
	v, err = g.BoolValue("debug")
	require.NoError(t, err)
	assert.False(t, v)

	bus.Publish("APP_DEBUG", false)

	restored, present := os.LookupEnv("APP_DEBUG")
	require.True(t, present, "leaving the override restores the environment key")
	assert.Equal(t, "yes", restored)
	_, present = os.LookupEnv("__APPSETTINGS_OVERRIDE_APP_DEBUG")
	assert.False(t, present)

	v, err = g.BoolValue("debug")
	require.NoError(t, err)
	assert.True(t, v)
}

func TestGroup_EnvironShadowIgnoresForeignSettings(t *testing.T) {
	bus := appsettings.NewBus()
	schema, err := appsettings.NewBuilder().
		Register("debug", appsettings.Bool("")).
		Build()
	require.NoError(t, err)

	g, err := appsettings.NewGroup(schema, appsettings.MapSource{}, appsettings.WithBus(bus))
	require.NoError(t, err)
	defer g.Close()

	t.Setenv("OTHER", "1")
	bus.Publish("OTHER", true)

	v, present := os.LookupEnv("OTHER")
	require.True(t, present, "keys outside the schema are left alone")
	assert.Equal(t, "1", v)
}
