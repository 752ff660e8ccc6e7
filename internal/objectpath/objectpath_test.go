package objectpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type service struct {
	Name string
}

func (s *service) Title() string { return "svc:" + s.Name }

func TestResolve_EmptyPathIsNil(t *testing.T) {
	v, err := Resolve("")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	Register("app", map[string]any{"shadowed": "outer"})
	Register("app.sub", map[string]any{"value": 1})
	t.Cleanup(func() {
		Unregister("app")
		Unregister("app.sub")
	})

	v, err := Resolve("app.sub.value")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestResolve_FullPathRegistration(t *testing.T) {
	Register("app.sub.value", 7)
	t.Cleanup(func() { Unregister("app.sub.value") })

	v, err := Resolve("app.sub.value")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestResolve_UnknownModule(t *testing.T) {
	_, err := Resolve("ghost.attr")
	var ierr *ImportError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "ghost", ierr.Module)
}

func TestResolve_MissingAttribute(t *testing.T) {
	Register("app", map[string]any{"present": 1})
	t.Cleanup(func() { Unregister("app") })

	_, err := Resolve("app.absent")
	var aerr *AttributeError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "absent", aerr.Attribute)
}

func TestResolve_StructFieldAndMethod(t *testing.T) {
	Register("app.svc", &service{Name: "db"})
	t.Cleanup(func() { Unregister("app.svc") })

	v, err := Resolve("app.svc.Name")
	require.NoError(t, err)
	assert.Equal(t, "db", v)

	v, err = Resolve("app.svc.Title")
	require.NoError(t, err)
	title, ok := v.(func() string)
	require.True(t, ok)
	assert.Equal(t, "svc:db", title())
}

func TestResolve_ReRegistrationReplaces(t *testing.T) {
	Register("app.flag", true)
	t.Cleanup(func() { Unregister("app.flag") })

	Register("app.flag", false)
	v, err := Resolve("app.flag")
	require.NoError(t, err)
	assert.Equal(t, false, v)
}
