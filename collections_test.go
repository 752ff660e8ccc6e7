package appsettings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsettings "github.com/pawamoy/appsettings"
)

func TestList_DefaultIsFreshEmptyList(t *testing.T) {
	s := appsettings.List("hosts")

	first, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	second, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)

	assert.Equal(t, []any{}, first)
	assert.Equal(t, []any{}, second)
}

func TestList_EnvironJSONDecode(t *testing.T) {
	s := appsettings.List("hosts")
	t.Setenv("HOSTS", `["a", "b"]`)

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestList_EnvironDelimitedDecode(t *testing.T) {
	s := appsettings.List("paths")
	t.Setenv("PATHS", "/usr/bin:/usr/local/bin")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, []any{"/usr/bin", "/usr/local/bin"}, v)
}

func TestList_EnvironDelimitedItemConversion(t *testing.T) {
	s := appsettings.List("ports",
		appsettings.WithItemType(appsettings.KindInt),
		appsettings.WithDelimiter(","),
	)
	t.Setenv("PORTS", "80,443,8080")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, []any{80, 443, 8080}, v)
}

func TestList_EnvironBadItemFailsDecode(t *testing.T) {
	s := appsettings.List("ports", appsettings.WithItemType(appsettings.KindInt))
	t.Setenv("PORTS", "80:not-a-port")

	_, err := s.Value(appsettings.MapSource{})
	var derr *appsettings.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "PORTS", derr.Setting)
}

func TestList_ItemTypeValidation(t *testing.T) {
	s := appsettings.List("ports", appsettings.WithItemType(appsettings.KindInt))

	require.NoError(t, s.Check(appsettings.MapSource{"PORTS": []any{80, 443}}))

	err := s.Check(appsettings.MapSource{"PORTS": []any{80, "443"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Element 443 is not of type int.")
}

func TestSetOf_EnvironDropsDuplicates(t *testing.T) {
	s := appsettings.SetOf("tags")
	t.Setenv("TAGS", "a:b:a")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	set, ok := v.(appsettings.Set)
	require.True(t, ok)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("a"))
	assert.True(t, set.Contains("b"))
}

func TestSetOf_RequiresSetRaw(t *testing.T) {
	s := appsettings.SetOf("tags")

	require.NoError(t, s.Check(appsettings.MapSource{"TAGS": appsettings.NewSet("a")}))
	require.Error(t, s.Check(appsettings.MapSource{"TAGS": []any{"a"}}))
}

func TestTupleOf_EnvironDecode(t *testing.T) {
	s := appsettings.TupleOf("pair", appsettings.WithItemType(appsettings.KindInt))
	t.Setenv("PAIR", "1:2")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, appsettings.Tuple{1, 2}, v)
}

func TestDict_EnvironJSONDecode(t *testing.T) {
	s := appsettings.Dict("limits")
	t.Setenv("LIMITS", `{"cpu": 2}`)

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cpu": 2}, v)
}

func TestDict_EnvironDelimitedDecode(t *testing.T) {
	s := appsettings.Dict("limits", appsettings.WithValueType(appsettings.KindInt))
	t.Setenv("LIMITS", "cpu=2 mem=512")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"cpu": 2, "mem": 512}, v)
}

func TestDict_EnvironCustomDelimiters(t *testing.T) {
	s := appsettings.Dict("limits",
		appsettings.WithOuterDelimiter(";"),
		appsettings.WithInnerDelimiter(":"),
	)
	t.Setenv("LIMITS", "cpu:2;mem:512")

	v, err := s.Value(appsettings.MapSource{})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"cpu": "2", "mem": "512"}, v)
}

func TestDict_EnvironItemNeedsExactlyOneSeparator(t *testing.T) {
	s := appsettings.Dict("limits")
	t.Setenv("LIMITS", "cpu=2=4")

	_, err := s.Value(appsettings.MapSource{})
	var derr *appsettings.DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestDict_KeyAndValueTypeValidation(t *testing.T) {
	s := appsettings.Dict("limits",
		appsettings.WithKeyType(appsettings.KindString),
		appsettings.WithValueType(appsettings.KindInt),
	)

	require.NoError(t, s.Check(appsettings.MapSource{"LIMITS": map[string]any{"cpu": 2}}))

	err := s.Check(appsettings.MapSource{"LIMITS": map[string]any{"cpu": "two"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Item cpu's value two is not of type int.")
}

func TestIterable_NoContainerTypeValidator(t *testing.T) {
	s := appsettings.Iterable("seq")

	require.NoError(t, s.Check(appsettings.MapSource{"SEQ": []any{1}}))
	require.NoError(t, s.Check(appsettings.MapSource{"SEQ": appsettings.Tuple{1}}))
}
