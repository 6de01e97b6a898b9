package di_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/km-arc/go-injector/framework/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repo struct {
	url   string
	conns int
}

func newRepo(url string) *repo { return &repo{url: url} }

func newRepoSized(url string, conns int) *repo { return &repo{url: url, conns: conns} }

func TestIntrospector_RegisterRejectsBadSignatures(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()

	var invalid di.InvalidConstructorError
	require.ErrorAs(t, in.RegisterConstructor(42), &invalid)
	require.ErrorAs(t, in.RegisterConstructor(func(xs ...int) *repo { return nil }), &invalid)
	require.ErrorAs(t, in.RegisterConstructor(func() {}), &invalid)
	require.ErrorAs(t, in.RegisterConstructor(func() (*repo, string) { return nil, "" }), &invalid)
}

func TestIntrospector_SelectPrefersMaxArity(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	require.NoError(t, in.RegisterConstructor(newRepo))
	require.NoError(t, in.RegisterConstructor(newRepoSized))

	c, err := in.Select(di.TypeOf[*repo]())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Arity(), "the richest initialization wins")
}

func TestIntrospector_EqualMaxArityIsAmbiguous(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	require.NoError(t, in.RegisterConstructor(newRepoSized))
	require.NoError(t, in.RegisterConstructor(func(a int, b int) *repo { return &repo{conns: a + b} }))

	_, err := in.Select(di.TypeOf[*repo]())
	var amb di.AmbiguousConstructorError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, 2, amb.Arity)
}

func TestIntrospector_FixedOverrideBypassesAritySelection(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	require.NoError(t, in.RegisterConstructor(newRepoSized))
	require.NoError(t, in.SetConstructor(newRepo, "db-url"))

	c, err := in.Select(di.TypeOf[*repo]())
	require.NoError(t, err)
	require.Equal(t, 1, c.Arity())
	assert.Equal(t, "db-url", c.Params[0].Name, "override carries the param name tag")
}

func TestIntrospector_SetConstructorRejectsSurplusNames(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	var invalid di.InvalidConstructorError
	require.ErrorAs(t, in.SetConstructor(newRepo, "a", "b"), &invalid)
}

func TestIntrospector_CandidatesListsOverrideFirst(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	require.NoError(t, in.RegisterConstructor(newRepoSized))
	require.NoError(t, in.SetConstructor(newRepo))

	cands := in.Candidates(di.TypeOf[*repo]())
	require.Len(t, cands, 2)
	assert.Equal(t, 1, cands[0].Arity())
}

func TestIntrospector_AggregateFallbackUsesExportedFields(t *testing.T) {
	t.Parallel()

	type server struct {
		URL   string `inject:"db-url"`
		Conns int
		Debug bool `inject:"-"`
		trace bool
	}

	in := di.NewIntrospector()
	c, err := in.Select(di.TypeOf[server]())
	require.NoError(t, err)
	require.Equal(t, 2, c.Arity(), "unexported and opted-out fields are skipped")
	assert.Equal(t, "db-url", c.Params[0].Name)
	assert.Equal(t, di.TypeOf[int](), c.Params[1].Type)

	v, err := c.New([]reflect.Value{reflect.ValueOf("u"), reflect.ValueOf(9)})
	require.NoError(t, err)
	assert.Equal(t, server{URL: "u", Conns: 9}, v)
}

func TestIntrospector_AggregateFallbackPointerToStruct(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	c, err := in.Select(di.TypeOf[*Conn]())
	require.NoError(t, err)
	require.Equal(t, 1, c.Arity())

	v, err := c.New([]reflect.Value{reflect.ValueOf(7)})
	require.NoError(t, err)
	conn, ok := v.(*Conn)
	require.True(t, ok)
	assert.Equal(t, 7, conn.ID)
}

func TestIntrospector_AggregateFallbackNonStructIsZero(t *testing.T) {
	t.Parallel()

	in := di.NewIntrospector()
	c, err := in.Select(di.TypeOf[int]())
	require.NoError(t, err)
	require.Equal(t, 0, c.Arity())

	v, err := c.New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestConstructor_NewPropagatesConstructorError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	in := di.NewIntrospector()
	require.NoError(t, in.RegisterConstructor(func() (*repo, error) { return nil, boom }))

	c, err := in.Select(di.TypeOf[*repo]())
	require.NoError(t, err)

	_, err = c.New(nil)
	assert.ErrorIs(t, err, boom)
}
