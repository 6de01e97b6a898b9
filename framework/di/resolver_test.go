package di_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-injector/framework/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_UnboundIntYieldsZeroValue(t *testing.T) {
	t.Parallel()

	inj, err := di.New()
	require.NoError(t, err)

	n, err := di.Create[int](inj)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCreate_BoundValueIsReturnedEveryTime(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(di.BindValue(42)))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		n, err := di.Create[int](inj)
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	}
}

func TestCreateNamed_ResolvesTheTaggedBinding(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(
		di.BindValue("plain"),
		di.BindValue("tagged", di.Named("primary")),
	))
	require.NoError(t, err)

	s, err := di.Create[string](inj)
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	s, err = di.CreateNamed[string](inj, "primary")
	require.NoError(t, err)
	assert.Equal(t, "tagged", s)
}

func TestCreate_UnboundNamedKeyIsMissing(t *testing.T) {
	t.Parallel()

	inj, err := di.New()
	require.NoError(t, err)

	_, err = di.CreateNamed[string](inj, "nope")
	var missing di.MissingBindingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, di.NamedKeyOf[string]("nope"), missing.Key)
}

func TestCreate_UnboundInterfaceIsMissing(t *testing.T) {
	t.Parallel()

	inj, err := di.New()
	require.NoError(t, err)

	_, err = di.Create[Clock](inj)
	var missing di.MissingBindingError
	require.ErrorAs(t, err, &missing)
}

func TestCreate_InterfaceBindingResolvesImplementation(t *testing.T) {
	t.Parallel()

	inj, err := di.New(
		di.Provide(di.BindType[Clock, *SystemClock]()),
		di.Constructors(NewSystemClock),
	)
	require.NoError(t, err)

	c, err := di.Create[Clock](inj)
	require.NoError(t, err)
	assert.IsType(t, &SystemClock{}, c)
}

func TestCreate_RichestConstructorWinsEndToEnd(t *testing.T) {
	t.Parallel()

	inj, err := di.New(
		di.Provide(di.BindValue("postgres://db"), di.BindValue(8)),
		di.Constructors(newRepo, newRepoSized),
	)
	require.NoError(t, err)

	r, err := di.Create[*repo](inj)
	require.NoError(t, err)
	assert.Equal(t, 8, r.conns, "the arity-2 constructor must be chosen")
	assert.Equal(t, "postgres://db", r.url)
}

func TestCreate_ConstructorForTagsParameters(t *testing.T) {
	t.Parallel()

	inj, err := di.New(
		di.Provide(
			di.BindValue("untagged"),
			di.BindValue("postgres://primary", di.Named("db-url")),
		),
		di.ConstructorFor(newRepo, "db-url"),
	)
	require.NoError(t, err)

	r, err := di.Create[*repo](inj)
	require.NoError(t, err)
	assert.Equal(t, "postgres://primary", r.url)
}

func TestCreate_ArgumentsResolveLeftToRight(t *testing.T) {
	t.Parallel()

	var order []string
	inj, err := di.New(
		di.Provide(
			di.BindFactory(func(*di.Resolver) (*Conn, error) {
				order = append(order, "conn")
				return &Conn{}, nil
			}),
			di.BindFactory(func(*di.Resolver) (*SystemClock, error) {
				order = append(order, "clock")
				return &SystemClock{}, nil
			}),
		),
		di.Constructors(func(c *Conn, k *SystemClock) *repo { return &repo{} }),
	)
	require.NoError(t, err)

	_, err = di.Create[*repo](inj)
	require.NoError(t, err)
	assert.Equal(t, []string{"conn", "clock"}, order)
}

func TestCreate_FactoryAbsentPropagatesAsNil(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(
		di.BindFactory(func(*di.Resolver) (*Conn, error) {
			return nil, nil // conditional wiring: do not construct
		}),
	))
	require.NoError(t, err)

	c, err := di.Create[*Conn](inj)
	require.NoError(t, err, "absence is not an error for a nilable request")
	assert.Nil(t, c)
}

func TestCreate_FactoryMayResolveFurtherDependencies(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(
		di.BindValue(7),
		di.BindFactory(func(r *di.Resolver) (*Conn, error) {
			id, err := di.Resolve[int](r)
			if err != nil {
				return nil, err
			}
			return &Conn{ID: id}, nil
		}),
	))
	require.NoError(t, err)

	c, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	assert.Equal(t, 7, c.ID)
}

func TestCreate_SelfReferentialFactoryFailsWithCycle(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(
		di.BindFactory(func(r *di.Resolver) (*Conn, error) {
			return di.Resolve[*Conn](r) // type A requires type A
		}),
	))
	require.NoError(t, err, "factory dependencies are opaque to static validation")

	_, err = di.Create[*Conn](inj)
	var cyc di.CircularDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, di.KeyOf[*Conn](), cyc.Key)
}

func TestCreate_NestedFailureAbortsWholeCall(t *testing.T) {
	t.Parallel()

	boom := errors.New("no database today")
	inj, err := di.New(
		di.Provide(di.BindFactory(func(*di.Resolver) (*Conn, error) {
			return nil, boom
		})),
		di.Constructors(func(c *Conn) *repo { return &repo{conns: 1} }),
	)
	require.NoError(t, err)

	r, err := di.Create[*repo](inj)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, r, "no partially constructed object escapes")
}

func TestCreate_IncompatibleInstanceIsWrongType(t *testing.T) {
	t.Parallel()

	inj, err := di.New(
		di.Provide(di.BindType[Stamper, *Conn]()),
		di.WithPolicies(), // skip static checks to reach the runtime path
	)
	require.NoError(t, err)

	_, err = di.Create[Stamper](inj)
	var wrong di.WrongTypeError
	require.ErrorAs(t, err, &wrong)
}
