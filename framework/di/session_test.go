package di_test

import (
	"testing"

	"github.com/km-arc/go-injector/framework/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionInjector(t *testing.T) *di.Injector {
	t.Helper()
	inj, err := di.New(di.Provide(di.Bind[*Conn](di.InSession("checkout"))))
	require.NoError(t, err)
	return inj
}

func TestSession_AbsentBeforeEntry(t *testing.T) {
	t.Parallel()

	inj := sessionInjector(t)

	c, err := di.Create[*Conn](inj)
	require.NoError(t, err, "an inactive session yields absent, not an error")
	assert.Nil(t, c)
}

func TestSession_IdentityWithinWindow(t *testing.T) {
	t.Parallel()

	inj := sessionInjector(t)
	inj.SessionEntry("checkout")

	a, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	require.NotNil(t, a)

	b, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	assert.Same(t, a, b, "creates within one window share one instance")
}

func TestSession_ExitDiscardsInstances(t *testing.T) {
	t.Parallel()

	inj := sessionInjector(t)
	inj.SessionEntry("checkout")

	a, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	require.NotNil(t, a)

	inj.SessionExit("checkout")

	c, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	assert.Nil(t, c, "resolution after exit yields absent")

	inj.SessionEntry("checkout")
	b, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NotSame(t, a, b, "re-entry starts a fresh cache")
}

func TestSession_ReEntryIsANoOp(t *testing.T) {
	t.Parallel()

	inj := sessionInjector(t)
	inj.SessionEntry("checkout")

	a, err := di.Create[*Conn](inj)
	require.NoError(t, err)

	inj.SessionEntry("checkout") // already open: no-op, entries kept

	b, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestSession_SessionsAreIsolatedByID(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(
		di.Bind[*Conn](di.InSession("alpha")),
		di.Bind[*SystemClock](di.InSession("beta")),
	))
	require.NoError(t, err)

	inj.SessionEntry("alpha")
	defer inj.SessionExit("alpha")

	c, err := di.Create[*Conn](inj)
	require.NoError(t, err)
	assert.NotNil(t, c)

	k, err := di.Create[*SystemClock](inj)
	require.NoError(t, err)
	assert.Nil(t, k, "beta was never entered")
}

func TestSession_AbsentIntoNonNilableDemandFails(t *testing.T) {
	t.Parallel()

	inj, err := di.New(di.Provide(di.Bind[int](di.InSession("checkout"))))
	require.NoError(t, err)

	_, err = di.Create[int](inj)
	var absent di.AbsentValueError
	require.ErrorAs(t, err, &absent)
	assert.Equal(t, di.KeyOf[int](), absent.Key)
}

func TestSession_ActiveReporting(t *testing.T) {
	t.Parallel()

	inj := sessionInjector(t)
	assert.False(t, inj.SessionActive("checkout"))
	inj.SessionEntry("checkout")
	assert.True(t, inj.SessionActive("checkout"))
	inj.SessionExit("checkout")
	assert.False(t, inj.SessionActive("checkout"))
}
