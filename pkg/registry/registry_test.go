package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	r := registry.New[int]()

	require.NoError(t, r.Register("one", 1))
	require.NoError(t, r.Register("two", 2))

	v, err := r.Get("two")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, r.Has("one"))
	assert.False(t, r.Has("three"))
	assert.Equal(t, 2, r.Count())
}

func TestRegisterErrors(t *testing.T) {
	r := registry.New[string]()

	err := r.Register("", "x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	require.NoError(t, r.Register("a", "x"))
	err = r.Register("a", "y")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = r.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestOrderIsPreserved(t *testing.T) {
	r := registry.New[string]()
	for _, name := range []string{"zeta", "alpha", "mu"} {
		registry.MustRegister(r, name, name+"!")
	}

	assert.Equal(t, []string{"zeta", "alpha", "mu"}, r.List())
	assert.Equal(t, []string{"zeta!", "alpha!", "mu!"}, r.All())
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := registry.New[int]()
	registry.MustRegister(r, "a", 1)
	assert.Panics(t, func() { registry.MustRegister(r, "a", 2) })
}

func TestConcurrentAccess(t *testing.T) {
	r := registry.New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("item-%d", i), i)
			_ = r.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, r.Count())
}
