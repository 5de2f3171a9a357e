package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRejectsMissingProperty(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().To(5).Commit()
	require.Error(t, err)
	var rerr *Error
	ok := asRigError(err, &rerr)
	require.True(t, ok)
	assert.Equal(t, "chain", rerr.Stage)
}

func TestCommitRejectsDisallowedOperator(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Pos().Mul(2).Commit()
	assert.Error(t, err)
}

func TestCommitRejectsNamedLayerWithoutMode(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Speed().Layer("boost").To(5).Commit()
	assert.Error(t, err)
}

func TestCommitRejectsMsAndRateTogether(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Speed().To(5).Over(100).OverRate(10).Commit()
	assert.Error(t, err)
}

func TestCommitRejectsUnknownEasing(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Speed().To(5).Over(100).OverEasing("bounce").Commit()
	assert.Error(t, err)
}

func TestCommitRejectsZeroDebounce(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Speed().To(5).Debounce(0).Commit()
	assert.Error(t, err)
}

func TestCommitIsIdempotent(t *testing.T) {
	s := NewState(DefaultConfig())
	b := s.NewBuilder().Speed().To(5)
	first, err1 := b.Commit()
	second, err2 := b.Commit()
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Same(t, first, second)
}

func TestCommitSucceedsAndAdmitsIntoBaseLayer(t *testing.T) {
	s := NewState(DefaultConfig())
	ab, err := s.NewBuilder().Speed().To(5).Commit()
	require.NoError(t, err)
	require.NotNil(t, ab)
	assert.Equal(t, 1, len(s.groups["base.speed"].builders))
}

func TestWithArgsValidatesArity(t *testing.T) {
	s := NewState(DefaultConfig())
	_, err := s.NewBuilder().Pos().To(1).Commit()
	assert.Error(t, err)
}

// asRigError adapts errors.As for this package's concrete *Error type
// without importing the errors package into a one-line helper.
func asRigError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}
