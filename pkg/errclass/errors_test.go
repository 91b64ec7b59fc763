package errclass_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := errclass.ErrInvalidSource.WithMessage("/tmp/missing is not a directory")
	assert.Equal(t, "E_INVALID_SOURCE: /tmp/missing is not a directory", err.Error())
}

func TestError_ErrorCodeOnly(t *testing.T) {
	assert.Equal(t, "E_IO", errclass.ErrIO.Error())
}

func TestError_Is(t *testing.T) {
	err := errclass.ErrInvalidSnapshot.WithMessage("specific message")
	require.True(t, errors.Is(err, errclass.ErrInvalidSnapshot))
	require.False(t, errors.Is(err, errclass.ErrInvalidSource))
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("create snapshot: %w", errclass.ErrIO.WithMessage("disk full"))
	assert.True(t, errors.Is(err, errclass.ErrIO))
}

func TestError_WrapKeepsCause(t *testing.T) {
	err := errclass.ErrInvalidSnapshot.Wrap(fs.ErrNotExist, "open snap.txt")
	assert.Equal(t, "E_INVALID_SNAPSHOT: open snap.txt: file does not exist", err.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, errclass.ErrInvalidSnapshot))
	assert.Same(t, fs.ErrNotExist, errors.Unwrap(err))
}

func TestError_Wrapf(t *testing.T) {
	cause := errors.New("boom")
	err := errclass.ErrIO.Wrapf(cause, "write %s", "out.txt")
	assert.Equal(t, "E_IO: write out.txt: boom", err.Error())
}

func TestError_Codes(t *testing.T) {
	tests := []struct {
		err  *errclass.Error
		code string
	}{
		{errclass.ErrInvalidSource, "E_INVALID_SOURCE"},
		{errclass.ErrInvalidSnapshot, "E_INVALID_SNAPSHOT"},
		{errclass.ErrIO, "E_IO"},
		{errclass.ErrPathEscape, "E_PATH_ESCAPE"},
		{errclass.ErrConfigInvalid, "E_CONFIG_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}
