package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

func TestError_Error(t *testing.T) {
	err := engine.Errorf(engine.ECONFLICT, "Contact %s exists.", "John")
	assert.Equal(t, "addressbook error: code=conflict message=Contact John exists.", err.Error())
}

func TestErrorCodeAndMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{"nil error", nil, "", ""},
		{"engine error", engine.Errorf(engine.EINVALID, engine.MsgInvalidPhone), engine.EINVALID, engine.MsgInvalidPhone},
		{"wrapped engine error", fmt.Errorf("import: %w", engine.Errorf(engine.ENOTFOUND, engine.MsgContactNotFound)), engine.ENOTFOUND, engine.MsgContactNotFound},
		{"joined engine error", errors.Join(engine.Errorf(engine.EARGUMENT, engine.MsgNotEnoughArgs)), engine.EARGUMENT, engine.MsgNotEnoughArgs},
		{"foreign error", errors.New("disk write error"), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, engine.ErrorCode(tt.err))
			assert.Equal(t, tt.wantMsg, engine.ErrorMessage(tt.err))
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, engine.IsNotFound(engine.Errorf(engine.ENOTFOUND, "x")))
	assert.True(t, engine.IsConflict(engine.Errorf(engine.ECONFLICT, "x")))
	assert.True(t, engine.IsInvalid(engine.Errorf(engine.EINVALID, "x")))
	assert.False(t, engine.IsNotFound(errors.New("x")))
	assert.False(t, engine.IsConflict(nil))
}
