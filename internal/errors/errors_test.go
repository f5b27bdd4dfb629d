package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := ColumnNotFound([]string{"height"})
	wrapped := Wrap(inner, "analyze column")

	assert.Equal(t, CodeColumnNotFound, GetCode(wrapped))
	assert.Equal(t, "analyze column: missing required columns: [height]", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("disk full"), "write %s", "out.csv")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Contains(t, err.Error(), "write out.csv")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIs_ThroughStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", ConfigMissing("DEEPSEEK_API_KEY"))

	assert.True(t, Is(err, CodeConfigMissing))
	assert.False(t, Is(err, CodeNotFound))
	assert.False(t, Is(nil, CodeConfigMissing))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("bare")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad method"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad method", err.Error())
}
