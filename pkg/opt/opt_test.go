package opt_test

import (
	"errors"
	"testing"

	// Packages
	opt "github.com/thesubgraph/go-askstack/pkg/opt"
	assert "github.com/stretchr/testify/assert"
)

func Test_opt_001(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply()
	assert.NoError(err)
	assert.NotNil(opts)
	assert.False(opts.Has("missing"))
	assert.Equal("", opts.GetString("missing"))
}

func Test_opt_002(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithString("key", " value "))
	assert.NoError(err)
	assert.True(opts.Has("key"))
	assert.Equal("value", opts.GetString("key"))
}

func Test_opt_003(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithBool("flag", true))
	assert.NoError(err)
	assert.True(opts.GetBool("flag"))

	// An explicit false is recorded, distinct from an absent key
	opts, err = opt.Apply(opt.WithBool("flag", false))
	assert.NoError(err)
	assert.True(opts.Has("flag"))
	assert.False(opts.GetBool("flag"))
}

func Test_opt_004(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithFloat64("speed", 1.5))
	assert.NoError(err)
	assert.Equal(1.5, opts.GetFloat64("speed", 1))
	assert.Equal(1.0, opts.GetFloat64("missing", 1))
}

func Test_opt_005(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithUint("limit", 20))
	assert.NoError(err)
	assert.Equal(uint(20), opts.GetUint("limit"))
}

func Test_opt_006(t *testing.T) {
	assert := assert.New(t)
	boom := errors.New("boom")
	_, err := opt.Apply(opt.Error(boom))
	assert.ErrorIs(err, boom)
}

func Test_opt_007(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithOpts(opt.WithString("a", "1"), opt.WithString("b", "2")))
	assert.NoError(err)
	assert.Equal("1", opts.GetString("a"))
	assert.Equal("2", opts.GetString("b"))
}
