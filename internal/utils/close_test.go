package utils

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dankservices/blog-site/internal/logger"
)

type trackedBody struct {
	io.Reader
	closed bool
	err    error
}

func (b *trackedBody) Close() error {
	b.closed = true
	return b.err
}

func TestDrainClose(t *testing.T) {
	b := &trackedBody{Reader: strings.NewReader("leftover")}
	DrainClose(b)

	assert.True(t, b.closed)
	n, _ := b.Read(make([]byte, 8))
	assert.Zero(t, n)

	DrainClose(nil)
}

func TestLogClose(t *testing.T) {
	b := &trackedBody{Reader: strings.NewReader(""), err: errors.New("boom")}
	LogClose(b, logger.Nop(), "body")
	assert.True(t, b.closed)
}
