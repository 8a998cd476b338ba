package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wbenoit/sift/util"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		assertion string
		input     uint64
		expected  string
	}{
		{"bytes", 512, "512 B"},
		{"kilobytes", 2048, "2 KB"},
		{"megabytes", 3 * 1024 * 1024, "3 MB"},
		{"gigabytes", 1024 * 1024 * 1024, "1 GB"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			assert.Equal(t, c.expected, util.HumanBytes(c.input))
		})
	}
}

func TestWhen(t *testing.T) {
	assert.Equal(t, "a", util.When(true, "a", "b"))
	assert.Equal(t, "b", util.When(false, "a", "b"))
}
