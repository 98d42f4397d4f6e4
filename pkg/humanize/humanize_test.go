// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package humanize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishalsx/identify-objects/pkg/humanize"
)

/*
TestCount verifies compact counter formatting: verbatim under 1000, one
decimal with a suffix above, trailing zero trimmed.
*/
func TestCount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.5K"},
		{12345, "12.3K"},
		{999000, "999K"},
		{1000000, "1M"},
		{2500000, "2.5M"},
		{1000000000, "1B"},
		{7300000000, "7.3B"},
		{-42, "-42"},
		{-1500, "-1.5K"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, humanize.Count(tc.in), "Count(%d)", tc.in)
	}
}
