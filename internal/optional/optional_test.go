// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package optional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Parallel()

	some := Some(0)
	require.True(t, some.IsPresent())
	require.Equal(t, 0, some.Value())
	require.Equal(t, 0, some.ValueOr(7))
	v, ok := some.Get()
	require.True(t, ok)
	require.Equal(t, 0, v)

	none := None[int]()
	require.False(t, none.IsPresent())
	require.Equal(t, 0, none.Value())
	require.Equal(t, 7, none.ValueOr(7))
	_, ok = none.Get()
	require.False(t, ok)
}
