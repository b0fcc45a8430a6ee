package callback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParse(t *testing.T) {
	data, err := Encode(VipApprove, int64(123456789), uint(7))
	require.NoError(t, err)
	assert.Equal(t, "vip_approve:123456789:7", data)

	p, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, VipApprove, p.Action)

	user, err := p.Int64(0)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), user)

	plan, err := p.Uint(1)
	require.NoError(t, err)
	assert.Equal(t, uint(7), plan)

	assert.Equal(t, data, p.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no action", ":1"},
		{"too long", strings.Repeat("a", MaxLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestEncodeRejectsAmbiguousOrLong(t *testing.T) {
	_, err := Encode(Anime, "a:b")
	assert.Error(t, err)

	_, err = Encode("bad:action")
	assert.Error(t, err)

	_, err = Encode(Anime, strings.Repeat("9", MaxLen))
	assert.Error(t, err)

	assert.Panics(t, func() { MustEncode("") })
}

func TestArgAccessors(t *testing.T) {
	p, err := Parse("vip_reject:42")
	require.NoError(t, err)

	assert.Equal(t, "42", p.Arg(0))
	assert.Equal(t, "", p.Arg(1))

	_, err = p.Int64(1)
	assert.Error(t, err)

	p, err = Parse("episode:-5")
	require.NoError(t, err)
	_, err = p.Uint(0)
	assert.Error(t, err)
}

func TestParseActionOnly(t *testing.T) {
	p, err := Parse(Noop)
	require.NoError(t, err)
	assert.Equal(t, Noop, p.Action)
	assert.Empty(t, p.Args)
}
