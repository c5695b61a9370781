package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"flag", "", Flag{}},
		{"int", "120", Int(120)},
		{"negative int", "-4", Int(-4)},
		{"real", "0.5", Real(0.5)},
		{"string", `"EXIT"`, String("EXIT")},
		{"escaped string", `"a\"b"`, String(`a"b`)},
		{"index color", "index 14", IndexColor(14)},
		{"rgb color", "rgb 0 65535 0", RGBColor(0, 65535, 0)},
		{"word", "beginGroupX", Raw("beginGroupX")},
		{"inf is not a number", "inf", Raw("inf")},
		{"several tokens", "1 2 3", Raw("1 2 3")},
		{"unterminated", `"oops`, Raw(`"oops`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseValue(tt.in)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.True(t, Equal(tt.want, got), "got %v", got)
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", Flag{}.String())
	assert.Equal(t, "-12", Int(-12).String())
	assert.Equal(t, "14.0", Real(14).String())
	assert.Equal(t, "0.25", Real(0.25).String())
	assert.Equal(t, `"a\\b"`, String(`a\b`).String())
	assert.Equal(t, "index 3", IndexColor(3).String())
	assert.Equal(t, "rgb 1 2 3", RGBColor(1, 2, 3).String())
	assert.Equal(t, "xyz 1", Raw("xyz 1").String())
}

func TestParseBlock(t *testing.T) {
	t.Run("list of ints", func(t *testing.T) {
		v := ParseBlock([]string{"10", "20", "30"})
		list, ok := v.(List)
		require.True(t, ok)
		require.Equal(t, 3, list.Len())
		n, ok := list.GetInt(1)
		require.True(t, ok)
		assert.Equal(t, Int(20), n)
	})

	t.Run("list of strings", func(t *testing.T) {
		v := ParseBlock([]string{`"line one"`, `"line two"`})
		list, ok := v.(List)
		require.True(t, ok)
		assert.Equal(t, []string{"line one", "line two"}, list.Strings())
	})

	t.Run("keyed block", func(t *testing.T) {
		v := ParseBlock([]string{`0 "motor.edl"`, `1 "valve"`})
		block, ok := v.(Block)
		require.True(t, ok)
		assert.Equal(t, []string{"0", "1"}, block.Keys())
		s, ok := block.GetString("1")
		require.True(t, ok)
		assert.Equal(t, "valve", s)
	})

	t.Run("mixed falls back to list", func(t *testing.T) {
		v := ParseBlock([]string{`0 "a"`, `"b"`})
		list, ok := v.(List)
		require.True(t, ok)
		assert.Equal(t, Raw(`0 "a"`), list[0])
		assert.Equal(t, String("b"), list[1])
	})

	t.Run("empty", func(t *testing.T) {
		v := ParseBlock(nil)
		assert.Equal(t, KindList, v.Kind())
	})
}

func TestBlockWith(t *testing.T) {
	b := Block{{Key: "0", Value: String("a.edl")}}
	b2 := b.With("0", String("b.edl"))
	b3 := b.With("1", String("c.edl"))

	s, _ := b.GetString("0")
	assert.Equal(t, "a.edl", s, "original block must not change")
	s, _ = b2.GetString("0")
	assert.Equal(t, "b.edl", s)
	assert.Equal(t, []string{"0", "1"}, b3.Keys())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(List{Int(1), Int(2)}, List{Int(1), Int(2)}))
	assert.False(t, Equal(List{Int(1)}, List{Int(1), Int(2)}))
	assert.False(t, Equal(Int(1), Real(1)))
	assert.True(t, Equal(Block{{"0", String("x")}}, Block{{"0", String("x")}}))
	assert.False(t, Equal(Block{{"0", String("x")}}, Block{{"1", String("x")}}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Int(1), nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Block", KindBlock.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
