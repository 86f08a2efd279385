package idioms

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romdo/go-pace/internal/panel"
)

func TestSpread(t *testing.T) {
	assert.Equal(t,
		map[int]string{0: "a", 1: "b"},
		Spread([]string{"a", "b"}),
	)
	assert.Empty(t, Spread[int](nil))
}

func TestMerge(t *testing.T) {
	base := map[string]int{"name": 1, "age": 20}

	got := Merge(base, map[string]int{"age": 50}, map[string]int{"x": 1, "age": 60})

	assert.Equal(t, map[string]int{"name": 1, "age": 60, "x": 1}, got)
	assert.Equal(t, map[string]int{"name": 1, "age": 20}, base, "base untouched")
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2(map[string]int{"a": 5}, "a", "missing")

	assert.Equal(t, 5, a)
	assert.Equal(t, 0, b)
}

func TestCurry(t *testing.T) {
	concat := Curry3(func(a string, b int, c bool) string {
		return a + strconv.Itoa(b) + strconv.FormatBool(c)
	})

	assert.Equal(t, "x1true", concat("x")(1)(true))
	assert.Equal(t, 8, Addition(5)(2)(1))
	assert.Equal(t, 10, Multiply(2)(5))

	double := Multiply(2)
	assert.Equal(t, 14, double(7))
}

func TestField(t *testing.T) {
	info := Field(map[string]any{"name": "neeraj", "age": 5})

	assert.Equal(t, "neeraj", info("name"))
	assert.Equal(t, 5, info("age"))
	assert.Nil(t, info("missing"))
}

func TestRun(t *testing.T) {
	set := panel.NewSet(nil, []string{panel.Currying})
	p := set.MustGet(panel.Currying)

	require.NoError(t, Run(p))

	assert.Equal(t, []string{
		"Destructuring: 5 6",
		`Spread array into object: {"0":2,"1":5,"2":6,"3":8,"4":7,"5":9}`,
		`Updated object with spread: {"name":"user2","age":50,"gender":"male"}`,
		"Curried Addition: 8",
		"User Info: neeraj",
		"Curried Multiply: 10",
	}, p.Texts())
}

func TestMarshalOrdered(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		keys []string
		want string
	}{
		{
			name: "keys in given order",
			m:    map[string]any{"name": "user2", "age": 50, "gender": "male"},
			keys: []string{"name", "age", "gender"},
			want: `{"name":"user2","age":50,"gender":"male"}`,
		},
		{
			name: "unlisted keys sorted after listed ones",
			m:    map[string]any{"b": 2, "a": 1, "z": true},
			keys: []string{"z"},
			want: `{"z":true,"a":1,"b":2}`,
		},
		{
			name: "missing and repeated keys skipped",
			m:    map[string]any{"a": "x"},
			keys: []string{"missing", "a", "a"},
			want: `{"a":"x"}`,
		},
		{
			name: "empty",
			m:    map[string]any{},
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalOrdered(tt.m, tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
