// Package idioms holds the small functional helpers shown on the currying
// panel: spreading, merging with overrides, unpacking and currying.
package idioms

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/romdo/go-pace/internal/panel"
)

// Spread returns a map from each index of s to its element.
func Spread[T any](s []T) map[int]T {
	m := make(map[int]T, len(s))
	for i, v := range s {
		m[i] = v
	}

	return m
}

// Merge returns a new map with the entries of base, overridden by the entries
// of each map in overrides, in order. base is not modified.
func Merge[K comparable, V any](base map[K]V, overrides ...map[K]V) map[K]V {
	n := len(base)
	for _, o := range overrides {
		n += len(o)
	}

	m := make(map[K]V, n)
	for k, v := range base {
		m[k] = v
	}
	for _, o := range overrides {
		for k, v := range o {
			m[k] = v
		}
	}

	return m
}

// Unpack2 returns the values of two keys of m. Missing keys yield the zero
// value.
func Unpack2[K comparable, V any](m map[K]V, a, b K) (V, V) {
	return m[a], m[b]
}

// Curry2 turns a two argument function into a chain of single argument
// functions.
func Curry2[A, B, R any](f func(A, B) R) func(A) func(B) R {
	return func(a A) func(B) R {
		return func(b B) R {
			return f(a, b)
		}
	}
}

// Curry3 turns a three argument function into a chain of single argument
// functions.
func Curry3[A, B, C, R any](f func(A, B, C) R) func(A) func(B) func(C) R {
	return func(a A) func(B) func(C) R {
		return func(b B) func(C) R {
			return func(c C) R {
				return f(a, b, c)
			}
		}
	}
}

// Addition adds three numbers, one argument at a time.
func Addition(a int) func(int) func(int) int {
	return func(b int) func(int) int {
		return func(c int) int {
			return a + b + c
		}
	}
}

// Multiply is Curry2 applied to integer multiplication.
var Multiply = Curry2(func(a, b int) int { return a * b })

// Field returns a lookup of keys in obj.
func Field[V any](obj map[string]V) func(string) V {
	return func(key string) V {
		return obj[key]
	}
}

// MarshalOrdered encodes m as a JSON object with the given keys first, in
// order, followed by any other keys sorted.
func MarshalOrdered[V any](m map[string]V, keys ...string) ([]byte, error) {
	seen := make(map[string]bool, len(keys))
	order := make([]string, 0, len(m))
	for _, k := range keys {
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	rest := make([]string, 0, len(m)-len(order))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range order {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Run logs the idiom walkthrough to log.
func Run(log panel.Logger) error {
	a, b := Unpack2(map[string]int{"a": 5, "b": 6}, "a", "b")
	log.Log("Destructuring:", a, b)

	spread, err := json.Marshal(Spread([]int{2, 5, 6, 8, 7, 9}))
	if err != nil {
		return err
	}
	log.Log("Spread array into object:", string(spread))

	user := map[string]any{"name": "user2", "age": 20, "gender": "male"}
	updated, err := MarshalOrdered(
		Merge(user, map[string]any{"age": 50}), "name", "age", "gender",
	)
	if err != nil {
		return err
	}
	log.Log("Updated object with spread:", string(updated))

	log.Log("Curried Addition:", Addition(5)(2)(1))

	userInfo := Field(map[string]any{"name": "neeraj", "age": 5})
	log.Log("User Info:", userInfo("name"))

	log.Log("Curried Multiply:", Multiply(2)(5))

	return nil
}
