package memocache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	t.Run("round-trips a struct", func(t *testing.T) {
		t.Parallel()

		m := jsonMarshaler[user]{}
		u := user{Name: "Alice", Age: 30}

		data, err := m.Marshal(u)
		require.NoError(t, err)

		got, err := m.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, u, got)
	})

	t.Run("wraps marshal failures with ErrMarshal", func(t *testing.T) {
		t.Parallel()

		m := jsonMarshaler[chan int]{}

		_, err := m.Marshal(make(chan int))
		require.ErrorIs(t, err, ErrMarshal)
	})

	t.Run("wraps unmarshal failures with ErrUnmarshal", func(t *testing.T) {
		t.Parallel()

		m := jsonMarshaler[user]{}

		_, err := m.Unmarshal([]byte("{not json"))
		require.ErrorIs(t, err, ErrUnmarshal)
	})
}
