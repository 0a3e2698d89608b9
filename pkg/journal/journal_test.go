package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Key    string
	Status int
}

func TestJournal(t *testing.T) {
	t.Run("Append and Range", func(t *testing.T) {
		j, err := Create[record](filepath.Join(t.TempDir(), "run.gob"))
		require.NoError(t, err)
		defer j.Close()

		require.NoError(t, j.Append(record{Key: "a", Status: 1}))
		require.NoError(t, j.Append(record{Key: "b", Status: 2}))
		require.Equal(t, uint64(2), j.Len())

		var got []record
		err = j.Range(func(_ uint64, item record) error {
			got = append(got, item)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []record{{Key: "a", Status: 1}, {Key: "b", Status: 2}}, got)
	})

	t.Run("AppendBatch adds multiple items", func(t *testing.T) {
		j, err := Create[int](filepath.Join(t.TempDir(), "nested", "run.gob"))
		require.NoError(t, err)
		defer j.Close()

		require.NoError(t, j.AppendBatch([]int{1, 2, 3}))
		require.Equal(t, uint64(3), j.Len())
	})

	t.Run("Replay after Close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.gob")

		j, err := Create[string](path)
		require.NoError(t, err)
		require.NoError(t, j.AppendBatch([]string{"x", "y"}))
		require.NoError(t, j.Close())
		require.NoError(t, j.Close())
		require.Error(t, j.Append("z"))

		var indexes []uint64
		err = Replay(path, func(index uint64, _ string) error {
			indexes = append(indexes, index)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []uint64{0, 1}, indexes)
	})

	t.Run("Replay tolerates a truncated tail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.gob")

		j, err := Create[record](path)
		require.NoError(t, err)
		require.NoError(t, j.AppendBatch([]record{{Key: "a"}, {Key: "b"}}))
		require.NoError(t, j.Close())

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NoError(t, os.Truncate(path, info.Size()-2))

		var count int
		err = Replay(path, func(uint64, record) error {
			count++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("Range stops on callback error", func(t *testing.T) {
		j, err := Create[int](filepath.Join(t.TempDir(), "run.gob"))
		require.NoError(t, err)
		defer j.Close()

		require.NoError(t, j.AppendBatch([]int{1, 2, 3}))

		stop := errors.New("stop")
		calls := 0
		err = j.Range(func(uint64, int) error {
			calls++
			return stop
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 1, calls)
	})

	t.Run("Replay missing file", func(t *testing.T) {
		err := Replay(filepath.Join(t.TempDir(), "missing.gob"), func(uint64, int) error { return nil })
		require.Error(t, err)
	})
}
