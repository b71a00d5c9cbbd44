package duck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

type photoRecord struct {
	ID     int     `duck:"PhotoID"`
	Title  string  `duck:"Title"`
	Rating float64 `duck:"Rating"`
	note   string  //nolint:unused // unexported fields are ignored by design
}

func TestContractFor(t *testing.T) {
	t.Run("derives value members from struct fields", func(t *testing.T) {
		c, err := ContractFor("Photo", photoRecord{})
		require.NoError(t, err)
		assert.Equal(t, []string{"PhotoID", "Title", "Rating"}, c.MemberNames())
		for _, m := range c.Members {
			assert.Equal(t, KindValue, m.Kind)
		}
	})

	t.Run("pointer source", func(t *testing.T) {
		c, err := ContractFor("Photo", &photoRecord{})
		require.NoError(t, err)
		assert.Len(t, c.Members, 3)
	})

	t.Run("skip tag", func(t *testing.T) {
		type rec struct {
			Keep string
			Skip string `duck:"-"`
		}
		c, err := ContractFor("rec", rec{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Keep"}, c.MemberNames())
	})

	t.Run("non-struct source", func(t *testing.T) {
		_, err := ContractFor("n", 42)
		require.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots and converts members", func(t *testing.T) {
		target := forward.NewValueTarget("script object", map[string]any{
			"PhotoID": int64(42),
			"Title":   "sunset",
			"Rating":  "4.5",
		})

		var rec photoRecord
		require.NoError(t, Decode(ctx, forward.Wrap(target), &rec))
		assert.Equal(t, 42, rec.ID)
		assert.Equal(t, "sunset", rec.Title)
		assert.InDelta(t, 4.5, rec.Rating, 0.001)
	})

	t.Run("missing members fail at construction", func(t *testing.T) {
		target := forward.NewValueTarget("script object", map[string]any{"Title": "sunset"})

		var rec photoRecord
		err := Decode(ctx, forward.Wrap(target), &rec)
		require.Error(t, err)

		var bindErr *BindError
		require.ErrorAs(t, err, &bindErr)
		assert.Contains(t, bindErr.Error(), "PhotoID")
		assert.Contains(t, bindErr.Error(), "Rating")
	})

	t.Run("unconvertible member surfaces conversion error", func(t *testing.T) {
		target := forward.NewValueTarget("script object", map[string]any{
			"PhotoID": "not-a-number",
			"Title":   "sunset",
			"Rating":  1.0,
		})

		var rec photoRecord
		err := Decode(ctx, forward.Wrap(target), &rec)
		require.Error(t, err)
		assert.True(t, forward.IsTypeConversion(err))
	})
}
