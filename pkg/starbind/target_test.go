package starbind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

func TestObjectTarget_Read(t *testing.T) {
	ctx := context.Background()
	script := loadGallery(t)

	obj, err := script.Resolve("photo")
	require.NoError(t, err)

	t.Run("members are dict keys", func(t *testing.T) {
		assert.Equal(t, []string{"PhotoID", "Title"}, obj.Members())
	})

	t.Run("scalar members convert at the boundary", func(t *testing.T) {
		id, err := forward.ReadAs[int](ctx, obj, "PhotoID")
		require.NoError(t, err)
		assert.Equal(t, 42, id)

		title, err := forward.ReadAs[string](ctx, obj, "Title")
		require.NoError(t, err)
		assert.Equal(t, "sunset", title)
	})

	t.Run("missing member fails with MemberNotFound", func(t *testing.T) {
		_, err := obj.Read(ctx, "Rating")
		require.Error(t, err)
		assert.True(t, forward.IsMemberNotFound(err))
	})
}

func TestObjectTarget_WriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	script := loadGallery(t)

	obj, err := script.Resolve("photo")
	require.NoError(t, err)

	require.NoError(t, obj.Write(ctx, "Rating", 4.5))

	rating, err := forward.ReadAs[float64](ctx, obj, "Rating")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, rating, 0.001)
}

func TestObjectTarget_Invoke(t *testing.T) {
	ctx := context.Background()
	script := loadGallery(t)

	api, err := script.Resolve("api")
	require.NoError(t, err)

	t.Run("value-shaped call converts the result", func(t *testing.T) {
		v, err := api.InvokeValue(ctx, "describe", "sunset", 5)
		require.NoError(t, err)
		assert.Equal(t, "sunset (5)", v)
	})

	t.Run("handle-shaped call wraps the result", func(t *testing.T) {
		photo, err := api.InvokeHandle(ctx, "make_photo", 99)
		require.NoError(t, err)
		assert.Equal(t, "script object", photo.Kind())

		id, err := forward.ReadAs[int](ctx, photo, "PhotoID")
		require.NoError(t, err)
		assert.Equal(t, 99, id)
	})

	t.Run("invoking a non-callable member fails with InvalidTarget", func(t *testing.T) {
		_, err := api.InvokeValue(ctx, "version")
		require.Error(t, err)
		assert.True(t, forward.IsInvalidTarget(err))
	})

	t.Run("unknown member fails with MemberNotFound", func(t *testing.T) {
		_, err := api.InvokeValue(ctx, "delete")
		require.Error(t, err)
		assert.True(t, forward.IsMemberNotFound(err))
	})

	t.Run("script errors surface to the caller", func(t *testing.T) {
		_, err := api.InvokeValue(ctx, "describe")
		require.Error(t, err)
	})
}

func TestObjectTarget_WriteOnScalar(t *testing.T) {
	ctx := context.Background()
	script, err := LoadSource("s.star", "count = 1\n")
	require.NoError(t, err)

	obj, err := script.Resolve("count")
	require.NoError(t, err)

	err = obj.Write(ctx, "value", 2)
	require.Error(t, err)
	assert.True(t, forward.IsInvalidTarget(err))
}

func TestElements(t *testing.T) {
	script := loadGallery(t)

	t.Run("iterates a list-shaped object", func(t *testing.T) {
		albums, err := script.Resolve("albums")
		require.NoError(t, err)

		elems, err := Elements(albums)
		require.NoError(t, err)
		assert.Equal(t, []any{"travel", "family"}, elems)
	})

	t.Run("non-iterable object fails with InvalidTarget", func(t *testing.T) {
		fn, err := script.Resolve("describe")
		require.NoError(t, err)

		_, err = Elements(fn)
		require.Error(t, err)
		assert.True(t, forward.IsInvalidTarget(err))
	})
}

func TestConversionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"string", "hello"},
		{"int64", int64(42)},
		{"float", 2.5},
		{"bool", true},
		{"nil", nil},
		{"list", []any{int64(1), "two"}},
		{"map", map[string]any{"k": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv, err := ToStarlark(tt.in)
			require.NoError(t, err)

			back, err := FromStarlark(sv)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestToStarlark_Unsupported(t *testing.T) {
	type opaque struct{}
	_, err := ToStarlark(opaque{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
