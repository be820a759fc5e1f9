package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader map[string][]byte

func (m mapLoader) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := m[key]; ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m[key] = b
	return b, nil
}

type thing struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSON(t *testing.T) {
	ctx := context.Background()
	m := mapLoader{}
	calls := 0
	load := func(context.Context) (*thing, error) {
		calls++
		return &thing{Name: "x"}, nil
	}

	got, err := GetOrLoadJSON(m, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)

	got, err = GetOrLoadJSON(m, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadJSON_NullAndErrors(t *testing.T) {
	ctx := context.Background()
	m := mapLoader{"nil": []byte("null"), "bad": []byte("{")}

	got, err := GetOrLoadJSON(m, ctx, "nil", time.Minute, func(context.Context) (*thing, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = GetOrLoadJSON(m, ctx, "bad", time.Minute, func(context.Context) (*thing, error) { return nil, nil })
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = GetOrLoadJSON(m, ctx, "miss", time.Minute, func(context.Context) (*thing, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}
