package site

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizing-eval/internal/core/database/dbtest"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/repo"
)

// memCache keeps values until invalidated.
type memCache struct {
	vals  map[string][]byte
	loads int
}

func (m *memCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := m.vals[key]; ok {
		return b, nil
	}
	m.loads++
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m.vals[key] = b
	return b, nil
}

func (m *memCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.vals, k)
	}
	return nil
}

func newService(t *testing.T, c Cache) *Service {
	db := dbtest.New(t)
	return NewService(repo.NewSiteConfigRepo(db), repo.NewAnnouncementRepo(db), c, time.Minute, nil)
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestStatus_Empty(t *testing.T) {
	st, err := newService(t, nil).Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Maintenance)
	assert.Nil(t, st.Latest)
	assert.NotNil(t, st.Announcements)
}

func TestStatus_CachedUntilAdminWrite(t *testing.T) {
	ctx := context.Background()
	c := &memCache{vals: map[string][]byte{}}
	svc := newService(t, c)

	_, err := svc.Status(ctx)
	require.NoError(t, err)
	_, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.loads)

	_, err = svc.UpsertConfig(ctx, ConfigPatch{Maintenance: boolPtr(true), MaintenanceMessage: strPtr(" back soon ")})
	require.NoError(t, err)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.loads)
	assert.True(t, st.Maintenance)
	assert.Equal(t, "back soon", st.MaintenanceMessage)
}

func TestUpsertConfig_Merges(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	_, err := svc.UpsertConfig(ctx, ConfigPatch{Maintenance: boolPtr(true), MaintenanceMessage: strPtr("down")})
	require.NoError(t, err)
	cfg, err := svc.UpsertConfig(ctx, ConfigPatch{Maintenance: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, cfg.Maintenance)
	assert.Equal(t, "down", cfg.MaintenanceMessage)

	got, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.False(t, got.Maintenance)
	assert.Equal(t, "down", got.MaintenanceMessage)
}

func TestAnnouncements(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	_, err := svc.CreateAnnouncement(ctx, AnnouncementInput{Title: " "})
	assert.Equal(t, domain.CodeMissingFields, domain.CodeOf(err))

	first, err := svc.CreateAnnouncement(ctx, AnnouncementInput{Title: "one", Content: "c1"})
	require.NoError(t, err)
	assert.True(t, first.Active)
	hidden, err := svc.CreateAnnouncement(ctx, AnnouncementInput{Title: "draft", Content: "c", Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, hidden.Active)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.CreateAnnouncement(ctx, AnnouncementInput{Title: "two", Content: "c2"})
	require.NoError(t, err)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.Latest)
	assert.Equal(t, second.ID, st.Latest.ID)
	assert.Len(t, st.Announcements, 2, "inactive ones are hidden")

	time.Sleep(5 * time.Millisecond)
	updated, err := svc.UpdateAnnouncement(ctx, first.ID, AnnouncementPatch{Content: strPtr("c1 edited")})
	require.NoError(t, err)
	assert.Equal(t, "c1 edited", updated.Content)

	st, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, st.Latest.ID, "most recently updated comes first")

	_, err = svc.UpdateAnnouncement(ctx, "ghost", AnnouncementPatch{Active: boolPtr(false)})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.UpdateAnnouncement(ctx, first.ID, AnnouncementPatch{Title: strPtr("")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	all, err := svc.ListAnnouncements(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
