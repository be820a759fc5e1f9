package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sizing-eval/internal/core/database/dbtest"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/repo"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, f *domain.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockRepo) List(ctx context.Context, kind string, offset, limit int) ([]domain.Feedback, error) {
	args := m.Called(ctx, kind, offset, limit)
	rows, _ := args.Get(0).([]domain.Feedback)
	return rows, args.Error(1)
}

func (m *mockRepo) Count(ctx context.Context, kind string) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

type evalMap map[string]*domain.Evaluation

func (m evalMap) FindByID(_ context.Context, id string) (*domain.Evaluation, error) {
	return m[id], nil
}

func TestSubmitGeneral_RejectsBeforeWriting(t *testing.T) {
	ctx := context.Background()
	r := &mockRepo{}
	svc := NewService(r, evalMap{})

	cases := []struct {
		name  string
		owner string
		in    GeneralInput
		code  string
	}{
		{"anonymous", "", GeneralInput{Type: "bug", Title: "t", Description: "d"}, domain.CodeAuthRequired},
		{"missing title", "u1", GeneralInput{Type: "bug", Description: "d"}, domain.CodeMissingFields},
		{"unknown type", "u1", GeneralInput{Type: "invalid_type", Title: "t", Description: "d"}, domain.CodeInvalidType},
		{"bad email", "u1", GeneralInput{Type: "bug", Title: "t", Description: "d", Email: "nope"}, domain.CodeInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitGeneral(ctx, tc.owner, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.code, domain.CodeOf(err))
		})
	}
	r.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitGeneral_Stores(t *testing.T) {
	ctx := context.Background()
	r := &mockRepo{}
	r.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Feedback) bool {
		return f.Type == domain.FeedbackKindGeneral && *f.Category == "feature" &&
			f.OwnerID == "u1" && *f.ContactEmail == "me@example.com" && f.ID != ""
	})).Return(nil).Once()
	svc := NewService(r, evalMap{})

	rc, err := svc.SubmitGeneral(ctx, "u1", GeneralInput{Type: " Feature ", Title: "t", Description: "d", Email: "me@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackKindGeneral, rc.Type)
	r.AssertExpectations(t)
}

func TestSubmitModule(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	fr := repo.NewFeedbackRepo(db)
	svc := NewService(fr, evalMap{"e1": {ID: "e1"}})

	_, err := svc.SubmitModule(ctx, "", ModuleInput{EvaluationID: "e1", ModuleType: "technical", FeedbackType: "like"})
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))
	assert.Equal(t, domain.CodeAuthRequired, domain.CodeOf(err))

	_, err = svc.SubmitModule(ctx, "u1", ModuleInput{EvaluationID: "e1", ModuleType: "pricing", FeedbackType: "like"})
	assert.Equal(t, domain.CodeInvalidType, domain.CodeOf(err))
	_, err = svc.SubmitModule(ctx, "u1", ModuleInput{EvaluationID: "e1", ModuleType: "technical", FeedbackType: "meh"})
	assert.Equal(t, domain.CodeInvalidType, domain.CodeOf(err))
	_, err = svc.SubmitModule(ctx, "u1", ModuleInput{ModuleType: "technical", FeedbackType: "like"})
	assert.Equal(t, domain.CodeMissingFields, domain.CodeOf(err))
	_, err = svc.SubmitModule(ctx, "u1", ModuleInput{EvaluationID: "ghost", ModuleType: "technical", FeedbackType: "like"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = svc.SubmitModule(ctx, "u1", ModuleInput{EvaluationID: "e1", ModuleType: "Technical", FeedbackType: "dislike"})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{Type: domain.FeedbackKindModule})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	got := page.Items[0]
	assert.Equal(t, "technical", *got.ModuleName)
	assert.Equal(t, "negative", *got.Rating)
	assert.Equal(t, "e1", *got.EvaluationID)

	page, err = svc.List(ctx, ListQuery{Type: domain.FeedbackKindGeneral})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)

	_, err = svc.List(ctx, ListQuery{Type: "spam"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
