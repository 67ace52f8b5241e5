package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Type() string { return "mock" }

func (m *MockSource) Open(ctx context.Context, cfg source.Config) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockSource) Load(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockSource) Close() error {
	return m.Called().Error(0)
}

func TestRouter_Load(t *testing.T) {
	ctx := context.Background()
	cfg := source.Config{Location: "somewhere", Table: "companies"}
	companies := []domain.Company{{CompanyName: "Acme"}, {CompanyName: "Beta"}}

	src := new(MockSource)
	src.On("Open", ctx, cfg).Return(nil)
	src.On("Load", ctx).Return(companies, nil)
	src.On("Close").Return(nil)

	r := source.NewRouter()
	r.Register("mock", func() source.Source { return src })

	got, err := r.Load(ctx, "mock", cfg)
	require.NoError(t, err)
	assert.Equal(t, companies, got)
	src.AssertExpectations(t)
}

func TestRouter_LoadClosesOnError(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("Open", ctx, mock.Anything).Return(nil)
	src.On("Load", ctx).Return(nil, errors.New("boom"))
	src.On("Close").Return(nil)

	r := source.NewRouter()
	r.Register("mock", func() source.Source { return src })

	_, err := r.Load(ctx, "mock", source.Config{})
	assert.ErrorContains(t, err, "boom")
	src.AssertCalled(t, "Close")
}

func TestRouter_OpenFailure(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("Open", ctx, mock.Anything).Return(errors.New("refused"))

	r := source.NewRouter()
	r.Register("mock", func() source.Source { return src })

	_, err := r.Load(ctx, "mock", source.Config{})
	assert.ErrorContains(t, err, "refused")
	src.AssertNotCalled(t, "Load", mock.Anything)
	src.AssertNotCalled(t, "Close")
}

func TestRouter_Unsupported(t *testing.T) {
	r := source.NewRouter()
	r.Register("b", nil)
	r.Register("a", nil)

	assert.Equal(t, []string{"a", "b"}, r.Supported())

	_, err := r.Load(context.Background(), "elasticsearch", source.Config{})
	assert.ErrorContains(t, err, "unsupported catalog source: elasticsearch")
}

func TestValidateTable(t *testing.T) {
	assert.NoError(t, source.ValidateTable("companies"))
	assert.NoError(t, source.ValidateTable("_yc_2024"))
	assert.Error(t, source.ValidateTable(""))
	assert.Error(t, source.ValidateTable("companies; DROP TABLE x"))
	assert.Error(t, source.ValidateTable("public.companies"))
}

func TestRow_RoundTrip(t *testing.T) {
	id, year := 7, 2019
	status := "Active"
	in := domain.Company{
		CompanyID:     &id,
		CompanyName:   "Acme",
		Status:        &status,
		Tags:          []string{"AI", "Fintech"},
		YearFounded:   &year,
		FoundersNames: []string{"Ada"},
		TeamSize:      12,
	}

	row, err := source.NewRow(in)
	require.NoError(t, err)
	assert.Equal(t, `["AI","Fintech"]`, *row.Tags)
	assert.Nil(t, row.ImageURLs)
	assert.Len(t, row.Args(), len(row.Dest()))

	out, err := row.Company()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRow_BadList(t *testing.T) {
	bad := "not json"
	row := source.Row{CompanyName: "Acme", Tags: &bad}

	_, err := row.Company()
	assert.ErrorContains(t, err, `tags of "Acme"`)
}
