package jobs

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/snippet-engine/internal/asset"
	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/pipeline"
	"github.com/sevigo/snippet-engine/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline() *pipeline.Service {
	registry := engine.NewRegistry()
	printscript.Register(registry)
	return pipeline.NewService(registry, pipeline.NewDriver(pipeline.DefaultBatchSize), nil, discardLogger())
}

const lintPayload = `{"snippetId":"abc","snippetVersion":"1.0","userRules":[{"ruleName":"identifier_format","value":"camel case"}],"allRules":["identifier_format","println_arguments"]}`

func TestLintJob_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	results := mocks.NewMockResultStore(ctrl)

	want := core.SnippetLintResults{
		SnippetID: "abc",
		Results:   []core.LintResult{{Message: "identifier 'bad_name' does not match camel case", Line: 1, Column: 5}},
	}
	gomock.InOrder(
		assets.EXPECT().Fetch(gomock.Any(), asset.DefaultContainer, "abc").Return("let bad_name = 1;\nprintln(bad_name);", nil),
		results.EXPECT().SaveLintResults(gomock.Any(), want).Return(nil),
		publisher.EXPECT().SaveLintResults(gomock.Any(), want).Return(&want, nil),
	)

	job := NewLintJob(newPipeline(), assets, publisher, results, asset.DefaultContainer, discardLogger())
	require.NoError(t, job.Run(context.Background(), []byte(lintPayload)))
	assert.Equal(t, "lint", job.Name())
}

func TestLintJob_MissingSnippetIDTouchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	job := NewLintJob(newPipeline(), assets, publisher, nil, asset.DefaultContainer, discardLogger())
	err := job.Run(context.Background(), []byte(`{"snippetVersion":"1.0","userRules":[],"allRules":[]}`))

	require.ErrorIs(t, err, core.ErrMalformedMessage)
	assert.Equal(t, core.KindRequestValidation, core.Classify(err))
}

func TestLintJob_ParseFailurePublishesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	assets.EXPECT().Fetch(gomock.Any(), asset.DefaultContainer, "abc").Return("let = ;", nil)

	job := NewLintJob(newPipeline(), assets, publisher, nil, asset.DefaultContainer, discardLogger())
	err := job.Run(context.Background(), []byte(lintPayload))

	assert.ErrorIs(t, err, pipeline.ErrFatal)
	assert.Equal(t, core.KindPipelineFatal, core.Classify(err))
}

func TestLintJob_FetchFailureIsDependencyFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	assets.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return("", asset.ErrUnavailable)

	job := NewLintJob(newPipeline(), assets, publisher, nil, asset.DefaultContainer, discardLogger())
	err := job.Run(context.Background(), []byte(lintPayload))
	assert.True(t, core.Classify(err).Retryable())
}

func TestLintJob_RedeliveryIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	assets.EXPECT().Fetch(gomock.Any(), gomock.Any(), "abc").Return("let ok = 1;", nil).Times(2)
	var published []core.SnippetLintResults
	publisher.EXPECT().SaveLintResults(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r core.SnippetLintResults) (*core.SnippetLintResults, error) {
			published = append(published, r)
			return nil, nil
		}).Times(2)

	job := NewLintJob(newPipeline(), assets, publisher, nil, asset.DefaultContainer, discardLogger())
	require.NoError(t, job.Run(context.Background(), []byte(lintPayload)))
	require.NoError(t, job.Run(context.Background(), []byte(lintPayload)))

	require.Len(t, published, 2)
	assert.Equal(t, published[0], published[1])
	assert.Equal(t, "abc", published[0].SnippetID)
	assert.Empty(t, published[0].Results)
}

func TestFormatJob_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)

	gomock.InOrder(
		assets.EXPECT().Fetch(gomock.Any(), asset.DefaultContainer, "abc").Return("let x:number=1;println(x);", nil),
		assets.EXPECT().Update(gomock.Any(), asset.DefaultContainer, "abc", "let x: number = 1;\n\nprintln(x);").Return(nil),
	)

	payload := `{"snippetId":"abc","snippetVersion":"1.0",
		"userRules":[{"ruleName":"space_after_colon","value":1},{"ruleName":"space_around_equals","value":1},{"ruleName":"line_breaks_before_println","value":1}],
		"allRules":["space_before_colon","space_after_colon","space_around_equals","line_breaks_before_println"]}`

	job := NewFormatJob(newPipeline(), assets, asset.DefaultContainer, discardLogger())
	require.NoError(t, job.Run(context.Background(), []byte(payload)))
	assert.Equal(t, "format", job.Name())
}

// memoryAssets backs a MockStore with a single stored snippet.
func memoryAssets(ctrl *gomock.Controller, content string) (*mocks.MockStore, func() string) {
	var mu sync.Mutex
	assets := mocks.NewMockStore(ctrl)
	assets.EXPECT().Fetch(gomock.Any(), asset.DefaultContainer, "abc").DoAndReturn(
		func(context.Context, string, string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			return content, nil
		}).AnyTimes()
	assets.EXPECT().Update(gomock.Any(), asset.DefaultContainer, "abc", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _, updated string) error {
			mu.Lock()
			defer mu.Unlock()
			content = updated
			return nil
		}).AnyTimes()
	return assets, func() string {
		mu.Lock()
		defer mu.Unlock()
		return content
	}
}

func TestFormatJob_RedeliveryIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{name: "defaults", rules: `"userRules":[],"allRules":[]`},
		{
			name: "all rules on",
			rules: `"userRules":[{"ruleName":"space_before_colon","value":1},{"ruleName":"space_after_colon","value":1},{"ruleName":"space_around_equals","value":1},{"ruleName":"line_breaks_before_println","value":2}],
				"allRules":["space_before_colon","space_after_colon","space_around_equals","line_breaks_before_println"]`,
		},
		{
			name: "spacing off",
			rules: `"userRules":[{"ruleName":"line_breaks_before_println","value":5}],
				"allRules":["space_before_colon","space_after_colon","space_around_equals","line_breaks_before_println"]`,
		},
	}
	const source = `println("start");let a:number=1+2*3;let s : string='hi';a=(a-1)/2;println(s+a);println(-a);`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			assets, stored := memoryAssets(ctrl, source)
			payload := []byte(`{"snippetId":"abc","snippetVersion":"1.0",` + tt.rules + `}`)
			job := NewFormatJob(newPipeline(), assets, asset.DefaultContainer, discardLogger())

			require.NoError(t, job.Run(context.Background(), payload))
			first := stored()
			require.NoError(t, job.Run(context.Background(), payload))

			assert.NotEqual(t, source, first)
			assert.Equal(t, first, stored())
			assert.False(t, strings.HasSuffix(first, "\n"))
		})
	}
}

func TestFormatJob_UpdateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)

	assets.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return("println(1);", nil)
	assets.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(asset.ErrUnavailable)

	job := NewFormatJob(newPipeline(), assets, asset.DefaultContainer, discardLogger())
	err := job.Run(context.Background(), []byte(`{"snippetId":"abc","snippetVersion":"1.0"}`))
	assert.ErrorIs(t, err, asset.ErrUnavailable)
}

func TestNewJobsPanicOnMissingDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockStore(ctrl)
	svc := newPipeline()

	assert.Panics(t, func() { NewLintJob(nil, assets, mocks.NewMockPublisher(ctrl), nil, "", discardLogger()) })
	assert.Panics(t, func() { NewLintJob(svc, assets, nil, nil, "", discardLogger()) })
	assert.Panics(t, func() { NewFormatJob(svc, nil, "", discardLogger()) })
}
