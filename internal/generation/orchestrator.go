package generation

import (
	"context"
	"time"

	"story-magic/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// State состояние одного прогона конвейера.
type State string

const (
	StateValidating       State = "validating"
	StateGeneratingText   State = "generating_text"
	StateGeneratingImages State = "generating_images"
	StateAssembling       State = "assembling"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// StoryGenerator точка входа конвейера генерации.
type StoryGenerator interface {
	Generate(ctx context.Context, in models.StoryInput) (*models.Story, error)
}

// Generator проводит вход через validating -> generating_text ->
// generating_images -> assembling -> done. В failed можно попасть только
// из первых двух состояний. Общего изменяемого состояния между прогонами нет.
type Generator struct {
	validator *PromptValidator
	text      TextGenerator
	images    ImageResolver
	assembler *Assembler
	deadline  time.Duration
	logger    *zap.Logger
}

var _ StoryGenerator = (*Generator)(nil)

// NewGenerator creates a Generator. deadline ограничивает весь прогон,
// 0 означает без ограничения.
func NewGenerator(text TextGenerator, images ImageResolver, assembler *Assembler, deadline time.Duration, logger *zap.Logger) *Generator {
	if assembler == nil {
		assembler = NewAssembler()
	}
	return &Generator{
		validator: NewPromptValidator(),
		text:      text,
		images:    images,
		assembler: assembler,
		deadline:  deadline,
		logger:    logger.Named("Generator"),
	}
}

// Generate выполняет весь конвейер. Отмена ctx вызывающей стороной прогон
// не прерывает: он доводится до конца или до собственного дедлайна.
// Ошибки: *ValidationError, *UpstreamError, *MalformedResponseError.
func (g *Generator) Generate(ctx context.Context, in models.StoryInput) (*models.Story, error) {
	runCtx := context.WithoutCancel(ctx)
	if g.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, g.deadline)
		defer cancel()
	}

	started := time.Now()
	log := g.logger.With(zap.Int("characters", len(in.Characters)), zap.Strings("genre", in.Genre))

	g.enter(log, StateValidating)
	if err := g.validator.Validate(in); err != nil {
		log.Info("Story input rejected", zap.Error(err))
		g.fail(log, "failed_validation")
		return nil, err
	}

	g.enter(log, StateGeneratingText)
	stageStart := time.Now()
	draft, err := g.text.GenerateStoryDraft(runCtx, in)
	observeStage(StateGeneratingText, stageStart)
	if err != nil {
		log.Error("Story text generation failed", zap.Error(err))
		g.fail(log, "failed_text")
		return nil, err
	}

	g.enter(log, StateGeneratingImages, zap.Int("scenes", len(draft.Scenes)))
	stageStart = time.Now()
	imageURLs := g.images.ResolveAll(runCtx, draft.Scenes)
	observeStage(StateGeneratingImages, stageStart)

	g.enter(log, StateAssembling)
	story := g.assembler.Assemble(in, draft, imageURLs)

	g.enter(log, StateDone)
	pipelineRunsTotal.With(prometheus.Labels{"outcome": string(StateDone)}).Inc()
	log.Info("Story generated",
		zap.String("storyID", story.ID),
		zap.String("title", story.Title),
		zap.Int("scenes", len(story.Scenes)),
		zap.Duration("duration", time.Since(started)),
	)
	return story, nil
}

func (g *Generator) enter(log *zap.Logger, state State, fields ...zap.Field) {
	pipelineStateTransitions.With(prometheus.Labels{"state": string(state)}).Inc()
	log.Debug("Pipeline state", append([]zap.Field{zap.String("state", string(state))}, fields...)...)
}

func (g *Generator) fail(log *zap.Logger, outcome string) {
	g.enter(log, StateFailed)
	pipelineRunsTotal.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func observeStage(state State, start time.Time) {
	pipelineStageDuration.With(prometheus.Labels{"stage": string(state)}).Observe(time.Since(start).Seconds())
}
