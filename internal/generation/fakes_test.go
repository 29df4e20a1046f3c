package generation_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"story-magic/internal/generation"
)

// scriptedCall результат одной попытки create + wait.
type scriptedCall struct {
	createErr error
	waitErr   error
	status    string
	output    any
}

func succeeded(output any) scriptedCall {
	return scriptedCall{status: generation.PredictionSucceeded, output: output}
}

// scriptedPredictor отдает заранее заданные результаты по порядку и
// фиксирует пересечения запросов и журнал событий.
type scriptedPredictor struct {
	mu       sync.Mutex
	script   []scriptedCall
	pending  map[string]scriptedCall
	inputs   []generation.PredictionInput
	creates  int
	events   *eventLog
	inFlight int32
	overlap  atomic.Bool
	work     time.Duration
}

func newScriptedPredictor(events *eventLog, script ...scriptedCall) *scriptedPredictor {
	return &scriptedPredictor{script: script, pending: map[string]scriptedCall{}, events: events}
}

func (p *scriptedPredictor) CreatePrediction(ctx context.Context, model string, input generation.PredictionInput) (*generation.Prediction, error) {
	if atomic.AddInt32(&p.inFlight, 1) > 1 {
		p.overlap.Store(true)
	}

	p.mu.Lock()
	idx := p.creates
	p.creates++
	p.inputs = append(p.inputs, input)
	call := scriptedCall{createErr: fmt.Errorf("unexpected prediction #%d", idx)}
	if idx < len(p.script) {
		call = p.script[idx]
	}
	id := fmt.Sprintf("pred-%d", idx)
	p.pending[id] = call
	p.mu.Unlock()

	p.events.add("create")
	if call.createErr != nil {
		atomic.AddInt32(&p.inFlight, -1)
		return nil, call.createErr
	}
	return &generation.Prediction{ID: id, Status: generation.PredictionStarting}, nil
}

func (p *scriptedPredictor) Wait(ctx context.Context, prediction *generation.Prediction) (*generation.Prediction, error) {
	defer atomic.AddInt32(&p.inFlight, -1)
	if p.work > 0 {
		time.Sleep(p.work)
	}

	p.mu.Lock()
	call := p.pending[prediction.ID]
	p.mu.Unlock()

	p.events.add("wait")
	if call.waitErr != nil {
		return prediction, call.waitErr
	}
	return &generation.Prediction{ID: prediction.ID, Status: call.status, Output: call.output}, nil
}

func (p *scriptedPredictor) createCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creates
}

// recordingPacer не спит, а только записывает запрошенные паузы.
type recordingPacer struct {
	mu     sync.Mutex
	pauses []time.Duration
	events *eventLog
	err    error
}

func (r *recordingPacer) Pause(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.pauses = append(r.pauses, d)
	r.mu.Unlock()
	r.events.add("pause:" + d.String())
	return r.err
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func testImageOptions() generation.ImageOptions {
	return generation.ImageOptions{
		Model:      "black-forest-labs/flux-1.1-pro",
		SceneDelay: 12 * time.Second,
		RetryDelay: 15 * time.Second,
		Enabled:    true,
	}
}

func fiveScenes() []generation.SceneDraft {
	scenes := make([]generation.SceneDraft, 5)
	for i := range scenes {
		scenes[i] = generation.SceneDraft{
			Text:        fmt.Sprintf("Scene text %d", i),
			ImagePrompt: fmt.Sprintf("Mia and the talking cat, moment %d", i),
		}
	}
	return scenes
}
