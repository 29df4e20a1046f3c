package generation

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/singleflight"
)

// TokenEstimator оценивает число токенов, когда провайдер не вернул usage.
type TokenEstimator interface {
	Count(model, text string) int
}

// fallbackEncoding используется для моделей, которых tiktoken не знает (Qwen, Llama).
const fallbackEncoding = "cl100k_base"

type encodingLoader func(model string) (*tiktoken.Tiktoken, error)

// loadEncoding может скачивать словарь BPE по сети.
func loadEncoding(model string) (*tiktoken.Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	return enc, err
}

// TiktokenEstimator кэширует кодировщики по модели. Словарь грузится в
// фоне, пока его нет, Count отдает грубую оценку по числу символов.
// Неудачная загрузка кэшируется, дальше используется только грубая оценка.
type TiktokenEstimator struct {
	load  encodingLoader
	loads singleflight.Group

	mu       sync.RWMutex
	encoders map[string]*tiktoken.Tiktoken
}

func NewTiktokenEstimator() *TiktokenEstimator {
	return newTiktokenEstimator(loadEncoding)
}

func newTiktokenEstimator(load encodingLoader) *TiktokenEstimator {
	return &TiktokenEstimator{load: load, encoders: make(map[string]*tiktoken.Tiktoken)}
}

func (e *TiktokenEstimator) Count(model, text string) int {
	if text == "" {
		return 0
	}
	enc, ready := e.encoder(model)
	if !ready {
		e.Warm(model)
	}
	if enc == nil {
		return approxTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Warm запускает загрузку словаря для модели и не ждет ее. Параллельные
// вызовы для одной модели делят одну загрузку.
func (e *TiktokenEstimator) Warm(model string) <-chan singleflight.Result {
	return e.loads.DoChan(model, func() (interface{}, error) {
		if enc, ok := e.encoder(model); ok {
			return enc, nil
		}
		enc, err := e.load(model)
		if err != nil {
			enc = nil
		}
		e.mu.Lock()
		e.encoders[model] = enc
		e.mu.Unlock()
		return enc, err
	})
}

func (e *TiktokenEstimator) encoder(model string) (*tiktoken.Tiktoken, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encoders[model]
	return enc, ok
}

// approxTokens около четырех символов на токен.
func approxTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}
