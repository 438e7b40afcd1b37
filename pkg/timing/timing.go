// Package timing records how long each benchmark step takes and exports the
// samples as log lines, Go benchmark format and a prometheus textfile.
package timing

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sample is one timed step.
type Sample struct {
	Engine  string
	Step    string
	File    string
	Elapsed time.Duration
}

type recorder struct {
	mu      sync.Mutex
	samples []Sample
}

// Timer times steps for one engine. Timers made with Engine share their
// samples and start time with the parent.
type Timer struct {
	log    *zap.Logger
	engine string
	start  time.Time
	rec    *recorder
	now    func() time.Time
}

func New(log *zap.Logger) *Timer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Timer{log: log, start: time.Now(), rec: &recorder{}, now: time.Now}
}

// Engine returns a Timer labelled with name.
func (t *Timer) Engine(name string) *Timer {
	c := *t
	c.engine = name
	return &c
}

func (t *Timer) record(step, file string, elapsed time.Duration) {
	t.rec.mu.Lock()
	t.rec.samples = append(t.rec.samples, Sample{Engine: t.engine, Step: step, File: file, Elapsed: elapsed})
	t.rec.mu.Unlock()
	t.log.Info(fmt.Sprintf("function %s (engine %s) took %.4f seconds", step, t.engine, elapsed.Seconds()),
		zap.String("engine", t.engine),
		zap.String("step", step),
		zap.String("file", file),
		zap.Duration("elapsed", elapsed),
	)
}

// Do runs fn as step and records its duration, whether or not it fails.
// file names the input or output the step works on and may be empty.
func (t *Timer) Do(step, file string, fn func() error) error {
	start := t.now()
	err := fn()
	t.record(step, file, t.now().Sub(start))
	return err
}

// Value is Do for a step that produces a value.
func Value[T any](t *Timer, step, file string, fn func() (T, error)) (T, error) {
	var v T
	err := t.Do(step, file, func() error {
		var err error
		v, err = fn()
		return err
	})
	return v, err
}

// Samples returns a copy of everything recorded so far.
func (t *Timer) Samples() []Sample {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	return append([]Sample(nil), t.rec.samples...)
}

// Total logs and returns the time since the root Timer was created.
func (t *Timer) Total() time.Duration {
	d := t.now().Sub(t.start)
	t.log.Info(fmt.Sprintf("total execution time %.4f seconds", d.Seconds()), zap.Duration("elapsed", d))
	return d
}
