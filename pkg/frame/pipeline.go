package frame

import (
	"context"
	"fmt"
	"time"
)

// Transform is a mutation or validation applied to a Frame. A transform
// may modify f in place or return a new frame.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// StepObserver is told how long each step took and how many rows it left.
type StepObserver func(step string, rows int, elapsed time.Duration)

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps    []Transform
	observer StepObserver
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Observe installs fn as the step observer.
func (p *Pipeline) Observe(fn StepObserver) *Pipeline {
	p.observer = fn
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		if p.observer != nil {
			p.observer(t.Name(), cur.Rows(), time.Since(start))
		}
	}
	return cur, nil
}
