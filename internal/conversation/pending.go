package conversation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
)

// Pending is a submission waiting for its reply
type Pending struct {
	controller *Controller
	text       string
	answer     string
	preset     bool
	submitted  time.Time

	once   sync.Once
	result Result
}

// Text returns the submitted text as typed
func (p *Pending) Text() string {
	return p.text
}

// IsPreset reports whether the text matched a preset question
func (p *Pending) IsPreset() bool {
	return p.preset
}

// Resolve produces the reply and appends it to the conversation. It blocks
// for the preset delay or the backend round trip. Calling it again returns
// the first result without side effects. Failures never escape: they become
// an apology message.
func (p *Pending) Resolve(ctx context.Context) Result {
	p.once.Do(func() {
		p.result = p.resolve(ctx)
		p.controller.finish(p.result.Message)

		fields := []zap.Field{
			zap.String("source", string(p.result.Source)),
			zap.Duration("elapsed", p.result.Elapsed),
		}
		if p.result.Err != nil {
			fields = append(fields, zap.String("kind", apierrors.Kind(p.result.Err)), zap.Error(p.result.Err))
			p.controller.logger.Warn("reply failed", fields...)
		} else {
			p.controller.logger.Info("reply appended", fields...)
		}
	})
	return p.result
}

func (p *Pending) resolve(ctx context.Context) Result {
	c := p.controller

	if p.preset {
		c.sleep(ctx, c.presetDelay)
		return Result{
			Message: models.AssistantMessage(p.answer),
			Source:  models.SourcePreset,
			Elapsed: time.Since(p.submitted),
		}
	}

	if c.client == nil {
		return p.apology(apierrors.ErrClientClosed)
	}

	reply, err := c.client.SendMessage(ctx, p.text)
	if err != nil {
		return p.apology(err)
	}
	return Result{
		Message: models.AssistantMessage(reply.Content()),
		Source:  models.SourceBackend,
		Elapsed: time.Since(p.submitted),
	}
}

func (p *Pending) apology(err error) Result {
	return Result{
		Message: models.AssistantMessage(models.ApologyText),
		Source:  models.SourceError,
		Err:     err,
		Elapsed: time.Since(p.submitted),
	}
}
