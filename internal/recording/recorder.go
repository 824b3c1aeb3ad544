package recording

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pageObject/internal/component"
)

// Recorder writes the interactions of one session to a Store as a run.
type Recorder struct {
	store Store
	log   *zap.Logger
	run   Run
}

var _ component.Recorder = (*Recorder)(nil)

// Start opens a run named name.
func Start(ctx context.Context, store Store, log *zap.Logger, name, browserName string) (*Recorder, error) {
	r := &Recorder{
		store: store,
		log:   log,
		run: Run{
			Name:      name,
			Browser:   browserName,
			Status:    StatusRunning,
			StartedAt: time.Now(),
		},
	}
	if err := store.CreateRun(ctx, &r.run); err != nil {
		return nil, err
	}
	r.Record(ctx, component.Interaction{Type: component.InteractionStart, Text: name, At: r.run.StartedAt})
	return r, nil
}

func (r *Recorder) RunID() uint { return r.run.ID }

// Record stores in. Failures are logged, they never fail the session.
func (r *Recorder) Record(ctx context.Context, in component.Interaction) {
	at := in.At
	if at.IsZero() {
		at = time.Now()
	}
	row := &Interaction{
		RunID:      r.run.ID,
		Type:       string(in.Type),
		Component:  in.Component,
		Selector:   in.Selector,
		Text:       in.Text,
		Screenshot: in.Screenshot,
		At:         at,
	}
	if err := r.store.AddInteraction(ctx, row); err != nil {
		r.log.Warn("record interaction", zap.Uint("run", r.run.ID), zap.String("type", row.Type), zap.Error(err))
	}
}

// End closes the run, failed when runErr is not nil. screenshot names the failure screenshot, if any.
func (r *Recorder) End(ctx context.Context, runErr error, screenshot string) error {
	status, errText := StatusPassed, ""
	if runErr != nil {
		status, errText = StatusFailed, runErr.Error()
		r.Record(ctx, component.Interaction{Type: component.InteractionError, Text: errText, Screenshot: screenshot})
	}
	r.Record(ctx, component.Interaction{Type: component.InteractionEnd, Text: status})
	return r.store.FinishRun(ctx, r.run.ID, status, errText, time.Now())
}
