package workflow

import (
	"context"
	"fmt"
)

// RunVerify drives the verification flow to its end through a blocking
// Prompter. A declined prompt returns a zero Outcome and nil error. If ctx
// ends while the code is being confirmed the workflow is aborted.
func (w *Workflow) RunVerify(ctx context.Context, p Prompter) (Outcome, error) {
	req, err := w.StartVerify()
	if err != nil {
		return Outcome{}, err
	}

	code, ok, err := p.PromptCode(ctx, req)
	if err != nil {
		_, _ = w.SubmitCode(ctx, CodeResponse{RequestID: req.ID, Declined: true})
		return Outcome{}, fmt.Errorf("prompt for code: %w", err)
	}
	task, err := w.SubmitCode(ctx, CodeResponse{RequestID: req.ID, Code: code, Declined: !ok})
	if err != nil || task == nil {
		return Outcome{}, err
	}

	res, err := task.Wait(ctx)
	if err != nil {
		w.Abort()
		return Outcome{}, err
	}
	return w.Finish(ctx, res)
}

// RunCancel drives the cancellation flow through a blocking Prompter.
func (w *Workflow) RunCancel(ctx context.Context, p Prompter) (Outcome, error) {
	req, err := w.StartCancel()
	if err != nil {
		return Outcome{}, err
	}

	yes, err := p.Confirm(ctx, req)
	if err != nil {
		_, _ = w.AnswerCancel(ctx, ConfirmResponse{RequestID: req.ID})
		return Outcome{}, fmt.Errorf("confirm cancel: %w", err)
	}
	return w.AnswerCancel(ctx, ConfirmResponse{RequestID: req.ID, Confirmed: yes})
}
