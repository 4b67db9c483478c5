package core

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/resolver"
	"github.com/voxkit/voxkit/pkg/speech"
)

// Control intents the loop interprets itself instead of handing out.
const (
	controlCategory = "control"
	intentSleep     = "stop_listening"
	intentWake      = "wake_up"
)

// Listen drives the recognize-resolve loop for one session: each
// utterance from rec is resolved under token and handed to handle.
//
// The control intents are interpreted in the loop: stop_listening puts
// it to sleep, wake_up wakes it, and while asleep everything else is
// ignored. The loop ends cleanly when rec is exhausted; an invalid or
// expired session ends it with resolver.ErrUnauthorized.
func (c *Core) Listen(ctx context.Context, token string, rec speech.Recognizer, syn speech.Synthesizer, handle func(*intent.Command)) error {
	awake := true
	for {
		text, err := rec.Recognize(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		cmd, err := c.Resolver.ResolveAuthorized(ctx, token, text)
		if err != nil {
			if errors.Is(err, resolver.ErrUnauthorized) {
				return err
			}
			if errors.Is(err, intent.ErrNoMatch) {
				if awake {
					if err := syn.Speak(ctx, "no matching command"); err != nil {
						return err
					}
				}
				continue
			}
			return err
		}

		if cmd.Category == controlCategory {
			switch cmd.Intent {
			case intentSleep:
				if awake {
					awake = false
					if err := syn.Speak(ctx, "going to sleep"); err != nil {
						return err
					}
				}
			case intentWake:
				if !awake {
					awake = true
					if err := syn.Speak(ctx, "listening"); err != nil {
						return err
					}
				}
			}
			continue
		}

		if !awake {
			slog.Debug("ignored while asleep", "intent", cmd.Intent)
			continue
		}
		handle(cmd)
	}
}
