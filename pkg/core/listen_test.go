package core

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/resolver"
	"github.com/voxkit/voxkit/pkg/speech"
)

func TestListenHandlesCommands(t *testing.T) {
	ctx := context.Background()
	c := openTest(t, Config{EmbeddingDim: 8})

	token, err := c.Sessions.Create(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}

	rec := &speech.StaticRecognizer{Utterances: []string{
		"open chrome",
		"stop listening",
		"shutdown", // asleep: ignored
		"wake up",
		"volume up",
		"asdkjasdkj", // no match
	}}

	var got []*intent.Command
	err = c.Listen(ctx, token, rec, speech.NopSynthesizer{}, func(cmd *intent.Command) {
		got = append(got, cmd)
	})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("handled commands: want 2, got %d (%+v)", len(got), got)
	}
	if got[0].Intent != "open" || got[0].Params["app_name"] != "chrome" {
		t.Errorf("first command: %+v", got[0])
	}
	if got[1].Intent != "volume_up" {
		t.Errorf("second command: %+v", got[1])
	}
}

func TestListenSpeaksStateChanges(t *testing.T) {
	ctx := context.Background()
	c := openTest(t, Config{EmbeddingDim: 8})
	token, _ := c.Sessions.Create(ctx, "alice")

	rec := &speech.StaticRecognizer{Utterances: []string{"stop listening", "wake up"}}
	var buf bytes.Buffer
	if err := c.Listen(ctx, token, rec, speech.WriterSynthesizer{W: &buf}, func(*intent.Command) {}); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if buf.String() != "going to sleep\nlistening\n" {
		t.Errorf("spoken output: %q", buf.String())
	}
}

func TestListenStopsWhenUnauthorized(t *testing.T) {
	ctx := context.Background()
	c := openTest(t, Config{EmbeddingDim: 8})

	rec := &speech.StaticRecognizer{Utterances: []string{"open chrome"}}
	err := c.Listen(ctx, "bogus-token", rec, speech.NopSynthesizer{}, func(*intent.Command) {
		t.Error("handler invoked without a valid session")
	})
	if !errors.Is(err, resolver.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}
