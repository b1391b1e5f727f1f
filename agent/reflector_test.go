package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quark/provider/testutil"
)

func TestReflectExtractsImprovedResponse(t *testing.T) {
	p := testutil.NewScriptedProvider(
		"The response was mostly fine but missed a detail.\n\nImproved Response:\nParis is the capital of France, and has been since 987.",
	)
	r := NewReflector(p)

	got := r.Reflect(context.Background(), "capital of France?", "Paris.")
	if got != "Paris is the capital of France, and has been since 987." {
		t.Errorf("Reflect returned %q", got)
	}
}

func TestReflectWithoutMarkerUsesWholeReply(t *testing.T) {
	p := testutil.NewScriptedProvider("  A full rewritten answer.  ")
	r := NewReflector(p)

	got := r.Reflect(context.Background(), "q", "original")
	if got != "A full rewritten answer." {
		t.Errorf("Reflect returned %q", got)
	}
}

func TestReflectDisabledPassesThrough(t *testing.T) {
	p := testutil.NewScriptedProvider("should never be called")
	r := NewReflector(p)
	r.Disabled = true

	got := r.Reflect(context.Background(), "q", "original")
	if got != "original" {
		t.Errorf("Reflect returned %q", got)
	}
	if p.CallCount() != 0 {
		t.Errorf("disabled reflector still called the provider %d times", p.CallCount())
	}
}

func TestReflectErrorKeepsOriginal(t *testing.T) {
	flaky := testutil.NewFlakyProvider(100, errors.New("down"), "never")
	r := NewReflector(flaky)

	got := r.Reflect(context.Background(), "q", "original")
	if got != "original" {
		t.Errorf("Reflect returned %q, want original on failure", got)
	}
}

func TestReflectNilReceiverPassesThrough(t *testing.T) {
	var r *Reflector
	if got := r.Reflect(context.Background(), "q", "original"); got != "original" {
		t.Errorf("Reflect returned %q", got)
	}
}

func TestReflectionPromptShape(t *testing.T) {
	p := testutil.NewScriptedProvider("Improved Response:\nbetter")
	r := NewReflector(p)
	r.Reflect(context.Background(), "the question", "the answer")

	if p.CallCount() != 1 {
		t.Fatalf("provider called %d times", p.CallCount())
	}
	prompt := p.Calls[0][0].Content
	for _, want := range []string{"Evaluate", "the question", "the answer", "Improved Response:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("reflection prompt missing %q:\n%s", want, prompt)
		}
	}
}
