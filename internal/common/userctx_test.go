package common

import (
	"context"
	"testing"
)

func TestAdvisorContext_RoundTrip(t *testing.T) {
	ctx := WithAdvisor(context.Background(), &AdvisorContext{Username: "priya", Name: "Priya Shah"})

	ac := AdvisorFromContext(ctx)
	if ac == nil {
		t.Fatal("expected advisor context")
	}
	if ac.Username != "priya" || ac.Name != "Priya Shah" {
		t.Errorf("AdvisorFromContext = %+v", ac)
	}
	if got := ResolveAdvisor(ctx); got != "priya" {
		t.Errorf("ResolveAdvisor = %q, want priya", got)
	}
}

func TestResolveAdvisor_Default(t *testing.T) {
	if got := ResolveAdvisor(context.Background()); got != "default" {
		t.Errorf("ResolveAdvisor = %q, want default", got)
	}
	if AdvisorFromContext(context.Background()) != nil {
		t.Error("expected nil advisor on bare context")
	}
	ctx := WithAdvisor(context.Background(), &AdvisorContext{})
	if got := ResolveAdvisor(ctx); got != "default" {
		t.Errorf("ResolveAdvisor with empty username = %q, want default", got)
	}
}
