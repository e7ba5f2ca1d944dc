package net

import (
	"context"
	"testing"
)

func TestRequestAndUser(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" || UserID(ctx) != "" {
		t.Fatalf("empty context should carry nothing")
	}
	if WithRequest(ctx, "") != ctx || WithUser(ctx, "") != ctx {
		t.Fatalf("empty ids should not wrap")
	}

	ctx = WithUser(WithRequest(ctx, "req-1"), "u-42")
	if RequestID(ctx) != "req-1" {
		t.Fatalf("RequestID = %q", RequestID(ctx))
	}
	if UserID(ctx) != "u-42" {
		t.Fatalf("UserID = %q", UserID(ctx))
	}
}
