package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetRequestData(ctx))
	assert.Equal(t, uuid.Nil, UserID(ctx))

	id := uuid.New()
	ctx = WithRequestData(ctx, &RequestData{UserID: id, TokenString: "tok"})
	assert.Equal(t, id, UserID(ctx))
	assert.Equal(t, "tok", GetRequestData(ctx).TokenString)
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatal("expected nil trace data on a bare context")
	}
	if got := RequestID(ctx); got != "r1" {
		t.Fatalf("RequestID: want=r1 got=%q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID on bare context: want empty got=%q", got)
	}
}
