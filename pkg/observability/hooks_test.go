package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRouteStart(ctx, 4, 6)
	p.OnRetry(ctx, 1, 3, errors.New("unroutable"))
	p.OnRouteComplete(ctx, 3, 2, time.Millisecond, nil)
	p.OnLayoutStart(ctx, "text", 4)
	p.OnLayoutComplete(ctx, "text", time.Millisecond, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "route")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/route")
	s.OnResponse(ctx, "POST", "/v1/route", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	hooks := NewLogHooks(nil)
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetServerHooks(hooks)
	if Pipeline() != PipelineHooks(hooks) || Cache() != CacheHooks(hooks) || Server() != ServerHooks(hooks) {
		t.Error("Set*Hooks should register the given hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != PipelineHooks(custom) {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(l)
	ctx := context.Background()

	h.OnRouteStart(ctx, 4, 6)
	h.OnRetry(ctx, 1, 3, errors.New("unroutable"))
	h.OnRouteComplete(ctx, 3, 2, time.Millisecond, nil)
	h.OnCacheHit(ctx, "route")
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"route start", "nets=4",
		"route retry", "width=3",
		"route complete", "tries=2",
		"cache hit", "kind=route",
		"status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
