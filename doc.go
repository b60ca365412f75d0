/*
Package trancepoint records agent executions as traces and ships them to an
observability endpoint.

Every execution becomes a trace of events sharing one trace id: a START event
when it begins, followed by an END event when it succeeds or an ERROR event
when it fails. Events are queued in memory and exported in batches, so the
observed code never waits on the network.

# Basic Usage

	cfg, err := config.Load("trancepoint.yaml")
	if err != nil {
		return err
	}

	obs, err := trancepoint.New(cfg)
	if err != nil {
		return err
	}
	defer obs.Close(context.Background())

	answer, err := trancepoint.Observe(ctx, obs.Tracer, "research_agent", question,
		func(ctx context.Context) (string, error) {
			return research(ctx, question)
		},
	)

Spans can also be driven by hand:

	span, ctx := obs.Start(ctx, "planner", prompt)
	plan, err := makePlan(ctx, prompt)
	if err != nil {
		_ = span.Fail(err)
		return err
	}
	_ = span.End(plan)

Spans started from a context that already carries a span join its trace.

# Architecture

 1. Tracer (tracer.go)
    - Produces START/END/ERROR events for spans
    - Tracks active spans
    - Fans events out to in-process subscribers

 2. BatchClient (batch.go)
    - Bounded in-memory queue, never blocks the caller
    - Flushes when a batch is full or on the flush interval
    - Drains the queue on Close

 3. SyncEventClient (client.go)
    - POSTs batches to {api_endpoint}/v1/events
    - Retries network errors, 408, 429 and 5xx with exponential backoff
    - Honors Retry-After and an optional request rate limit

 4. Exporters (package exporter)
    - NATS and debug printer destinations, plus fan-out

# Configuration

The config package loads settings from defaults, a yaml, json or toml file,
a .env file and AGENT_OBS_* environment variables, in that order. A disabled
configuration turns every component into a no-op.

# Thread Safety

Tracer, BatchClient and SyncEventClient are safe for concurrent use.
*/
package trancepoint
