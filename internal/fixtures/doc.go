// Package fixtures provides shared test inputs: configs, events, a mocked
// environment and a recording ingestion server.
//
// Tests opt into the slower suites the same way everywhere:
//
//   - unit tests run with a plain `go test ./...`
//   - slow tests call SkipIfShort and are skipped under `go test -short`
//   - integration tests carry the `integration` build tag and need a NATS server
//   - end-to-end tests carry the `e2e` build tag
package fixtures
