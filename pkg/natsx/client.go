package natsx

import (
	"os"

	"github.com/nats-io/nats.go"
)

// URLEnv is consulted by NewClient when no url is given.
const URLEnv = "NATS_URL"

// NewClient connects to the NATS server at url, falling back to the NATS_URL
// environment variable and then to nats.DefaultURL. Without options the
// connection is named "trancepoint" and uses compression.
func NewClient(url string, opts ...nats.Option) (*nats.Conn, error) {
	if url == "" {
		url = os.Getenv(URLEnv)
	}
	if url == "" {
		url = nats.DefaultURL
	}
	if len(opts) == 0 {
		opts = append(opts, nats.Name("trancepoint"), nats.Compression(true))
	}
	return nats.Connect(url, opts...)
}
