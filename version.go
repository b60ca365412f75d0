package trancepoint

import "github.com/casualjim/trancepoint/events"

const (
	// SDKName is reported in every batch and in the User-Agent header.
	SDKName = "trancepoint-go"
	// Version of this client library.
	Version = "0.1.0"
)

// UserAgent is sent with every ingestion request.
const UserAgent = SDKName + "/" + Version

func sdkInfo() events.SDK {
	return events.SDK{Name: SDKName, Version: Version}
}
