package deploy

import "errors"

var (
	ErrPollLimit     = errors.New("deploy: async request still queued after max polls")
	ErrNoAsyncRecord = errors.New("deploy: async request not returned by query")
	ErrEmptyBody     = errors.New("deploy: source body is empty")
)

// ContainerCreationFailed is the Result.Error text when the server refuses
// the MetadataContainer.
const ContainerCreationFailed = "container creation failed"
