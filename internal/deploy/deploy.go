package deploy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"modx/internal/logger"
	"modx/internal/tooling"
)

var DeployLogs = logger.PackageLogger("deploy", "🚀 DEPLOY")

const (
	DefaultPollInterval = time.Second
	DefaultAPIVersion   = 60.0
)

// Options configures the orchestrator and its poller. Zero values fall back
// to the defaults above; MaxPolls 0 polls until a terminal state.
type Options struct {
	PollInterval time.Duration
	MaxPolls     int
	APIVersion   float64
	Now          func() time.Time
	Sleep        SleepFunc
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.APIVersion == 0 {
		o.APIVersion = DefaultAPIVersion
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

type Mode string

const (
	ModeCreated Mode = "Created"
	ModeUpdated Mode = "Updated"
)

// Attempt is one compile/save of a single artifact.
type Attempt struct {
	Kind Kind
	// Name is the artifact's full name, used for the create-path envelope.
	Name string
	// EntityID is empty to create the artifact, set to update it.
	EntityID string
	Body     string
	Metadata *Metadata
}

func (a Attempt) Mode() Mode {
	if a.EntityID == "" {
		return ModeCreated
	}
	return ModeUpdated
}

// Result is what a deploy hands back to the command. Error is set when
// the attempt stopped before the async stage; Request when it got there.
type Result struct {
	Success     bool
	Mode        Mode
	ContainerID string
	Request     *tooling.AsyncRequest
	Error       string
}

func (r *Result) Failures() []tooling.ComponentFailure {
	if r == nil {
		return nil
	}
	return r.Request.Failures()
}

// Deployer runs the container → member → async request → poll workflow.
type Deployer struct {
	client   tooling.Client
	resolver *Resolver
	poller   *Poller
	opts     Options
}

func NewDeployer(client tooling.Client, opts Options) *Deployer {
	opts = opts.withDefaults()
	return &Deployer{
		client:   client,
		resolver: NewResolver(client),
		poller:   NewPoller(client, opts),
		opts:     opts,
	}
}

func (d *Deployer) Resolver() *Resolver {
	return d.resolver
}

// ContainerName appends the epoch milliseconds so repeated runs never
// collide on the server.
func (d *Deployer) ContainerName(kind Kind) string {
	return kind.Container + strconv.FormatInt(d.opts.Now().UnixMilli(), 10)
}

func (d *Deployer) createContainer(ctx context.Context, kind Kind) (tooling.SaveResult, error) {
	name := d.ContainerName(kind)
	DeployLogs.Debug("creating MetadataContainer %s", name)
	res, err := d.client.Create(ctx, "MetadataContainer", map[string]string{"Name": name})
	if err != nil {
		return tooling.SaveResult{}, fmt.Errorf("creating metadata container: %w", err)
	}
	return res, nil
}

type memberRequest struct {
	MetadataContainerID string    `json:"MetadataContainerId"`
	ContentEntityID     string    `json:"ContentEntityId,omitempty"`
	Body                string    `json:"Body"`
	FullName            string    `json:"FullName,omitempty"`
	Metadata            *Metadata `json:"Metadata,omitempty"`
}

func (d *Deployer) memberFields(containerID string, a Attempt) memberRequest {
	m := memberRequest{
		MetadataContainerID: containerID,
		Body:                a.Body,
	}
	if a.EntityID != "" {
		m.ContentEntityID = a.EntityID
		return m
	}
	m.FullName = a.Name
	m.Metadata = envelope(a.Kind, a.Name, a.Metadata, d.opts.APIVersion)
	return m
}

func (d *Deployer) createMember(ctx context.Context, containerID string, a Attempt) (tooling.SaveResult, error) {
	DeployLogs.Debug("creating %s for %s (%s)", a.Kind.Member, a.Name, a.Mode())
	res, err := d.client.Create(ctx, a.Kind.Member, d.memberFields(containerID, a))
	if err != nil {
		return tooling.SaveResult{}, fmt.Errorf("creating %s: %w", a.Kind.Member, err)
	}
	return res, nil
}

// Deploy saves one artifact. Rejections by the server come back in the
// Result; transport faults come back as the error. Hitting MaxPolls returns
// both the Result, holding the last request seen, and ErrPollLimit.
func (d *Deployer) Deploy(ctx context.Context, a Attempt) (*Result, error) {
	result := &Result{Mode: a.Mode()}

	container, err := d.createContainer(ctx, a.Kind)
	if err != nil {
		return nil, err
	}
	if !container.Success {
		DeployLogs.Debug("container rejected: %s", container.ErrorsJSON())
		result.Error = ContainerCreationFailed
		return result, nil
	}
	result.ContainerID = container.ID

	member, err := d.createMember(ctx, container.ID, a)
	if err != nil {
		return nil, err
	}
	if !member.Success {
		result.Error = member.ErrorsJSON()
		return result, nil
	}

	submitted, err := d.poller.Submit(ctx, container.ID, false)
	if err != nil {
		return nil, err
	}
	if !submitted.Success {
		result.Error = submitted.ErrorsJSON()
		return result, nil
	}

	req, err := d.poller.Wait(ctx, submitted.ID)
	if errors.Is(err, ErrPollLimit) && req != nil {
		result.Request = req
		return result, err
	}
	if err != nil {
		return nil, err
	}
	result.Request = req
	result.Success = req.State == StateCompleted
	return result, nil
}

// DeployArtifact resolves the namespace and existing identity for name
// and then deploys it, choosing create or update accordingly.
func (d *Deployer) DeployArtifact(ctx context.Context, kind Kind, name, body string, md *Metadata) (*Result, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}
	ns, err := d.resolver.ResolveNamespace(ctx)
	if err != nil {
		return nil, err
	}
	id, err := d.resolver.ResolveIdentity(ctx, kind.Entity, name, ns)
	if err != nil {
		return nil, err
	}
	DeployLogs.Debug("%s %q namespace=%q id=%q", kind.Entity, name, ns, id)
	return d.Deploy(ctx, Attempt{
		Kind:     kind,
		Name:     name,
		EntityID: id,
		Body:     body,
		Metadata: md,
	})
}
