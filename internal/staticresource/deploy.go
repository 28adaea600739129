package staticresource

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"modx/internal/deploy"
	"modx/internal/logger"
	"modx/internal/tooling"
)

var ResourceLogs = logger.PackageLogger("staticresource", "🗂️ RESOURCE")

type Result struct {
	Name        string
	ID          string
	Mode        deploy.Mode
	ContentType string
	Success     bool
	Errors      []tooling.FieldError
}

type Deployer struct {
	client       tooling.Client
	resolver     *deploy.Resolver
	folder       string
	cacheControl string
}

func NewDeployer(client tooling.Client, folder, cacheControl string) *Deployer {
	if folder == "" {
		folder = DefaultFolder
	}
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	return &Deployer{
		client:       client,
		resolver:     deploy.NewResolver(client),
		folder:       folder,
		cacheControl: cacheControl,
	}
}

func (d *Deployer) body(t Target) ([]byte, string, error) {
	if t.IsArchive() {
		data, err := Zip(t.Dir)
		return data, ContentTypeZip, err
	}
	data, err := os.ReadFile(t.File)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", t.File, err)
	}
	return data, ContentType(t.File, data), nil
}

// Deploy updates the Body of an existing resource or creates a new one.
// Content type and cache control are only sent on create.
func (d *Deployer) Deploy(ctx context.Context, path string) (*Result, error) {
	target, err := Locate(path, d.folder)
	if err != nil {
		return nil, err
	}
	data, contentType, err := d.body(target)
	if err != nil {
		return nil, err
	}
	body := base64.StdEncoding.EncodeToString(data)

	ns, err := d.resolver.ResolveNamespace(ctx)
	if err != nil {
		return nil, err
	}
	id, err := d.resolver.ResolveIdentity(ctx, "StaticResource", target.Name, ns)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: target.Name, ContentType: contentType}
	var res tooling.SaveResult
	if id != "" {
		ResourceLogs.Debug("updating StaticResource %s (%s, %d bytes)", target.Name, id, len(data))
		result.Mode = deploy.ModeUpdated
		res, err = d.client.Update(ctx, "StaticResource", id, map[string]string{"Body": body})
	} else {
		ResourceLogs.Debug("creating StaticResource %s as %s", target.Name, contentType)
		result.Mode = deploy.ModeCreated
		res, err = d.client.Create(ctx, "StaticResource", map[string]string{
			"Body":         body,
			"ContentType":  contentType,
			"CacheControl": d.cacheControl,
			"Name":         target.Name,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("saving StaticResource %s: %w", target.Name, err)
	}
	result.ID = res.ID
	if result.ID == "" {
		result.ID = id
	}
	result.Success = res.Success
	result.Errors = res.Errors
	return result, nil
}
