package deploy

import (
	"context"
	"fmt"

	"modx/internal/tooling"
)

// Resolver answers the two questions asked before every save: what is the
// org's namespace, and does the artifact already exist. Nothing is cached.
type Resolver struct {
	client tooling.Client
}

func NewResolver(client tooling.Client) *Resolver {
	return &Resolver{client: client}
}

type organization struct {
	NamespacePrefix *string `json:"NamespacePrefix"`
}

// ResolveNamespace returns "" for orgs without a namespace.
func (r *Resolver) ResolveNamespace(ctx context.Context) (string, error) {
	var out tooling.QueryResult[organization]
	if err := r.client.Query(ctx, "SELECT NamespacePrefix FROM Organization", &out); err != nil {
		return "", fmt.Errorf("resolving namespace: %w", err)
	}
	if out.TotalSize == 0 || len(out.Records) == 0 || out.Records[0].NamespacePrefix == nil {
		return "", nil
	}
	return *out.Records[0].NamespacePrefix, nil
}

// ResolveIdentity finds an artifact by Name. An empty id means the
// artifact has to be created.
func (r *Resolver) ResolveIdentity(ctx context.Context, sobject, name, namespace string) (string, error) {
	return r.lookup(ctx, sobject, "Name", name, namespace)
}

// ResolveBundle finds an Aura or LWC bundle by DeveloperName.
func (r *Resolver) ResolveBundle(ctx context.Context, sobject, developerName, namespace string) (string, error) {
	return r.lookup(ctx, sobject, "DeveloperName", developerName, namespace)
}

func (r *Resolver) lookup(ctx context.Context, sobject, field, value, namespace string) (string, error) {
	var recs []tooling.Record
	err := r.client.Find(ctx, sobject, []string{"Id"}, map[string]string{
		field:             value,
		"NamespacePrefix": namespace,
	}, &recs)
	if err != nil {
		return "", fmt.Errorf("looking up %s %q: %w", sobject, value, err)
	}
	if len(recs) == 0 {
		return "", nil
	}
	return recs[0].ID, nil
}
