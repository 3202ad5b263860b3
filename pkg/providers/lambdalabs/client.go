// Package lambdalabs adapts the Lambda on-demand cloud to the instance
// facet. Lambda instances are rent-until-terminate: there is no stop or
// resume, only launch and terminate.
package lambdalabs

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/primis-labs/primis-backend/pkg/models"
)

const defaultBaseURL = "https://cloud.lambdalabs.com/api/v1"

type client struct {
	http *req.Client
}

func newClient(apiKey, baseURL string) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := req.C().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetCommonBasicAuth(apiKey, "").
		SetCommonHeader("Content-Type", "application/json")
	return &client{http: c}
}

type instanceTypeResp struct {
	InstanceType struct {
		Name              string `json:"name"`
		Description       string `json:"description"`
		PriceCentsPerHour int    `json:"price_cents_per_hour"`
		Specs             struct {
			GPUs       int `json:"gpus"`
			MemoryGib  int `json:"memory_gib"`
			VCPUs      int `json:"vcpus"`
			StorageGib int `json:"storage_gib"`
		} `json:"specs"`
	} `json:"instance_type"`
	RegionsWithCapacity []struct {
		Name string `json:"name"`
	} `json:"regions_with_capacity_available"`
}

type instanceResp struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	IP           string   `json:"ip"`
	Status       string   `json:"status"`
	SSHKeyNames  []string `json:"ssh_key_names"`
	InstanceType struct {
		Name              string `json:"name"`
		Description       string `json:"description"`
		PriceCentsPerHour int    `json:"price_cents_per_hour"`
		Specs             struct {
			GPUs int `json:"gpus"`
		} `json:"specs"`
	} `json:"instance_type"`
	Region struct {
		Name string `json:"name"`
	} `json:"region"`
}

type launchReq struct {
	RegionName       string   `json:"region_name"`
	InstanceTypeName string   `json:"instance_type_name"`
	SSHKeyNames      []string `json:"ssh_key_names"`
	Name             string   `json:"name,omitempty"`
}

func (c *client) call(ctx context.Context, op string, do func(r *req.Request) (*req.Response, error), out any) error {
	r := c.http.R().SetContext(ctx)
	if out != nil {
		r.SetSuccessResult(out)
	}
	resp, err := do(r)
	if err != nil {
		return &models.UpstreamError{Provider: Name, Operation: op, Err: err}
	}
	if resp.StatusCode == 404 {
		return &models.NotFoundError{Kind: "instance", ID: op}
	}
	if resp.IsErrorState() {
		return &models.UpstreamError{
			Provider:   Name,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}
	return nil
}

func (c *client) listInstanceTypes(ctx context.Context) (map[string]instanceTypeResp, error) {
	var out struct {
		Data map[string]instanceTypeResp `json:"data"`
	}
	err := c.call(ctx, "list instance types", func(r *req.Request) (*req.Response, error) {
		return r.Get("/instance-types")
	}, &out)
	return out.Data, err
}

func (c *client) listInstances(ctx context.Context) ([]instanceResp, error) {
	var out struct {
		Data []instanceResp `json:"data"`
	}
	err := c.call(ctx, "list instances", func(r *req.Request) (*req.Response, error) {
		return r.Get("/instances")
	}, &out)
	return out.Data, err
}

func (c *client) getInstance(ctx context.Context, id string) (*instanceResp, error) {
	var out struct {
		Data instanceResp `json:"data"`
	}
	err := c.call(ctx, "get instance "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetPathParam("id", id).Get("/instances/{id}")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *client) launch(ctx context.Context, body launchReq) (string, error) {
	var out struct {
		Data struct {
			InstanceIDs []string `json:"instance_ids"`
		} `json:"data"`
	}
	err := c.call(ctx, "launch", func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/instance-operations/launch")
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Data.InstanceIDs) == 0 {
		return "", &models.UpstreamError{Provider: Name, Operation: "launch", Err: fmt.Errorf("no instance id returned")}
	}
	return out.Data.InstanceIDs[0], nil
}

func (c *client) terminate(ctx context.Context, id string) error {
	body := map[string][]string{"instance_ids": {id}}
	return c.call(ctx, "terminate "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/instance-operations/terminate")
	}, nil)
}

func (c *client) ping(ctx context.Context) error {
	return c.call(ctx, "ping", func(r *req.Request) (*req.Response, error) {
		return r.Get("/instance-types")
	}, nil)
}
