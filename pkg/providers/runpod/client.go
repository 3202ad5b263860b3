// Package runpod adapts the RunPod marketplace to the canonical provider
// contract. RunPod rents GPU pods and hosts serverless inference endpoints,
// so it implements both facets.
package runpod

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/primis-labs/primis-backend/pkg/models"
)

const defaultBaseURL = "https://rest.runpod.io/v1"

// client is a typed REST client for the RunPod API.
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
		SetCommonBearerAuthToken(apiKey).
		SetCommonHeader("Content-Type", "application/json")
	return &client{http: c}
}

type gpuTypeResp struct {
	ID             string  `json:"id"`
	DisplayName    string  `json:"displayName"`
	MemoryInGb     int     `json:"memoryInGb"`
	SecureCloud    bool    `json:"secureCloud"`
	CommunityCloud bool    `json:"communityCloud"`
	SecurePrice    float64 `json:"securePrice"`
	CommunityPrice float64 `json:"communityPrice"`
	StockStatus    string  `json:"stockStatus"`
}

type podResp struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	GPUTypeID     string            `json:"gpuTypeId"`
	GPUCount      int               `json:"gpuCount"`
	DesiredStatus string            `json:"desiredStatus"`
	CostPerHr     float64           `json:"costPerHr"`
	PublicIP      string            `json:"publicIp"`
	SSHPort       int               `json:"sshPort"`
	UptimeSeconds int64             `json:"uptimeSeconds"`
	CreatedAt     time.Time         `json:"createdAt"`
	Env           map[string]string `json:"env"`
}

type createPodReq struct {
	Name      string            `json:"name,omitempty"`
	GPUTypeID string            `json:"gpuTypeId"`
	GPUCount  int               `json:"gpuCount"`
	ImageName string            `json:"imageName,omitempty"`
	VolumeGb  int               `json:"volumeInGb,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// call wraps one request/response pair, shaping failures into the error
// taxonomy the registry expects.
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

func (c *client) listGPUTypes(ctx context.Context) ([]gpuTypeResp, error) {
	var out []gpuTypeResp
	err := c.call(ctx, "list gpu types", func(r *req.Request) (*req.Response, error) {
		return r.Get("/gputypes")
	}, &out)
	return out, err
}

func (c *client) listPods(ctx context.Context) ([]podResp, error) {
	var out []podResp
	err := c.call(ctx, "list pods", func(r *req.Request) (*req.Response, error) {
		return r.Get("/pods")
	}, &out)
	return out, err
}

func (c *client) getPod(ctx context.Context, id string) (*podResp, error) {
	var out podResp
	err := c.call(ctx, "get pod "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetPathParam("id", id).Get("/pods/{id}")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) createPod(ctx context.Context, body createPodReq) (*podResp, error) {
	var out podResp
	err := c.call(ctx, "create pod", func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/pods")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) stopPod(ctx context.Context, id string) error {
	return c.call(ctx, "stop pod "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetPathParam("id", id).Post("/pods/{id}/stop")
	}, nil)
}

func (c *client) startPod(ctx context.Context, id string) error {
	return c.call(ctx, "start pod "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetPathParam("id", id).Post("/pods/{id}/start")
	}, nil)
}

func (c *client) deletePod(ctx context.Context, id string) error {
	return c.call(ctx, "terminate pod "+id, func(r *req.Request) (*req.Response, error) {
		return r.SetPathParam("id", id).Delete("/pods/{id}")
	}, nil)
}

func (c *client) ping(ctx context.Context) error {
	return c.call(ctx, "ping", func(r *req.Request) (*req.Response, error) {
		return r.Get("/gputypes")
	}, nil)
}
