package lavalink

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// NodeConfig holds the address of a Lavalink node.
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

func (c NodeConfig) httpURL() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

func (c NodeConfig) wsURL() string {
	scheme := "ws"
	if c.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, c.Host, c.Port)
}

// restClient talks to the Lavalink v4 REST API.
type restClient struct {
	http *resty.Client
}

func newRESTClient(baseURL, password string) *restClient {
	return &restClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Authorization", password).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second).
			SetJSONMarshaler(json.Marshal).
			SetJSONUnmarshaler(json.Unmarshal),
	}
}

func (r *restClient) loadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	var raw rawLoadResult
	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParam("identifier", identifier).
		SetResult(&raw).
		Get("/v4/loadtracks")
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("load tracks: %s: %s", resp.Status(), resp.String())
	}
	return decodeLoadResult(raw)
}

func (r *restClient) updatePlayer(ctx context.Context, sessionID, guildID string, update PlayerUpdate) error {
	resp, err := r.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"session": sessionID, "guild": guildID}).
		SetQueryParam("noReplace", "false").
		SetBody(update).
		Patch("/v4/sessions/{session}/players/{guild}")
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("update player: %s: %s", resp.Status(), resp.String())
	}
	return nil
}

func (r *restClient) destroyPlayer(ctx context.Context, sessionID, guildID string) error {
	resp, err := r.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"session": sessionID, "guild": guildID}).
		Delete("/v4/sessions/{session}/players/{guild}")
	if err != nil {
		return fmt.Errorf("destroy player: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("destroy player: %s", resp.Status())
	}
	return nil
}
