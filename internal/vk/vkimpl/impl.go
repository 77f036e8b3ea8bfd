package vkimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/9049480440/vk-hashtag-monitor/internal/vk"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
	"github.com/9049480440/vk-hashtag-monitor/pkg/retry"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

const (
	// maxSearchCount is the newsfeed.search page size limit.
	maxSearchCount = 200

	requestTimeout = 30 * time.Second
)

// VK API error codes that need dedicated handling.
const (
	errCodeAuthFailed   = 5
	errCodeTooManyCalls = 6
)

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type VKImpl struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	pacer      *rate.Limiter
	logger     logger.Logger
}

// New builds the client and probes the token with a lightweight users.get
// call. An authentication failure is fatal; any other probe error is logged
// as a warning and startup continues.
func New(opts Opts) (*VKImpl, error) {
	c := &VKImpl{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    opts.Config.VK.BaseURL,
		token:      opts.Config.VK.Token,
		version:    opts.Config.VK.Version,
		pacer:      rate.NewLimiter(rate.Every(opts.Config.VK.Delay), 1),
		logger:     opts.Logger.WithComponent("VKClient"),
	}

	if err := c.probeToken(context.Background()); err != nil {
		return nil, err
	}

	c.logger.Info("VK API client initialized")
	return c, nil
}

var _ vk.Client = (*VKImpl)(nil)

func (c *VKImpl) probeToken(ctx context.Context) error {
	operation := func() error {
		err := c.call(ctx, "users.get", url.Values{}, nil)
		if err == nil {
			return nil
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Code == errCodeAuthFailed {
			// No point retrying a rejected token.
			return backoff.Permanent(errors.Wrap(errors.ErrUnauthorized, "invalid VK token"))
		}

		return err
	}

	err := retry.Do(ctx, c.logger, "vk token probe", operation, retry.DefaultConfig())
	if err == nil {
		c.logger.Debug("VK token is valid")
		return nil
	}

	if errors.IsUnauthorized(err) {
		return err
	}

	// The token may still work for the real calls.
	c.logger.Warn("VK token probe failed with a non-auth error", "error", err)
	return nil
}

// call performs one VK API request. The pacer enforces the configured gap
// between consecutive remote calls, failed ones included.
func (c *VKImpl) call(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait interrupted")
	}

	params.Set("access_token", c.token)
	params.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build VK request")
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("vk %s request failed", method))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(errors.ErrServiceUnavailable, fmt.Sprintf("vk %s returned status %d", method, resp.StatusCode))
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
		Error    *apiError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to decode vk %s response", method))
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Response, out); err != nil {
		return errors.Wrap(err, fmt.Sprintf("unexpected vk %s response shape", method))
	}
	return nil
}
