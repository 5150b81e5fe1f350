package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/aio"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	HeaderAccept     = "Accept"
	HeaderUserAgent  = "User-Agent"
	DefaultUserAgent = "SwuTracker/0.1"
)

type Config struct {
	Delay      time.Duration `yaml:"delay"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int32         `yaml:"retries"`
	Retryables []int         `yaml:"retryables"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

// UnmarshalYAML accepts durations in the usual "30s" notation, which the
// yaml decoder can't map onto time.Duration on its own.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Delay      string `yaml:"delay"`
		Timeout    string `yaml:"timeout"`
		Retries    int32  `yaml:"retries"`
		Retryables []int  `yaml:"retryables"`
		RetryDelay string `yaml:"retryDelay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Retries = raw.Retries
	c.Retryables = raw.Retryables

	for _, d := range []struct {
		raw    string
		target *time.Duration
	}{
		{raw: raw.Delay, target: &c.Delay},
		{raw: raw.Timeout, target: &c.Timeout},
		{raw: raw.RetryDelay, target: &c.RetryDelay},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q, %w", d.raw, err)
		}
		*d.target = parsed
	}

	return nil
}

type Response struct {
	Body io.ReadCloser
}

func NewGetOpts() GetOptions {
	return GetOptions{
		Header:      make(map[string]string),
		StatusCodes: []int{http.StatusOK},
	}
}

type GetOptions struct {
	Header      map[string]string
	StatusCodes []int
}

func (o GetOptions) WithHeader(k, v string) GetOptions {
	o.Header[k] = v

	return o
}

func (o GetOptions) WithExpectedCodes(statusCode ...int) GetOptions {
	o.StatusCodes = statusCode

	return o
}

type Client interface {
	Get(ctx context.Context, url string, opts GetOptions) (*Response, error)
}

func NewClient(cfg Config, client *http.Client) Client {
	if client == nil {
		panic("missing net/http client")
	}

	return &httpClient{
		cfg:    cfg,
		client: client,
	}
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

func (c *httpClient) Get(ctx context.Context, url string, opts GetOptions) (*Response, error) {
	return WithRetry(ctx, c.cfg, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("request creation failed for url %s, %w", url, err)
		}

		req.Header.Set(HeaderUserAgent, DefaultUserAgent)
		for k, v := range opts.Header {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request execution failed for url %s, %w", url, err)
		}

		if !slices.Contains(opts.StatusCodes, resp.StatusCode) {
			defer aio.Close(resp.Body)

			return nil, NewHTTPErr(url, resp)
		}

		return resp, nil
	})
}

// WithRetry runs exec after the configured delay and repeats it for every
// retryable status code until the retry budget is used up. A zero config
// means a single attempt without delay.
func WithRetry(ctx context.Context, cfg Config, exec func() (*http.Response, error)) (*Response, error) {
	t := time.NewTimer(cfg.Delay)
	defer t.Stop()

	var attempts int32
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stop execution due to cancelled context")
		case <-t.C:
			resp, err := exec()
			if err != nil {
				if resp != nil {
					aio.Close(resp.Body)
				}

				if IsStatusCode(err, cfg.Retryables...) {
					if attempts == cfg.Retries {
						return nil, err
					}

					log.Info().Str("err", err.Error()).Msgf("request attempt %d after err", attempts+1)
					attempts++

					t.Reset(cfg.RetryDelay)

					continue
				}

				return nil, err
			}

			return &Response{Body: resp.Body}, nil
		}
	}
}
