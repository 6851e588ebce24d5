package plm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config carries the connection settings of the backend system. A single
// timeout applies uniformly to connect, read and write.
type Config struct {
	BaseURL   string
	AuthToken string
	Operator  string
	Timeout   time.Duration
	RateLimit rate.Limit
}

const defaultOperator = "sysadmin 1"

// ParseConfigFromEnv PLM_SERVICE_URL, PLM_AUTH_TOKEN, PLM_OPERATOR,
// PLM_TIMEOUT, PLM_RATE_LIMIT
func ParseConfigFromEnv() (*Config, error) {
	baseURL := os.Getenv("PLM_SERVICE_URL")
	if baseURL == "" {
		return nil, errors.New("PLM_SERVICE_URL is not set")
	}

	operator := os.Getenv("PLM_OPERATOR")
	if operator == "" {
		operator = defaultOperator
	}

	timeout := 30 * time.Second
	if v := os.Getenv("PLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PLM_TIMEOUT %q: %v", v, err)
		}
		timeout = d
	}

	var limit rate.Limit
	if v := os.Getenv("PLM_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PLM_RATE_LIMIT %q: %v", v, err)
		}
		limit = rate.Limit(f)
	}

	return &Config{
		BaseURL:   baseURL,
		AuthToken: os.Getenv("PLM_AUTH_TOKEN"),
		Operator:  operator,
		Timeout:   timeout,
		RateLimit: limit,
	}, nil
}

// TransportError is a network or HTTP level failure raised before envelope
// parsing is attempted. Callers may retry with backoff; this adapter
// performs no internal retry.
type TransportError struct {
	Method string
	URL    string

	StatusCode int
	StatusText string
	RespBody   string

	Cause error
}

func NewTransportError(req *http.Request, resp *http.Response, respBody string, cause error) *TransportError {
	err := TransportError{Cause: cause}
	if req != nil {
		err.Method = req.Method
		err.URL = req.URL.String()
	}
	if resp != nil {
		err.StatusCode = resp.StatusCode
		err.StatusText = resp.Status
		err.RespBody = respBody
	}
	return &err
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http invoke failed. request %s %s. response %d %s, body: '%s'. cause: %v",
		e.Method, e.URL, e.StatusCode, e.StatusText, e.RespBody, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func httpStatusIsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// invoke POSTs the wire request to {base}/dynamic/api/{entity}/{operation}
// and parses the response with the given payload shape.
func (g *Gateway) invoke(ctx context.Context, entity, operation string, query url.Values,
	reqBody *WireRequest, shape PayloadShape) ([]Entity, error) {

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, NewTransportError(nil, nil, "", err)
		}
	}

	requestURL := strings.TrimSuffix(g.config.BaseURL, "/") + "/dynamic/api/" + entity + "/" + operation
	if len(query) > 0 {
		requestURL = requestURL + "?" + query.Encode()
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, NewTransportError(req, nil, "", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	if g.config.AuthToken != "" {
		req.Header.Set("X-Auth-Token", g.config.AuthToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, NewTransportError(req, nil, "", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(req, resp, "", err)
	}
	if !httpStatusIsSuccess(resp.StatusCode) {
		return nil, NewTransportError(req, resp, string(respBodyBytes), nil)
	}

	return ParseResponse(entity, operation, respBodyBytes, shape)
}
