package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/shared/config"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const (
	algodTokenHeader = "X-Algo-API-Token"
	// Maximum response body size accepted from the node (1MB)
	maxAlgodResponseSize = 1 << 20
	defaultBackoffBase   = 200 * time.Millisecond
	maxBackoff           = 5 * time.Second
)

// errNotSent marks failures that happened before the request left this process.
var errNotSent = errors.New("request not sent")

// APIError is a non-2xx answer from the node.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("algod returned %d: %s", e.StatusCode, e.Message)
}

type algodParams struct {
	ConsensusVersion string `json:"consensus-version"`
	Fee              uint64 `json:"fee"`
	GenesisHash      []byte `json:"genesis-hash"`
	GenesisID        string `json:"genesis-id"`
	LastRound        uint64 `json:"last-round"`
	MinFee           uint64 `json:"min-fee"`
}

type algodAccount struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

type algodStatus struct {
	LastRound uint64 `json:"last-round"`
}

type algodPending struct {
	ConfirmedRound uint64 `json:"confirmed-round"`
	PoolError      string `json:"pool-error"`
}

type algodSubmitResponse struct {
	TxID string `json:"txId"`
}

type algodErrorBody struct {
	Message string `json:"message"`
}

// AlgodClient speaks the algod v2 REST API. Reads are retried with exponential backoff;
// transaction submission is never retried here.
type AlgodClient struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  uint64
	backoffBase time.Duration
	logger      logger.Interface
}

func NewAlgodClient(cfg *config.LedgerConfig, logger logger.Interface) *AlgodClient {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if cfg.RequestsPerSecond > 1 {
			burst = int(cfg.RequestsPerSecond)
		}
	}

	return &AlgodClient{
		baseURL: strings.TrimRight(cfg.AlgodURL, "/"),
		token:   cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		limiter:     rate.NewLimiter(limit, burst),
		maxRetries:  cfg.MaxRetries,
		backoffBase: defaultBackoffBase,
		logger:      logger,
	}
}

func (c *AlgodClient) TransactionParams(ctx context.Context) (*algodParams, error) {
	var out algodParams
	if err := c.getJSON(ctx, "/v2/transactions/params", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountAmount returns the balance of address. A node that does not know the
// account answers 404 on some versions, which is reported as zero.
func (c *AlgodClient) AccountAmount(ctx context.Context, address string) (uint64, error) {
	var out algodAccount
	err := c.getJSON(ctx, "/v2/accounts/"+url.PathEscape(address)+"?exclude=all", &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return out.Amount, nil
}

func (c *AlgodClient) Status(ctx context.Context) (*algodStatus, error) {
	var out algodStatus
	if err := c.getJSON(ctx, "/v2/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatusAfterBlock blocks on the node until a round after round exists.
func (c *AlgodClient) StatusAfterBlock(ctx context.Context, round uint64) (*algodStatus, error) {
	var out algodStatus
	if err := c.getJSON(ctx, fmt.Sprintf("/v2/status/wait-for-block-after/%d", round), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingTransaction reports an unknown transaction as neither confirmed nor rejected.
func (c *AlgodClient) PendingTransaction(ctx context.Context, txID string) (*algodPending, error) {
	var out algodPending
	err := c.getJSON(ctx, "/v2/transactions/pending/"+url.PathEscape(txID), &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return &algodPending{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRawTransaction submits signed bytes once. A 400 answer is a definite refusal.
// A transport failure or a 5xx answer after the request left is reported as
// ledger.ErrSubmitOutcomeUnknown, since the node may already hold the transaction.
func (c *AlgodClient) SendRawTransaction(ctx context.Context, signed []byte) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/v2/transactions", signed, "application/x-binary")
	if err != nil {
		var apiErr *APIError
		isAPI := errors.As(err, &apiErr)
		switch {
		case errors.Is(err, errNotSent):
			return "", err
		case isAPI && apiErr.StatusCode == http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apiErr.Message), "overspend") {
				return "", fmt.Errorf("%w: %s", ledger.ErrInsufficientBalance, apiErr.Message)
			}
			return "", fmt.Errorf("%w: %s", ledger.ErrTransactionRejected, apiErr.Message)
		case isAPI && apiErr.StatusCode < http.StatusInternalServerError:
			// 429 and the other 4xx answers refuse the bytes outright
			return "", err
		default:
			return "", fmt.Errorf("%w: %w", ledger.ErrSubmitOutcomeUnknown, err)
		}
	}

	var out algodSubmitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: failed to parse submit response: %v", ledger.ErrSubmitOutcomeUnknown, err)
	}
	if out.TxID == "" {
		return "", fmt.Errorf("%w: submit response carried no transaction id", ledger.ErrSubmitOutcomeUnknown)
	}
	return out.TxID, nil
}

func (c *AlgodClient) getJSON(ctx context.Context, path string, out any) error {
	b := retry.WithCappedDuration(maxBackoff, retry.NewExponential(c.backoffBase))
	b = retry.WithMaxRetries(c.maxRetries, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		body, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			if isTransient(err) {
				c.logger.Debugw("retrying algod request", "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: failed to parse %s response: %v", ledger.ErrNetwork, path, err)
		}
		return nil
	})
}

func (c *AlgodClient) do(ctx context.Context, method, path string, payload []byte, contentType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w: rate limiter: %v", ledger.ErrNetwork, errNotSent, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", errNotSent, err)
	}
	if c.token != "" {
		req.Header.Set(algodTokenHeader, c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ledger.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAlgodResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ledger.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var parsed algodErrorBody
		if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %w", ledger.ErrNetwork, apiErr)
		}
		return nil, apiErr
	}

	return body, nil
}

// isTransient covers transport failures and 5xx/429 answers; do wraps both in ErrNetwork.
func isTransient(err error) bool {
	return errors.Is(err, ledger.ErrNetwork)
}
