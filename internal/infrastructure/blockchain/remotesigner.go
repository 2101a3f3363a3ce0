package blockchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/shared/config"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const (
	signerPath        = "/v1/sign"
	signerTokenHeader = "X-Signer-Token"
	msgpackMediaType  = "application/msgpack"
)

type signRequest struct {
	Identity    string `msgpack:"identity"`
	Transaction []byte `msgpack:"txn"`
}

// RemoteSigner delegates signing to a wallet bridge over HTTP. The bridge answers
// 403 or 409 when the key holder declines.
type RemoteSigner struct {
	url        string
	token      string
	httpClient *http.Client
	logger     logger.Interface
}

func NewRemoteSigner(cfg *config.LedgerConfig, logger logger.Interface) *RemoteSigner {
	return &RemoteSigner{
		url:        strings.TrimRight(cfg.SignerURL, "/") + signerPath,
		token:      cfg.SignerToken,
		httpClient: &http.Client{Timeout: cfg.SignerTimeout()},
		logger:     logger,
	}
}

var _ ledger.Signer = (*RemoteSigner)(nil)

func (s *RemoteSigner) Sign(ctx context.Context, tx *ledger.UnsignedTransaction, signerIdentity string) ([]byte, error) {
	encoded, err := EncodeCanonical(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	payload, err := msgpack.Marshal(&signRequest{Identity: signerIdentity, Transaction: encoded})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign request: %w", err)
	}
	req.Header.Set("Content-Type", msgpackMediaType)
	if s.token != "" {
		req.Header.Set(signerTokenHeader, s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: signer unreachable: %v", ledger.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAlgodResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read signer response: %v", ledger.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusConflict:
		s.logger.Warnw("signer declined transaction", "identity", signerIdentity, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s", ledger.ErrSigningRejected, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: signer returned %d", ledger.ErrNetwork, resp.StatusCode)
	case len(body) == 0:
		return nil, fmt.Errorf("%w: signer returned an empty body", ledger.ErrNetwork)
	}

	return body, nil
}
