package blockchain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/config"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const testToken = "algod-secret"

// fakeAlgod serves the handful of algod endpoints the client uses. Rounds advance
// only when someone waits for the next block.
type fakeAlgod struct {
	mu sync.Mutex

	round       uint64
	balances    map[string]uint64
	confirmAt   uint64 // round at which submitted transactions confirm, 0 = never
	poolError   string
	submitCode  int
	submitMsg   string
	paramsFails int

	// dropSubmit takes the transaction and closes the connection without answering
	dropSubmit bool

	submitted    [][]byte
	waitCalls    int
	paramsCalls  int
	unauthorized int
}

func newFakeAlgod() *fakeAlgod {
	return &fakeAlgod{round: 100, balances: map[string]uint64{}}
}

func (f *fakeAlgod) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get(algodTokenHeader) != testToken {
		f.unauthorized++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid API token"})
		return
	}

	path := r.URL.Path
	switch {
	case path == "/v2/transactions/params":
		f.paramsCalls++
		if f.paramsFails > 0 {
			f.paramsFails--
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "catching up"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"consensus-version": "future",
			"fee":               0,
			"genesis-hash":      []byte("genesis-hash-32-bytes-long......"),
			"genesis-id":        "testnet-v1.0",
			"last-round":        f.round,
			"min-fee":           1000,
		})

	case strings.HasPrefix(path, "/v2/accounts/"):
		addr := strings.TrimPrefix(path, "/v2/accounts/")
		amount, ok := f.balances[addr]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "account not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"address": addr, "amount": amount})

	case path == "/v2/transactions" && r.Method == http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		if f.submitCode != 0 {
			writeJSON(w, f.submitCode, map[string]string{"message": f.submitMsg})
			return
		}
		f.submitted = append(f.submitted, body)
		if f.dropSubmit {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"txId": "TX" + strconv.Itoa(len(f.submitted))})

	case strings.HasPrefix(path, "/v2/transactions/pending/"):
		if len(f.submitted) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "txn not found"})
			return
		}
		resp := map[string]any{"pool-error": f.poolError}
		if f.confirmAt != 0 && f.round >= f.confirmAt {
			resp["confirmed-round"] = f.confirmAt
		}
		writeJSON(w, http.StatusOK, resp)

	case path == "/v2/status":
		writeJSON(w, http.StatusOK, map[string]any{"last-round": f.round})

	case strings.HasPrefix(path, "/v2/status/wait-for-block-after/"):
		after, _ := strconv.ParseUint(strings.TrimPrefix(path, "/v2/status/wait-for-block-after/"), 10, 64)
		f.waitCalls++
		if f.round <= after {
			f.round = after + 1
		}
		writeJSON(w, http.StatusOK, map[string]any{"last-round": f.round})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type mockSigner struct {
	signFunc func(ctx context.Context, tx *ledger.UnsignedTransaction, identity string) ([]byte, error)
	calls    int
}

func (m *mockSigner) Sign(ctx context.Context, tx *ledger.UnsignedTransaction, identity string) ([]byte, error) {
	m.calls++
	if m.signFunc != nil {
		return m.signFunc(ctx, tx, identity)
	}
	raw, err := EncodeCanonical(tx)
	if err != nil {
		return nil, err
	}
	return append([]byte("signed:"), raw...), nil
}

func newTestClient(t *testing.T, fake *fakeAlgod) (*LedgerClient, *AlgodClient, *mockSigner) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	algod := NewAlgodClient(&config.LedgerConfig{
		AlgodURL:          srv.URL,
		APIToken:          testToken,
		RequestTimeoutSec: 5,
		MaxRetries:        3,
	}, logger.NewNopLogger())
	algod.backoffBase = time.Millisecond

	signer := &mockSigner{}
	return NewLedgerClient(algod, signer, logger.NewNopLogger()), algod, signer
}

func testAddress(seed byte) vo.Address {
	var key [32]byte
	key[0] = seed
	return vo.AddressFromPublicKey(key)
}
