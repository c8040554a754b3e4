package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-lp-router/internal/rpc"
)

func TestParsePrivateKey(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	fromB58, err := ParsePrivateKey(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), fromB58.PublicKey())

	ints := make([]string, len(key))
	for i, b := range key {
		ints[i] = fmt.Sprint(b)
	}
	fromJSON, err := ParsePrivateKey(" [" + strings.Join(ints, ",") + "]\n")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), fromJSON.PublicKey())
}

func TestParsePrivateKey_Invalid(t *testing.T) {
	tests := []string{
		"not base58 0OIl",
		base58.Encode([]byte{1, 2, 3}),
		"[1,2,3]",
		"[1,2,300]",
		"[1,2,",
	}
	for _, in := range tests {
		_, err := ParsePrivateKey(in)
		assert.Error(t, err, in)
	}
}

func TestNewWallet_Validation(t *testing.T) {
	client := rpc.NewClient(rpc.ClientConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := NewWallet(WalletConfig{PrivateKey: base58.Encode(solana.NewWallet().PrivateKey)}, nil)
	assert.Error(t, err)

	_, err = NewWallet(WalletConfig{}, client)
	assert.Error(t, err)

	w, err := NewWallet(WalletConfig{PrivateKey: base58.Encode(solana.NewWallet().PrivateKey)}, client)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", w.cfg.Commitment)
	assert.Equal(t, w.PublicKey().String(), w.Address())
}

// fakeCluster answers the RPC methods used by Invoke
type fakeCluster struct {
	mu        sync.Mutex
	methods   []string
	simErr    interface{}
	txErr     interface{}
	blockhash string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		Method string `json:"method"`
	}
	_ = json.Unmarshal(body, &req)

	f.mu.Lock()
	f.methods = append(f.methods, req.Method)
	f.mu.Unlock()

	var result interface{}
	switch req.Method {
	case "getLatestBlockhash":
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   map[string]interface{}{"blockhash": f.blockhash, "lastValidBlockHeight": 100},
		}
	case "simulateTransaction":
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   map[string]interface{}{"err": f.simErr, "logs": []string{"Program log: ok"}},
		}
	case "sendTransaction":
		result = "5sig"
	case "getSignatureStatuses":
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 2},
			"value": []interface{}{
				map[string]interface{}{"slot": 2, "err": f.txErr, "confirmationStatus": "confirmed"},
			},
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": 1, "result": result})
}

func newTestWallet(t *testing.T, cluster *fakeCluster, simulate bool) *Wallet {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client := rpc.NewClient(rpc.ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	w, err := NewWallet(WalletConfig{
		PrivateKey:        base58.Encode(solana.NewWallet().PrivateKey),
		RequireSimulation: simulate,
		ConfirmTimeout:    2 * time.Second,
	}, client)
	require.NoError(t, err)
	return w
}

func testInstruction(signer solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.NewWallet().PublicKey(),
		solana.AccountMetaSlice{solana.Meta(signer).SIGNER().WRITE()},
		[]byte{1},
	)
}

func TestInvoke(t *testing.T) {
	cluster := &fakeCluster{blockhash: solana.NewWallet().PublicKey().String()}
	w := newTestWallet(t, cluster, true)

	sig, err := w.Invoke(context.Background(), testInstruction(w.PublicKey()))
	require.NoError(t, err)
	assert.Equal(t, "5sig", sig)
	assert.Equal(t, []string{
		"getLatestBlockhash", "simulateTransaction", "sendTransaction", "getSignatureStatuses",
	}, cluster.methods)
}

func TestInvoke_SimulationRejected(t *testing.T) {
	cluster := &fakeCluster{
		blockhash: solana.NewWallet().PublicKey().String(),
		simErr:    map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
	}
	w := newTestWallet(t, cluster, true)

	_, err := w.Invoke(context.Background(), testInstruction(w.PublicKey()))
	assert.ErrorIs(t, err, ErrSimulationFailed)
	assert.NotContains(t, cluster.methods, "sendTransaction")
}

func TestInvoke_TransactionFailed(t *testing.T) {
	cluster := &fakeCluster{
		blockhash: solana.NewWallet().PublicKey().String(),
		txErr:     "InsufficientFundsForFee",
	}
	w := newTestWallet(t, cluster, false)

	sig, err := w.Invoke(context.Background(), testInstruction(w.PublicKey()))
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Equal(t, "5sig", sig)
	assert.NotContains(t, cluster.methods, "simulateTransaction")
}

func TestInvoke_NoInstructions(t *testing.T) {
	w := newTestWallet(t, &fakeCluster{}, false)
	_, err := w.Invoke(context.Background())
	assert.Error(t, err)
}
