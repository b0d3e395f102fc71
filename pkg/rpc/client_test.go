package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/internal/rpctest"
	"github.com/ninja0404/token-launcher/pkg/config"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
	"github.com/ninja0404/token-launcher/pkg/types"
)

func newClient(srv *rpctest.Server, attempts int) *sdkrpc.Client {
	cfg := config.LauncherRPCConfig(srv.URL)
	cfg.RateLimit.RPS = 0
	cfg.Timeout = 5 * time.Second
	if attempts > 1 {
		cfg.Retry.Enabled = true
		cfg.Retry.MaxAttempts = attempts
		cfg.Retry.InitialBackoff = time.Millisecond
		cfg.Retry.MaxBackoff = 2 * time.Millisecond
	}
	return sdkrpc.NewClient(cfg)
}

func TestGetLatestBlockhash(t *testing.T) {
	srv := rpctest.NewServer(t)
	hash := solana.HashFromBytes([]byte("blockhash-for-launcher-tests-000"))
	srv.Result("getLatestBlockhash", rpctest.Blockhash(hash))

	out, err := newClient(srv, 1).GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, out.Value.Blockhash)
}

func TestReadsAreNotRetriedByDefault(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Handle("getLatestBlockhash", func(json.RawMessage) (interface{}, error) {
		return nil, errors.New("node is behind")
	})

	_, err := newClient(srv, 1).GetLatestBlockhash(context.Background())
	var rpcErr types.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "getLatestBlockhash", rpcErr.Op)
	assert.Equal(t, 1, srv.Calls("getLatestBlockhash"))
}

func TestReadRetry(t *testing.T) {
	srv := rpctest.NewServer(t)
	hash := solana.HashFromBytes([]byte("blockhash-for-launcher-tests-001"))
	failures := 2
	srv.Handle("getLatestBlockhash", func(json.RawMessage) (interface{}, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("node is behind")
		}
		return rpctest.Blockhash(hash), nil
	})

	out, err := newClient(srv, 3).GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, out.Value.Blockhash)
	assert.Equal(t, 3, srv.Calls("getLatestBlockhash"))
}

func TestSendIsNeverRetried(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Handle("sendTransaction", func(json.RawMessage) (interface{}, error) {
		return nil, errors.New("blockhash not found")
	})

	payer := solana.NewWallet()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build()},
		solana.Hash{1},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(payer.PublicKey()) {
			return &payer.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)

	_, err = newClient(srv, 5).SendTransaction(context.Background(), tx, solanarpc.TransactionOpts{})
	require.Error(t, err)
	assert.Equal(t, 1, srv.Calls("sendTransaction"))
}

func TestGetAccountInfoNotFound(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Result("getAccountInfo", rpctest.WithContext(nil))

	_, err := newClient(srv, 3).GetAccountInfo(context.Background(), solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, types.ErrAccountNotFound)
	assert.Equal(t, 1, srv.Calls("getAccountInfo"))
}

func TestGetMultipleAccounts(t *testing.T) {
	srv := rpctest.NewServer(t)
	owner := solana.TokenProgramID
	srv.Result("getMultipleAccounts", rpctest.WithContext([]interface{}{
		nil,
		rpctest.Account(owner, []byte{1, 2, 3}, 42),
	}))

	accs, err := newClient(srv, 1).GetMultipleAccounts(context.Background(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Nil(t, accs[0])
	assert.Equal(t, owner, accs[1].Owner)
	assert.Equal(t, []byte{1, 2, 3}, accs[1].Data.GetBinary())

	none, err := newClient(srv, 1).GetMultipleAccounts(context.Background())
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Equal(t, 1, srv.Calls("getMultipleAccounts"))
}

func TestCommitmentDefault(t *testing.T) {
	c := sdkrpc.NewClient(config.RPCConfig{RPCURL: "http://127.0.0.1:1"})
	assert.Equal(t, solanarpc.CommitmentConfirmed, c.Commitment())
}

func TestContextCancelStopsRetry(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Handle("getMinimumBalanceForRentExemption", func(json.RawMessage) (interface{}, error) {
		return nil, errors.New("unavailable")
	})
	cfg := config.LauncherRPCConfig(srv.URL)
	cfg.RateLimit.RPS = 0
	cfg.Retry.Enabled = true
	cfg.Retry.MaxAttempts = 50
	cfg.Retry.InitialBackoff = time.Second
	cfg.Retry.Jitter = false

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := sdkrpc.NewClient(cfg).GetMinimumBalanceForRentExemption(ctx, 82)
	require.Error(t, err)
	assert.Less(t, srv.Calls("getMinimumBalanceForRentExemption"), 3)
}
