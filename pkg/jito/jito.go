// Package jito submits launch transactions through the Jito block engine as
// single-transaction bundles, with an optional validator tip.
package jito

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	jitorpc "github.com/jito-labs/jito-go-rpc"
)

const MainnetBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1"

// MainnetBlockEngines are rotated through when an endpoint refuses with a rate limit.
var MainnetBlockEngines = []string{
	"https://mainnet.block-engine.jito.wtf/api/v1",
	"https://amsterdam.mainnet.block-engine.jito.wtf/api/v1",
	"https://frankfurt.mainnet.block-engine.jito.wtf/api/v1",
	"https://ny.mainnet.block-engine.jito.wtf/api/v1",
	"https://tokyo.mainnet.block-engine.jito.wtf/api/v1",
}

// MainnetTipAccounts are the published Jito tip accounts.
var MainnetTipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// RandomTipAccount picks one of the published tip accounts without an RPC call.
func RandomTipAccount() solana.PublicKey {
	return MainnetTipAccounts[rand.Intn(len(MainnetTipAccounts))]
}

// TipInstruction transfers lamports from payer to tipAccount, or to a random
// published tip account when tipAccount is zero.
func TipInstruction(payer, tipAccount solana.PublicKey, lamports uint64) (solana.Instruction, error) {
	if lamports == 0 {
		return nil, fmt.Errorf("tip must be positive")
	}
	if tipAccount.IsZero() {
		tipAccount = RandomTipAccount()
	}
	return system.NewTransferInstruction(lamports, payer, tipAccount).ValidateAndBuild()
}

// Client wraps the Jito RPC client with endpoint rotation.
type Client struct {
	endpoints    []string
	uuid         string
	currentIndex uint32
	maxRetries   int
	retryDelay   time.Duration
}

// NewClient creates a client over the given endpoints; nil means all mainnet engines.
func NewClient(endpoints []string, uuid string) *Client {
	if len(endpoints) == 0 {
		endpoints = MainnetBlockEngines
	}
	return &Client{
		endpoints:  endpoints,
		uuid:       uuid,
		maxRetries: len(endpoints) + 2,
		retryDelay: 100 * time.Millisecond,
	}
}

func (c *Client) nextClient() *jitorpc.JitoJsonRpcClient {
	idx := atomic.AddUint32(&c.currentIndex, 1)
	endpoint := c.endpoints[int(idx)%len(c.endpoints)]
	return jitorpc.NewJitoJsonRpcClient(endpoint, c.uuid)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "congested") ||
		strings.Contains(msg, "429")
}

// SendTransaction sends one signed transaction as a bundle and returns its first signature.
// Only rate-limit refusals move on to the next endpoint; the bundle is never re-sent
// after the engine accepted it.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if tx == nil || len(tx.Signatures) == 0 {
		return solana.Signature{}, fmt.Errorf("transaction is not signed")
	}
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("marshal transaction: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		rawResp, err := c.nextClient().SendBundle([][]string{{encoded}})
		if err != nil {
			lastErr = err
			if isRateLimitError(err) {
				select {
				case <-ctx.Done():
					return solana.Signature{}, ctx.Err()
				case <-time.After(c.retryDelay):
				}
				continue
			}
			return solana.Signature{}, fmt.Errorf("jito send bundle: %w", err)
		}

		var bundleID string
		if err = json.Unmarshal(rawResp, &bundleID); err != nil {
			return solana.Signature{}, fmt.Errorf("unmarshal bundle response: %w", err)
		}
		return tx.Signatures[0], nil
	}
	return solana.Signature{}, fmt.Errorf("jito send bundle failed after %d attempts: %w", c.maxRetries, lastErr)
}
