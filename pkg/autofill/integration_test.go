package autofill_test

import (
	"context"
	"os"
	"testing"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/ninja0404/token-launcher/pkg/autofill"
	sdkconfig "github.com/ninja0404/token-launcher/pkg/config"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
	"github.com/ninja0404/token-launcher/pkg/txbuilder"
	"github.com/ninja0404/token-launcher/pkg/wallet"
)

// Test configuration - set via environment variables
// LAUNCHER_TEST_RPC_URL: RPC endpoint (default: devnet)
// LAUNCHER_TEST_PRIVATE_KEY: funded key as a JSON array of 64 numbers

func getTestConfig(t *testing.T) (rpcURL, privateKey string) {
	rpcURL = os.Getenv("LAUNCHER_TEST_RPC_URL")
	if rpcURL == "" {
		rpcURL = solanarpc.DevNet_RPC
	}

	privateKey = os.Getenv("LAUNCHER_TEST_PRIVATE_KEY")
	if privateKey == "" {
		t.Skip("LAUNCHER_TEST_PRIVATE_KEY not set, skipping integration test")
	}
	return rpcURL, privateKey
}

// TestSimulateCreateMintAndMetadata simulates the create-token transactions
// against a live cluster without submitting them.
func TestSimulateCreateMintAndMetadata(t *testing.T) {
	rpcURL, privateKey := getTestConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := sdkconfig.LauncherRPCConfig(rpcURL)
	cfg.Timeout = 30 * time.Second
	rpcClient := sdkrpc.NewClient(cfg)

	signer, err := wallet.NewLocalFromJSONBytes([]byte(privateKey))
	if err != nil {
		t.Fatalf("Failed to load wallet: %v", err)
	}
	t.Logf("Wallet: %s", signer.PublicKey())

	plan, instrs, err := autofill.CreateMint(ctx, rpcClient, signer.PublicKey(), 8)
	if err != nil {
		t.Fatalf("CreateMint failed: %v", err)
	}
	t.Logf("Mint: %s (rent %d lamports)", plan.Mint, plan.Lamports)

	builder := txbuilder.NewBuilder(rpcClient, solanarpc.CommitmentConfirmed)
	res, err := builder.BuildSignSimulate(ctx, signer, []wallet.Signer{plan.Key}, instrs...)
	if err != nil {
		if res != nil {
			for _, l := range res.Logs {
				t.Logf("  %s", l)
			}
		}
		t.Fatalf("Simulate create mint failed: %v", err)
	}
	t.Logf("Create mint simulated, %d log lines", len(res.Logs))
}
