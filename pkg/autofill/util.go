package autofill

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/jito"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
)

// applyPubkeyOverrides sets exported fields from a map (key: field name or snake_case).
func applyPubkeyOverrides(target interface{}, m map[string]solana.PublicKey) {
	if len(m) == 0 {
		return
	}
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr {
		panic("target must be pointer to struct")
	}
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		panic("target must be struct")
	}
	pkType := reflect.TypeOf(solana.PublicKey{})
	t := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type != pkType {
			continue
		}
		if pk, ok := lookupOverride(field.Name, m); ok {
			val.Field(i).Set(reflect.ValueOf(pk))
		}
	}
}

func lookupOverride(name string, m map[string]solana.PublicKey) (solana.PublicKey, bool) {
	for _, k := range []string{name, lowerCamel(name), snake(name)} {
		if pk, ok := m[k]; ok {
			return pk, true
		}
	}
	return solana.PublicKey{}, false
}

func lowerCamel(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func snake(name string) string {
	var parts []string
	cur := ""
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			parts = append(parts, strings.ToLower(cur))
			cur = string(r)
		} else {
			cur += string(r)
		}
	}
	if cur != "" {
		parts = append(parts, strings.ToLower(cur))
	}
	return strings.Join(parts, "_")
}

// ataRequest holds parameters for a single ATA ensure check.
type ataRequest struct {
	Payer        solana.PublicKey
	Wallet       solana.PublicKey
	Mint         solana.PublicKey
	TokenProgram solana.PublicKey
	ATAAddr      solana.PublicKey // derived
}

// ensureATABatch checks the requested ATAs in one RPC call and returns
// create-idempotent instructions for the missing ones. Known ATAs are not fetched.
func ensureATABatch(ctx context.Context, rpc *sdkrpc.Client, requests []ataRequest, known []solana.PublicKey) ([]solana.Instruction, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	skip := make(map[solana.PublicKey]struct{}, len(known))
	for _, k := range known {
		skip[k] = struct{}{}
	}

	var toFetch []solana.PublicKey
	for i := range requests {
		ata, _, err := FindATA(requests[i].Wallet, requests[i].Mint, requests[i].TokenProgram)
		if err != nil {
			return nil, err
		}
		requests[i].ATAAddr = ata
		if _, ok := skip[ata]; !ok {
			toFetch = append(toFetch, ata)
		}
	}

	amap, err := fetchAccountsBatch(ctx, rpc, toFetch...)
	if err != nil {
		return nil, err
	}

	var instrs []solana.Instruction
	for _, req := range requests {
		if _, ok := skip[req.ATAAddr]; ok {
			continue
		}
		if acc := amap[req.ATAAddr]; acc != nil && acc.Owner.Equals(req.TokenProgram) {
			continue
		}
		instrs = append(instrs, createATAIdempotent(req))
	}
	return instrs, nil
}

// createATAIdempotent succeeds even if the account appeared since the check.
func createATAIdempotent(req ataRequest) solana.Instruction {
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(req.Payer, true, true),
		solana.NewAccountMeta(req.ATAAddr, true, false),
		solana.NewAccountMeta(req.Wallet, false, false),
		solana.NewAccountMeta(req.Mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(req.TokenProgram, false, false),
	}
	return solana.NewInstruction(constants.AssociatedTokenProgramID, metas, []byte{1})
}

// FindATA derives the associated token account of wallet for mint under tokenProgram.
func FindATA(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		wallet[:],
		tokenProgram[:],
		mint[:],
	}, constants.AssociatedTokenProgramID)
}

// fetchAccountsBatch pulls multiple accounts in one RPC call. Missing accounts are absent from the map.
func fetchAccountsBatch(ctx context.Context, rpc *sdkrpc.Client, addrs ...solana.PublicKey) (map[solana.PublicKey]*solanarpc.Account, error) {
	out := make(map[solana.PublicKey]*solanarpc.Account, len(addrs))
	if len(addrs) == 0 {
		return out, nil
	}
	res, err := rpc.GetMultipleAccounts(ctx, addrs...)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	for i, v := range res {
		if v == nil || i >= len(addrs) {
			continue
		}
		out[addrs[i]] = v
	}
	return out, nil
}

// buildWrapWSOL constructs transfer lamports -> ATA + sync_native.
func buildWrapWSOL(payer solana.PublicKey, wsolATA solana.PublicKey, lamports uint64) []solana.Instruction {
	if lamports == 0 {
		return nil
	}
	return []solana.Instruction{
		system.NewTransferInstruction(
			lamports,
			payer,
			wsolATA,
		).Build(),
		token.NewSyncNativeInstruction(wsolATA).Build(),
	}
}

// appendJitoTip appends the tip transfer when one is configured.
func appendJitoTip(instrs []solana.Instruction, payer solana.PublicKey, options *Options) ([]solana.Instruction, error) {
	if options.JitoTipLamports == 0 {
		return instrs, nil
	}
	ix, err := jito.TipInstruction(payer, options.JitoTipAccount, options.JitoTipLamports)
	if err != nil {
		return nil, fmt.Errorf("jito tip: %w", err)
	}
	return append(instrs, ix), nil
}
