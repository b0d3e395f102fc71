package launch

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/types"
)

// Plan is what Run would do, computed with reads only. The mint does not exist
// yet, so token A is assumed to carry the configured decimals.
type Plan struct {
	Payer           solana.PublicKey
	Metadata        Metadata
	SupplyBaseUnits uint64
	Pool            PoolRequest
}

// Plan resolves metadata, supply, the AMM config and pool parameters without writing.
func (o *Orchestrator) Plan(ctx context.Context) (Plan, error) {
	md, err := BuildMetadata(o.cfg)
	if err != nil {
		return Plan{}, err
	}
	supply, err := o.cfg.TotalSupplyBaseUnits()
	if err != nil {
		return Plan{}, types.NewConfigError("supply", err)
	}
	chosen, err := o.selectConfig(ctx)
	if err != nil {
		return Plan{}, &types.StepError{Step: types.StepCreatePool, Err: err}
	}
	decB, err := o.tokens.MintDecimals(ctx, o.cfg.NativeMint)
	if err != nil {
		return Plan{}, &types.StepError{Step: types.StepCreatePool, Err: fmt.Errorf("token b decimals: %w", err)}
	}
	req, err := o.poolRequest(chosen, solana.PublicKey{}, o.cfg.Decimals, decB)
	if err != nil {
		return Plan{}, &types.StepError{Step: types.StepCreatePool, Err: err}
	}
	return Plan{
		Payer:           o.cfg.Payer(),
		Metadata:        md,
		SupplyBaseUnits: supply,
		Pool:            req,
	}, nil
}
