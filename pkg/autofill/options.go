package autofill

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/jito"
)

// Options configures autofill helpers.
type Options struct {
	Overrides        map[string]solana.PublicKey
	Preview          io.Writer
	VanitySuffix     string             // Mint address suffix
	VanityPrefix     string             // Mint address prefix
	VanityTimeout    time.Duration      // Vanity search timeout (default: 5 minutes)
	KnownATAs        []solana.PublicKey // Skip the existence check for these token accounts
	JitoTipLamports  uint64             // 0 = no tip
	JitoTipAccount   solana.PublicKey
	ComputeUnitLimit uint32
	ActivationPoint  *uint64
}

// Option functional option.
type Option func(*Options)

func newOptions(opts []Option) *Options {
	o := &Options{ComputeUnitLimit: constants.DefaultComputeUnitLimit}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithOverrides replaces auto-filled pool accounts by field name (Go or snake_case).
func WithOverrides(m map[string]solana.PublicKey) Option {
	return func(o *Options) { o.Overrides = m }
}

// WithPreview writes the resolved accounts and args as JSON to w.
func WithPreview(w io.Writer) Option {
	return func(o *Options) { o.Preview = w }
}

// WithVanitySuffix searches for a mint address ending with suffix.
func WithVanitySuffix(suffix string) Option {
	return func(o *Options) { o.VanitySuffix = suffix }
}

func WithVanityPrefix(prefix string) Option {
	return func(o *Options) { o.VanityPrefix = prefix }
}

func WithVanityTimeout(d time.Duration) Option {
	return func(o *Options) { o.VanityTimeout = d }
}

// WithKnownATAs skips the existence check for token accounts the caller just created.
func WithKnownATAs(atas ...solana.PublicKey) Option {
	return func(o *Options) { o.KnownATAs = append(o.KnownATAs, atas...) }
}

// WithJitoTip appends a tip transfer to a Jito tip account.
func WithJitoTip(tipLamports uint64) Option {
	return func(o *Options) {
		o.JitoTipLamports = tipLamports
		if o.JitoTipAccount.IsZero() {
			o.JitoTipAccount = jito.RandomTipAccount()
		}
	}
}

func WithJitoTipAccount(account solana.PublicKey) Option {
	return func(o *Options) { o.JitoTipAccount = account }
}

// WithComputeUnitLimit overrides the unit limit attached to pool creation. Zero drops it.
func WithComputeUnitLimit(units uint32) Option {
	return func(o *Options) { o.ComputeUnitLimit = units }
}

// WithActivationPoint delays trading until the given slot or timestamp, per the config's activation type.
func WithActivationPoint(point uint64) Option {
	return func(o *Options) { o.ActivationPoint = &point }
}

// MergeOverridesFromJSON merges base58 pubkeys from a JSON object into dst.
func MergeOverridesFromJSON(dst map[string]solana.PublicKey, jsonBytes []byte) (map[string]solana.PublicKey, error) {
	if dst == nil {
		dst = make(map[string]solana.PublicKey)
	}
	var m map[string]string
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return nil, err
		}
		dst[k] = pk
	}
	return dst, nil
}
