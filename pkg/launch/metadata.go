package launch

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ninja0404/token-launcher/pkg/config"
	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/types"
)

// BuildMetadata applies the byte limits of the metadata program: the branded name
// and the upper-cased symbol are cut at rune boundaries, and the URI must be
// non-empty once cut.
func BuildMetadata(cfg config.LaunchConfig) (Metadata, error) {
	md := Metadata{
		Name:   types.TruncateUTF8(cfg.BrandPrefix+cfg.TokenName, constants.MaxNameLength),
		Symbol: types.TruncateUTF8(cases.Upper(language.Und).String(cfg.TokenSymbol), constants.MaxSymbolLength),
		URI:    types.TruncateUTF8(cfg.MetadataURI, constants.MaxURILength),
	}
	if err := types.ValidateMetadataURI(md.URI, constants.MaxURILength); err != nil {
		return Metadata{}, err
	}
	return md, nil
}
