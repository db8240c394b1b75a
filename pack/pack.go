package pack

import (
	"context"
	"log/slog"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch"
)

// Options bundles the packer's configurable behaviour.
type Options struct {
	Rules       RuleTable
	Macros      Registry
	AllowCarry8 bool
	// CanTieInFabric reports whether a constant net can be tied
	// directly in fabric rather than folded into consuming LUTs.
	CanTieInFabric func(net *design.NetInfo) bool
}

// Pack runs the full packing pipeline over its subroutines in order:
// cell transforms, macro expansion, soft-logic
// lowering, carry-chain packing, then the uarch's own family-specific
// passes, and finally constant propagation.
func Pack(ctx *design.Context, in *idstring.Interner, arch uarch.Arch, opts Options) error {
	slog.Log(context.Background(), slog.LevelInfo+1, "pack: applying cell transforms", "rules", len(opts.Rules))
	ApplyXForms(ctx, opts.Rules)

	if len(opts.Macros) > 0 {
		expander := &Expander{Registry: opts.Macros, In: in}
		slog.Log(context.Background(), slog.LevelInfo+1, "pack: expanding macros")
		if err := expander.Run(ctx); err != nil {
			return err
		}
	}

	slog.Log(context.Background(), slog.LevelInfo+1, "pack: lowering soft logic")
	LowerSoftLogic(ctx, in)

	slog.Log(context.Background(), slog.LevelInfo+1, "pack: packing carry chains", "allow_carry8", opts.AllowCarry8)
	if err := PackCarryChains(ctx, in, opts.AllowCarry8); err != nil {
		return err
	}

	slog.Log(context.Background(), slog.LevelInfo+1, "pack: forming placement clusters")
	detectMuxTrees(ctx)
	detectBelLockedPairs(ctx)

	if arch != nil {
		slog.Log(context.Background(), slog.LevelInfo+1, "pack: running architecture-specific passes", "uarch", arch.Name())
		if err := arch.Pack(ctx); err != nil {
			return err
		}
	}

	slog.Log(context.Background(), slog.LevelInfo+1, "pack: propagating constants")
	PropagateConstants(ctx, opts.CanTieInFabric)

	return nil
}
