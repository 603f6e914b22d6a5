// internal/calc/runner.go
package calc

import (
	"context"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/paycalc/internal/amount"
	"github.com/rovshanmuradov/paycalc/internal/blockchain/solbc"
	"github.com/rovshanmuradov/paycalc/internal/config"
	"github.com/rovshanmuradov/paycalc/internal/report"
)

// MetadataResolver возвращает decimals и символ токена по mint
type MetadataResolver interface {
	GetTokenMetadata(ctx context.Context, mint solana.PublicKey) (*solbc.TokenMetadata, error)
}

type Runner struct {
	logger   *zap.Logger
	config   *config.Config
	resolver MetadataResolver
	out      io.Writer
}

// NewRunner: если в конфиге задан mint, подключает RPC-резолвер
func NewRunner(cfg *config.Config, logger *zap.Logger, out io.Writer) *Runner {
	r := &Runner{logger: logger, config: cfg, out: out}
	if cfg.Mint != "" {
		clients := make([]solbc.AccountInfoGetter, 0, len(cfg.RPCList))
		for _, url := range cfg.RPCList {
			clients = append(clients, solanarpc.New(url))
		}
		retrier := solbc.NewRetrier(logger, cfg.Retries, solbc.DefaultRetryDelay)
		r.resolver = solbc.NewTokenMetadataCache(logger, retrier, clients...)
	}
	return r
}

// WithResolver заменяет резолвер метаданных
func (r *Runner) WithResolver(resolver MetadataResolver) *Runner {
	r.resolver = resolver
	return r
}

// Run считает стоимость и пишет отчет в out
func (r *Runner) Run(ctx context.Context) (report.Result, error) {
	feeRate, err := r.config.FeeRateInt()
	if err != nil {
		return report.Result{}, fmt.Errorf("invalid fee rate: %w", err)
	}

	decimals, symbol, err := r.tokenParams(ctx)
	if err != nil {
		return report.Result{}, err
	}

	cost := amount.ComputeFormattedCost(feeRate, r.config.Minutes(), decimals)
	r.logger.Debug("cost computed",
		zap.String("fee_rate", cost.FeeRate.String()),
		zap.String("duration_seconds", cost.DurationSeconds.String()),
		zap.String("total_cost_raw", cost.TotalCostRaw.String()),
		zap.String("divisor", cost.Divisor.String()),
		zap.Float64("formatted", cost.Formatted),
		zap.Float64("relative_error", cost.RelativeError()))

	res, err := report.Write(r.out, report.Input{
		Cost:     cost,
		Symbol:   symbol,
		Expected: r.config.ExpectedAmount,
	})
	if err != nil {
		return res, fmt.Errorf("failed to write report: %w", err)
	}

	if !res.Matches {
		r.logger.Warn("formatted amount differs from expectation",
			zap.String("formatted", res.Formatted),
			zap.String("expected", r.config.ExpectedAmount))
	}
	return res, nil
}

// tokenParams возвращает decimals и символ из конфига или из блокчейна,
// если задан mint
func (r *Runner) tokenParams(ctx context.Context) (uint8, string, error) {
	if r.config.Mint == "" || r.resolver == nil {
		return r.config.Decimals(), r.config.TokenSymbol, nil
	}

	mint, err := solana.PublicKeyFromBase58(r.config.Mint)
	if err != nil {
		return 0, "", fmt.Errorf("invalid mint %q: %w", r.config.Mint, err)
	}

	metadata, err := r.resolver.GetTokenMetadata(ctx, mint)
	if err != nil {
		return 0, "", fmt.Errorf("failed to resolve token decimals: %w", err)
	}

	symbol := metadata.Symbol
	if symbol == "" {
		symbol = r.config.TokenSymbol
	}
	r.logger.Info("token decimals resolved from chain",
		zap.String("mint", mint.String()),
		zap.Uint8("decimals", metadata.Decimals),
		zap.Uint64("supply", metadata.Supply),
		zap.String("source", metadata.Source))
	return metadata.Decimals, symbol, nil
}
