// internal/blockchain/solbc/token_metadata.go
package solbc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	metadataTTL = 5 * time.Minute

	// Размер аккаунта SPL mint
	mintAccountSize = 82
	// COption: u32 тег + публичный ключ
	mintAuthorityOptionSize = 4 + solana.PublicKeyLength
)

var (
	ErrMintNotFound      = errors.New("mint account not found")
	ErrInvalidMint       = errors.New("account is not an SPL token mint")
	ErrMintUninitialized = errors.New("mint is not initialized")
)

// AccountInfoGetter - часть *rpc.Client, нужная для чтения mint
type AccountInfoGetter interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// TokenMetadata хранит информацию о токене
type TokenMetadata struct {
	Decimals  uint8
	Supply    uint64
	Symbol    string
	Source    string // "chain", "cache"
	UpdatedAt time.Time
}

// TokenMetadataCache управляет кэшированием метаданных токенов
type TokenMetadataCache struct {
	cache   sync.Map
	logger  *zap.Logger
	clients []AccountInfoGetter
	retrier *Retrier
}

// NewTokenMetadataCache опрашивает clients по порядку, пока один не ответит
func NewTokenMetadataCache(logger *zap.Logger, retrier *Retrier, clients ...AccountInfoGetter) *TokenMetadataCache {
	if retrier == nil {
		retrier = NewRetrier(logger, DefaultRetries, DefaultRetryDelay)
	}
	return &TokenMetadataCache{
		logger:  logger,
		clients: clients,
		retrier: retrier,
	}
}

// GetTokenMetadata получает метаданные токена с кэшированием
func (c *TokenMetadataCache) GetTokenMetadata(ctx context.Context, mint solana.PublicKey) (*TokenMetadata, error) {
	if metadata, ok := c.getFromCache(mint.String()); ok {
		c.logger.Debug("token metadata retrieved from cache",
			zap.String("mint", mint.String()),
			zap.Uint8("decimals", metadata.Decimals))
		cached := *metadata
		cached.Source = "cache"
		return &cached, nil
	}

	if len(c.clients) == 0 {
		return nil, errors.New("no RPC clients configured")
	}

	var lastErr error
	for i, client := range c.clients {
		metadata, err := c.retrier.Do(ctx, "get_mint_account", func() (*TokenMetadata, error) {
			return getFromChain(ctx, client, mint)
		})
		if err == nil {
			enrichFromKnownTokens(mint, metadata)
			c.cache.Store(mint.String(), metadata)
			c.logger.Debug("token metadata retrieved",
				zap.String("mint", mint.String()),
				zap.Int("endpoint", i),
				zap.Uint8("decimals", metadata.Decimals),
				zap.Uint64("supply", metadata.Supply),
				zap.String("symbol", metadata.Symbol))
			resolved := *metadata
			return &resolved, nil
		}
		lastErr = err
		c.logger.Warn("endpoint failed to return mint",
			zap.String("mint", mint.String()),
			zap.Int("endpoint", i),
			zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("failed to resolve mint %s: %w", mint, lastErr)
}

// getFromCache получает метаданные из кэша с проверкой TTL
func (c *TokenMetadataCache) getFromCache(mint string) (*TokenMetadata, bool) {
	if value, ok := c.cache.Load(mint); ok {
		metadata := value.(*TokenMetadata)
		if time.Since(metadata.UpdatedAt) < metadataTTL {
			return metadata, true
		}
		c.cache.Delete(mint)
	}
	return nil, false
}

func getFromChain(ctx context.Context, client AccountInfoGetter, mint solana.PublicKey) (*TokenMetadata, error) {
	acc, err := client.GetAccountInfo(ctx, mint)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, permanent(fmt.Errorf("%w: %s", ErrMintNotFound, mint))
		}
		return nil, fmt.Errorf("failed to get mint account: %w", err)
	}
	if acc == nil || acc.Value == nil || acc.Value.Data == nil {
		return nil, permanent(fmt.Errorf("%w: %s", ErrMintNotFound, mint))
	}

	metadata, err := DecodeMint(acc.Value.Data.GetBinary())
	if err != nil {
		return nil, permanent(err)
	}
	return metadata, nil
}

// DecodeMint читает supply и decimals из данных аккаунта SPL mint
func DecodeMint(data []byte) (*TokenMetadata, error) {
	if len(data) != mintAccountSize {
		return nil, fmt.Errorf("%w: data length %d", ErrInvalidMint, len(data))
	}

	dec := bin.NewBinDecoder(data)
	if err := dec.SkipBytes(mintAuthorityOptionSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMint, err)
	}
	supply, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("%w: supply: %v", ErrInvalidMint, err)
	}
	decimals, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: decimals: %v", ErrInvalidMint, err)
	}
	initialized, err := dec.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("%w: state: %v", ErrInvalidMint, err)
	}
	if !initialized {
		return nil, ErrMintUninitialized
	}

	return &TokenMetadata{
		Decimals:  decimals,
		Supply:    supply,
		Source:    "chain",
		UpdatedAt: time.Now(),
	}, nil
}

func enrichFromKnownTokens(mint solana.PublicKey, metadata *TokenMetadata) {
	switch mint.String() {
	case "So11111111111111111111111111111111111111112": // wSOL
		metadata.Symbol = "SOL"
	case "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v":
		metadata.Symbol = "USDC"
	case "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263":
		metadata.Symbol = "BONK"
	}
}
