package solbc

import (
	"context"
	"encoding/binary"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

func mintData(decimals uint8, supply uint64, initialized bool) []byte {
	data := make([]byte, mintAccountSize)
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	if initialized {
		data[45] = 1
	}
	return data
}

type fakeRPC struct {
	calls  atomic.Int32
	fails  int32
	err    error
	result *rpc.GetAccountInfoResult
}

func (f *fakeRPC) GetAccountInfo(_ context.Context, _ solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	n := f.calls.Add(1)
	if n <= f.fails {
		return nil, f.err
	}
	return f.result, nil
}

func accountResult(data []byte) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}

func fastRetrier(retries int) *Retrier {
	return NewRetrier(zap.NewNop(), retries, time.Millisecond)
}

func TestDecodeMint(t *testing.T) {
	metadata, err := DecodeMint(mintData(6, 1_000_000, true))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), metadata.Decimals)
	assert.Equal(t, uint64(1_000_000), metadata.Supply)
	assert.Equal(t, "chain", metadata.Source)

	_, err = DecodeMint(make([]byte, 165))
	assert.ErrorIs(t, err, ErrInvalidMint)

	_, err = DecodeMint(mintData(9, 0, false))
	assert.ErrorIs(t, err, ErrMintUninitialized)
}

func TestGetTokenMetadata_ResolvesAndCaches(t *testing.T) {
	client := &fakeRPC{result: accountResult(mintData(6, 42, true))}
	cache := NewTokenMetadataCache(zap.NewNop(), fastRetrier(2), client)

	first, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), first.Decimals)
	assert.Equal(t, "USDC", first.Symbol)
	assert.Equal(t, "chain", first.Source)

	second, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, "cache", second.Source)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestGetTokenMetadata_CallerCannotMutateCache(t *testing.T) {
	client := &fakeRPC{result: accountResult(mintData(6, 42, true))}
	cache := NewTokenMetadataCache(zap.NewNop(), fastRetrier(0), client)

	first, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	first.Decimals = 18
	first.Symbol = "XXX"

	second, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), second.Decimals)
	assert.Equal(t, "USDC", second.Symbol)
	assert.Equal(t, uint64(42), second.Supply)
}

func TestGetTokenMetadata_RetriesTransientErrors(t *testing.T) {
	client := &fakeRPC{
		fails:  2,
		err:    errors.New("503 service unavailable"),
		result: accountResult(mintData(8, 0, true)),
	}
	cache := NewTokenMetadataCache(zap.NewNop(), fastRetrier(3), client)

	metadata, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(8), metadata.Decimals)
	assert.Equal(t, int32(3), client.calls.Load())
}

func TestGetTokenMetadata_FallsBackToNextEndpoint(t *testing.T) {
	broken := &fakeRPC{fails: 100, err: errors.New("connection refused")}
	healthy := &fakeRPC{result: accountResult(mintData(9, 0, true))}
	cache := NewTokenMetadataCache(zap.NewNop(), fastRetrier(1), broken, healthy)

	metadata, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), metadata.Decimals)
	assert.Equal(t, int32(2), broken.calls.Load())
}

func TestGetTokenMetadata_NotFoundIsPermanent(t *testing.T) {
	client := &fakeRPC{fails: 100, err: rpc.ErrNotFound}
	cache := NewTokenMetadataCache(zap.NewNop(), fastRetrier(5), client)

	_, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	assert.ErrorIs(t, err, ErrMintNotFound)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestGetTokenMetadata_NoClients(t *testing.T) {
	cache := NewTokenMetadataCache(zap.NewNop(), nil)

	_, err := cache.GetTokenMetadata(context.Background(), usdcMint)
	assert.Error(t, err)
}
