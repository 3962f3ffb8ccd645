package events

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCampaignSettledAttributes(t *testing.T) {
	evt := CampaignSettled{
		ID:                [32]byte{0xaa},
		Success:           true,
		Raised:            1000,
		CreatorDirect:     100,
		LiquidityCurrency: 700,
		DevFundCurrency:   150,
		ProtocolFee:       50,
		TokensPerCurrency: big.NewInt(2000),
		Timestamp:         42,
	}
	payload := evt.Event()
	require.Equal(t, TypeCampaignSettled, payload.Type)
	require.Equal(t, "true", payload.Attr("success"))
	require.Equal(t, "2000", payload.Attr("tokensPerCurrency"))
	require.Equal(t, "42", payload.Attr("timestamp"))
}

func TestCampaignPayoutUsesKind(t *testing.T) {
	evt := CampaignPayout{Kind: TypeCampaignRefunded, Recipient: [20]byte{1}, Amount: 5, Timestamp: 9}
	require.Equal(t, TypeCampaignRefunded, evt.EventType())
	require.Equal(t, "5", evt.Event().Attr("amount"))
	require.Contains(t, evt.Event().Attr("recipient"), "lp1")
}

func TestCampaignPoolCreatedAttributes(t *testing.T) {
	evt := CampaignPoolCreated{ID: [32]byte{0xbb}, Pool: [20]byte{2}, Asset: "meme", CurrencyAmount: 700, AssetAmount: 300, Timestamp: 7}
	payload := evt.Event()
	require.Equal(t, TypeCampaignPoolCreated, evt.EventType())
	require.Equal(t, "MEME", payload.Attr("asset"))
	require.Equal(t, "700", payload.Attr("currencyAmount"))
	require.Equal(t, "300", payload.Attr("assetAmount"))
	require.Contains(t, payload.Attr("pool"), "lp1")
}

func TestBufferFlushesInOrder(t *testing.T) {
	var buf Buffer
	rec := &Recorder{}
	buf.Emit(CampaignPayout{Kind: TypeCampaignTokensClaimed, Amount: 1})
	buf.Emit(CampaignPayout{Kind: TypeCampaignRefunded, Amount: 2})
	require.Empty(t, rec.Events())

	buf.Flush(rec)
	got := rec.Events()
	require.Len(t, got, 2)
	require.Equal(t, TypeCampaignTokensClaimed, got[0].EventType())
	require.Equal(t, TypeCampaignRefunded, got[1].EventType())

	buf.Emit(CampaignPayout{Kind: TypeCampaignRefunded})
	buf.Discard()
	buf.Flush(rec)
	require.Len(t, rec.Events(), 2)
}
