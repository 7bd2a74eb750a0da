package types

type TradeSide string

type LedgerReason string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

const (
	LedgerReasonBuy   LedgerReason = "BUY"
	LedgerReasonSell  LedgerReason = "SELL"
	LedgerReasonGrant LedgerReason = "GRANT"
)

func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}
