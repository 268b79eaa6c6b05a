package models

import "strconv"

// BookKey identifies the order book for one outcome of one market.
type BookKey struct {
	MarketID  MarketID  `json:"market_id"`
	OutcomeID OutcomeID `json:"outcome_id"`
}

func (k BookKey) String() string {
	return strconv.FormatInt(int64(k.MarketID), 10) + "/" + strconv.FormatInt(int64(k.OutcomeID), 10)
}

// Less orders keys by market, then outcome.
func (k BookKey) Less(other BookKey) bool {
	if k.MarketID != other.MarketID {
		return k.MarketID < other.MarketID
	}
	return k.OutcomeID < other.OutcomeID
}
