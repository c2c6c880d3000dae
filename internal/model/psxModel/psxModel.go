package psxModel

// RawTickResponse mirrors the PSX terminal tick endpoint payload. Price is a
// pointer because the API returns null outside trading hours for illiquid
// symbols.
type RawTickResponse struct {
	Success bool    `json:"success"`
	Data    RawTick `json:"data"`
}

type RawTick struct {
	Symbol        string   `json:"symbol"`
	Price         *float64 `json:"price"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	Volume        int64    `json:"volume"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Timestamp     int64    `json:"timestamp"`
}
