package domain

import "github.com/shopspring/decimal"

// Asset is one display-ready row of the portfolio. Assets are recomputed
// wholesale on every refresh, never mutated in place.
type Asset struct {
	Name           string
	Symbol         string
	Amount         decimal.Decimal
	DisplayAmount  string
	UsdValue       decimal.Decimal
	ChangeAbsolute decimal.Decimal
	ChangePercent  decimal.Decimal
	IconKey        string
}

// Portfolio is the reconciled snapshot of everything the account holds.
type Portfolio struct {
	NativeBalance decimal.Decimal
	Assets        []Asset
	TotalUsd      decimal.Decimal
	DeltaUsd      decimal.Decimal
	DeltaPercent  decimal.Decimal
	UpdatedAt     int64
}
