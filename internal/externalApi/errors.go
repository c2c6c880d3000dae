package externalApi

import "errors"

var (
	ErrNoData = errors.New("no data available from API")
)
