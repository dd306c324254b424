package mocks

//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rxtech-lab/dionysus/internal/history Source
//go:generate mockgen -destination=./mock_trader.go -package=mocks github.com/rxtech-lab/dionysus/internal/trading Trader
