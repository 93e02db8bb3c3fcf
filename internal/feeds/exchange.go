package feeds

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BaseCurrency is the base of every rate table.
const BaseCurrency = "BDT"

// Currencies are the codes kept from the upstream rate table.
var Currencies = []string{"USD", "EUR", "GBP", "INR", "SAR", "AED", "MYR", "SGD", "JPY", "CNY", "AUD", "CAD"}

// ErrUnknownCurrency is returned by Convert for a code without a rate.
var ErrUnknownCurrency = errors.New("unknown currency")

// Rates maps currency codes to units per one BDT.
type Rates struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	LastUpdated string             `json:"lastUpdated"`
}

type exchangeResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	LastUpdateUTC   string             `json:"time_last_update_utc"`
}

// ExchangeRates returns the latest BDT-based rates.
func (s *Service) ExchangeRates(ctx context.Context) (*Rates, error) {
	if s.cfg.ExchangeAPIKey == "" {
		return nil, &Error{Feed: "Exchange", Err: ErrNotConfigured}
	}
	rates, err := cached(ctx, s, "exchange", s.fetchExchange)
	if err != nil {
		s.logger.Error("Exchange API failed", "error", err)
		return nil, &Error{Feed: "Exchange", Err: err}
	}
	return rates, nil
}

func (s *Service) fetchExchange(ctx context.Context) (*Rates, error) {
	var resp exchangeResponse
	url := fmt.Sprintf("%s/v6/%s/latest/%s", s.cfg.ExchangeURL, s.cfg.ExchangeAPIKey, BaseCurrency)
	if _, err := s.getJSON(ctx, url, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result != "success" {
		s.logger.Warn("Exchange API returned non-success", "result", resp.Result)
		return nil, ErrUpstream
	}

	rates := make(map[string]float64, len(Currencies))
	for _, code := range Currencies {
		if rate, ok := resp.ConversionRates[code]; ok {
			rates[code] = rate
		}
	}
	s.logger.Info("Exchange API returned rates", "currencies", len(rates))
	return &Rates{Base: BaseCurrency, Rates: rates, LastUpdated: resp.LastUpdateUTC}, nil
}

// Convert converts amount between two currencies through BDT.
func Convert(amount float64, from, to string, rates map[string]float64) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	rate := func(code string) (float64, error) {
		if code == BaseCurrency {
			return 1, nil
		}
		r, ok := rates[code]
		if !ok || r <= 0 {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
		}
		return r, nil
	}

	fromRate, err := rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := rate(to)
	if err != nil {
		return 0, err
	}
	return amount / fromRate * toRate, nil
}
