package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"opcomcli/pkg/contracts/domain"
)

var (
	// ErrMissingFxRate is returned when a RON->EUR conversion is requested
	// without a rate. Run-level fatal: silently guessing a financial
	// conversion is worse than failing loudly.
	ErrMissingFxRate = errors.New("RON->EUR conversion requested but no fx rate provided")
	// ErrUnsupportedConversion is returned for any pair with no defined
	// conversion rule. No implicit cross-rate guessing.
	ErrUnsupportedConversion = errors.New("unsupported currency conversion")
)

// Converter re-denominates a finalized series. The only supported
// non-identity pair is RON->EUR with an explicit rate.
type Converter struct {
	source string
	target string
	rate   float64 // RON per 1 EUR; zero for the identity conversion
}

// NewConverter validates the requested pair. It is constructed before
// discovery so an impossible conversion aborts the run before any file is
// read and before any output exists.
func NewConverter(source, target string, fxRate float64) (*Converter, error) {
	src := strings.ToUpper(strings.TrimSpace(source))
	tgt := strings.ToUpper(strings.TrimSpace(target))

	if src == tgt {
		return &Converter{source: src, target: tgt}, nil
	}
	if src == "RON" && tgt == "EUR" {
		if fxRate <= 0 {
			return nil, ErrMissingFxRate
		}
		return &Converter{source: src, target: tgt, rate: fxRate}, nil
	}
	return nil, fmt.Errorf("%w: %s->%s", ErrUnsupportedConversion, src, tgt)
}

// Source returns the normalized source currency code. Records are stamped
// with it during normalization.
func (c *Converter) Source() string { return c.source }

// Target returns the normalized output currency code.
func (c *Converter) Target() string { return c.target }

// Apply re-denominates the series in place and stamps the target
// currency. A same-currency conversion leaves prices untouched.
func (c *Converter) Apply(series *domain.PriceSeries) {
	for i := range series.Records {
		if c.rate > 0 {
			series.Records[i].Price /= c.rate
		}
		series.Records[i].Currency = c.target
	}
}

// ApplySlots is Apply for the quarter-hour series.
func (c *Converter) ApplySlots(series *domain.SlotSeries) {
	for i := range series.Records {
		if c.rate > 0 {
			series.Records[i].Price /= c.rate
		}
		series.Records[i].Currency = c.target
	}
}
