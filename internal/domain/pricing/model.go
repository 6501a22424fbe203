package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"memberdesk/internal/domain/member"
)

//go:embed default_pricing.yaml
var defaultPricing []byte

// ErrNotFound is returned when no price exists for a type and plan.
var ErrNotFound = errors.New("no price for member type and plan")

// Price is the rate for one member type on one plan.
type Price struct {
	MemberType string
	Plan       string
	Amount     float64
}

// Validate checks if the Price has valid data.
// INVARIANT: Amount is not negative; type and plan are known
func (p *Price) Validate() error {
	if !member.IsValid(p.MemberType, member.Types) {
		return fmt.Errorf("unknown member type %q", p.MemberType)
	}
	if !member.IsValid(p.Plan, member.Plans) {
		return fmt.Errorf("unknown plan %q", p.Plan)
	}
	if p.Amount < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// Defaults returns the embedded price list.
func Defaults() ([]Price, error) {
	return Parse(defaultPricing)
}

// LoadFile reads a price list from a YAML file shaped like the embedded default.
func LoadFile(path string) ([]Price, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file %q: %w", path, err)
	}
	prices, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse pricing file %q: %w", path, err)
	}
	return prices, nil
}

// Parse decodes a type -> plan -> amount YAML document.
// POST: prices are sorted by member type then plan, in display order
func Parse(data []byte) ([]Price, error) {
	var table map[string]map[string]float64
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	var prices []Price
	for memberType, plans := range table {
		for plan, amount := range plans {
			p := Price{MemberType: memberType, Plan: plan, Amount: amount}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			prices = append(prices, p)
		}
	}
	slices.SortFunc(prices, func(a, b Price) int {
		if c := slices.Index(member.Types, a.MemberType) - slices.Index(member.Types, b.MemberType); c != 0 {
			return c
		}
		return slices.Index(member.Plans, a.Plan) - slices.Index(member.Plans, b.Plan)
	})
	return prices, nil
}
