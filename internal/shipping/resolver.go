// Package shipping resolves which shipping methods can serve a destination
// province and in what order they should be offered.
package shipping

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unrankedPriority sorts methods without a numeric priority after everything
// else.
const unrankedPriority = -9999

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeProvince trims, upper-cases and strips diacritics so "Manabí",
// " manabi " and "MANABI" all compare equal.
func NormalizeProvince(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripDiacritics, trimmed); err == nil {
		trimmed = stripped
	}
	return strings.ToUpper(trimmed)
}

// Eligible filters methods for the destination province and orders them.
// An empty province applies no geographic filtering. A method qualifies when
// its allow-list is empty or contains the province, and its deny-list does
// not contain it. Methods with visible == false never qualify.
func Eligible(methods []types.ShippingOption, province string) []types.ShippingOption {
	normalized := NormalizeProvince(province)

	eligible := make([]types.ShippingOption, 0, len(methods))
	for _, method := range methods {
		if method.Visible != nil && !*method.Visible {
			continue
		}
		if normalized != "" && !servesProvince(method, normalized) {
			continue
		}
		eligible = append(eligible, method)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Featured != eligible[j].Featured {
			return eligible[i].Featured
		}
		return priorityOf(eligible[i]) > priorityOf(eligible[j])
	})
	return eligible
}

func servesProvince(method types.ShippingOption, province string) bool {
	for _, denied := range method.DenyList {
		if NormalizeProvince(denied) == province {
			return false
		}
	}
	if len(method.AllowList) == 0 {
		return true
	}
	for _, allowed := range method.AllowList {
		if NormalizeProvince(allowed) == province {
			return true
		}
	}
	return false
}

func priorityOf(method types.ShippingOption) int {
	if method.Priority == nil {
		return unrankedPriority
	}
	return *method.Priority
}

// Reselect resolves the selected option after the eligible set changed: the
// previous selection survives if its id is still present, otherwise the first
// eligible option wins, otherwise there is no selection.
func Reselect(previousID string, eligible []types.ShippingOption) *types.ShippingOption {
	if previousID != "" {
		for i := range eligible {
			if eligible[i].ID == previousID {
				return &eligible[i]
			}
		}
	}
	if len(eligible) > 0 {
		return &eligible[0]
	}
	return nil
}
