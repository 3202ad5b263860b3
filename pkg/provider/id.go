package provider

import (
	"math"
	"regexp"
	"strings"

	"github.com/primis-labs/primis-backend/pkg/models"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// OfferingID is the structured form of a canonical catalog id. Operations
// dispatch on Provider internally; the string form exists only at the API
// boundary.
type OfferingID struct {
	Provider string
	Slug     string
}

func (id OfferingID) String() string {
	return id.Provider + "-" + id.Slug
}

// normalizeName uppercases for comparison, strips a leading "NVIDIA " vendor
// token and collapses whitespace. "NVIDIA A100 80GB" and "a100  80gb" slug
// identically.
func normalizeName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "NVIDIA ")
	return strings.Join(strings.Fields(s), " ")
}

func slug(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// CanonicalID builds the id for a catalog entry. Adapters must generate ids
// only through this function: the registry and router parse the leading
// token to route single-target operations, so divergent formats break
// dispatch. Two providers listing the "same" GPU deliberately get different
// ids; ComparePrices handles cross-provider equivalence.
func CanonicalID(providerName, name string) string {
	return OfferingID{
		Provider: strings.ToLower(strings.TrimSpace(providerName)),
		Slug:     slug(normalizeName(name)),
	}.String()
}

// ParseOfferingID splits a canonical id back into its structured form.
func ParseOfferingID(id string) (OfferingID, error) {
	head, rest, ok := strings.Cut(id, "-")
	if !ok || head == "" || rest == "" {
		return OfferingID{}, &models.NotFoundError{Kind: "offering", ID: id}
	}
	return OfferingID{Provider: head, Slug: rest}, nil
}

// NormalizedGPUType exposes the comparison form of a GPU name for substring
// matching in filters and price comparison.
func NormalizedGPUType(name string) string {
	return normalizeName(name)
}

// CalculateSavings returns the integer percentage saved against the market
// price, 0 when no market price is known.
func CalculateSavings(price, marketPrice float64) int {
	if marketPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - price/marketPrice) * 100))
}
