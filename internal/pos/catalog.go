package pos

import "strings"

// Filter returns the products whose name contains query as a case-insensitive
// substring. A blank query returns the input unchanged. The input slice is
// never mutated.
func Filter(products []Product, query string) []Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return products
	}

	var matches []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return matches
}
