// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"strings"
	"testing"
)

// The degraded search path and the popular-venues list both rank by the
// static popularity proxy: rating first, then review count. These checks
// pin the query contracts that integration environments rely on.
func TestSearchVenuesILikeQueryContract(t *testing.T) {
	if !strings.Contains(searchVenuesILike, "name ILIKE") ||
		!strings.Contains(searchVenuesILike, "address ILIKE") {
		t.Error("fallback search must match on name and address")
	}
	if !strings.Contains(searchVenuesILike, "ORDER BY rating DESC NULLS LAST, review_count DESC") {
		t.Error("fallback search must order by rating then review count")
	}
}

func TestListPopularVenuesQueryContract(t *testing.T) {
	if !strings.Contains(listPopularVenues, "rating IS NOT NULL") {
		t.Error("popular venues must exclude unrated rows")
	}
	if !strings.Contains(listPopularVenues, "ORDER BY rating DESC, review_count DESC") {
		t.Error("popular venues must order by rating then review count")
	}
}
