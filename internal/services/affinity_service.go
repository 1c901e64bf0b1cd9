// internal/services/affinity_service.go
package services

import (
	"sort"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

const (
	maxAffinityProducts = 3
	maxPairingChargers  = 3
	maxPairingMPPT      = 2
	maxUpgradePaths     = 3
	maxPairingTips      = 4
)

// ProductLookup resolves product ids against the catalog.
type ProductLookup interface {
	Product(id string) (models.Product, bool)
}

type AffinityService struct {
	products ProductLookup
	tables   catalog.ContentTables
}

type ContentRecommendations struct {
	Products []models.Product      `json:"products"`
	Pairing  *models.PairingProfile `json:"pairing"`
}

func NewAffinityService(products ProductLookup, tables catalog.ContentTables) *AffinityService {
	return &AffinityService{
		products: products,
		tables:   tables,
	}
}

// RecommendProducts ranks products by how early and how often they appear in
// the affinity lists of the given tags and returns the top three.
func (s *AffinityService) RecommendProducts(tags []string) []models.Product {
	scores := make(map[string]int)
	order := make([]string, 0)

	for _, tag := range tags {
		ids, ok := s.tables.Affinity[tag]
		if !ok {
			continue
		}
		for i, id := range ids {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += len(ids) - i
		}
	}

	// Stable so ties keep first-seen order
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if len(order) > maxAffinityProducts {
		order = order[:maxAffinityProducts]
	}

	products := make([]models.Product, 0, len(order))
	for _, id := range order {
		if product, ok := s.products.Product(id); ok {
			products = append(products, product)
		}
	}

	return products
}

// BuildPairingProfile merges the pairing fragments of every tag. It returns
// nil when no tag has a fragment.
func (s *AffinityService) BuildPairingProfile(tags []string) *models.PairingProfile {
	profile := &models.PairingProfile{
		Chargers:     []models.ChargerRecommendation{},
		MPPT:         []models.MPPTRecommendation{},
		UpgradePaths: []models.UpgradePath{},
		Tips:         []string{},
	}

	seenChargers := make(map[string]struct{})
	seenMPPT := make(map[string]struct{})
	seenPaths := make(map[string]struct{})
	seenTips := make(map[string]struct{})

	matched := false
	for _, tag := range tags {
		fragment, ok := s.tables.Pairing[tag]
		if !ok {
			continue
		}
		matched = true

		profile.LoadRange = mergeLoadRange(profile.LoadRange, fragment.LoadRange)

		if chargers, ok := fragment.Chargers.Get(); ok {
			profile.Chargers = appendUnique(profile.Chargers, chargers, seenChargers,
				func(c models.ChargerRecommendation) string { return c.Name })
		}
		if mppt, ok := fragment.MPPT.Get(); ok {
			profile.MPPT = appendUnique(profile.MPPT, mppt, seenMPPT,
				func(m models.MPPTRecommendation) string { return m.Name })
		}
		if paths, ok := fragment.UpgradePaths.Get(); ok {
			profile.UpgradePaths = appendUnique(profile.UpgradePaths, paths, seenPaths,
				func(p models.UpgradePath) string { return p.Key() })
		}
		if tips, ok := fragment.Tips.Get(); ok {
			profile.Tips = appendUnique(profile.Tips, tips, seenTips,
				func(t string) string { return t })
		}
	}

	if !matched {
		return nil
	}

	profile.Chargers = truncate(profile.Chargers, maxPairingChargers)
	profile.MPPT = truncate(profile.MPPT, maxPairingMPPT)
	profile.UpgradePaths = truncate(profile.UpgradePaths, maxUpgradePaths)
	profile.Tips = truncate(profile.Tips, maxPairingTips)

	return profile
}

// Recommend bundles both affinity surfaces for a set of tags.
func (s *AffinityService) Recommend(tags []string) ContentRecommendations {
	return ContentRecommendations{
		Products: s.RecommendProducts(tags),
		Pairing:  s.BuildPairingProfile(tags),
	}
}

// ForArticle only surfaces recommendations on engineering articles.
func (s *AffinityService) ForArticle(article models.Article) ContentRecommendations {
	if article.Category != models.ArticleCategoryEngineering {
		return ContentRecommendations{Products: []models.Product{}}
	}
	return s.Recommend(article.Tags)
}

// mergeLoadRange keeps the range with the larger maximum.
func mergeLoadRange(current models.LoadRange, candidate models.Optional[models.LoadRange]) models.LoadRange {
	next, ok := candidate.Get()
	if !ok {
		return current
	}
	if next.MaxWatts > current.MaxWatts {
		return next
	}
	return current
}

// appendUnique appends the items whose key has not been seen yet. The first
// occurrence of a key wins.
func appendUnique[T any](dst []T, items []T, seen map[string]struct{}, key func(T) string) []T {
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
