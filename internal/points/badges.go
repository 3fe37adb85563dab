// Package points defines the interface boundary to the points/badge scoring
// collaborator and ships a default in-memory catalog so the API runs
// standalone.
package points

// Badge is one entry in the badge catalog surfaced to clients.
type Badge struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	MinPoints int    `json:"min_points"`
}

// Service is the scoring collaborator consumed by the profile join. Exactly
// one community badge id is synthesized per profile from its point total.
type Service interface {
	BadgeIDForPoints(points int) int64
	AllBadges() []Badge
}

// CatalogService scores community badges from a fixed threshold table.
type CatalogService struct {
	badges []Badge
}

var defaultCatalog = []Badge{
	{ID: 1, Label: "Newcomer", MinPoints: 0},
	{ID: 2, Label: "Contributor", MinPoints: 50},
	{ID: 3, Label: "Regular", MinPoints: 250},
	{ID: 4, Label: "Expert", MinPoints: 1000},
}

// NewCatalogService returns the default threshold-based scorer. Thresholds
// ascend; the highest one at or below the point total wins.
func NewCatalogService() *CatalogService {
	badges := make([]Badge, len(defaultCatalog))
	copy(badges, defaultCatalog)
	return &CatalogService{badges: badges}
}

// BadgeIDForPoints returns the community badge id for the given point total.
// Totals below every threshold (including negatives) map to the first badge.
func (s *CatalogService) BadgeIDForPoints(points int) int64 {
	id := s.badges[0].ID
	for _, badge := range s.badges {
		if points >= badge.MinPoints {
			id = badge.ID
		}
	}
	return id
}

// AllBadges returns a copy of the catalog.
func (s *CatalogService) AllBadges() []Badge {
	badges := make([]Badge, len(s.badges))
	copy(badges, s.badges)
	return badges
}
