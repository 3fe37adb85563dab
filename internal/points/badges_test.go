package points

import "testing"

func TestBadgeIDForPointsThresholds(t *testing.T) {
	service := NewCatalogService()

	testCases := []struct {
		name   string
		points int
		want   int64
	}{
		{name: "zero", points: 0, want: 1},
		{name: "negative", points: -10, want: 1},
		{name: "below-contributor", points: 49, want: 1},
		{name: "contributor-boundary", points: 50, want: 2},
		{name: "regular", points: 300, want: 3},
		{name: "expert", points: 5000, want: 4},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := service.BadgeIDForPoints(testCase.points)
			if got != testCase.want {
				t.Fatalf("points %d: got badge %d, want %d", testCase.points, got, testCase.want)
			}
		})
	}
}

func TestAllBadgesReturnsDefensiveCopy(t *testing.T) {
	service := NewCatalogService()

	first := service.AllBadges()
	if len(first) == 0 {
		t.Fatalf("expected a non-empty catalog")
	}
	first[0].ID = 999

	second := service.AllBadges()
	if second[0].ID == 999 {
		t.Fatalf("catalog mutated through returned slice")
	}
}
