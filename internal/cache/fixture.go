package cache

import (
	"time"

	"tripmarket/internal/domain"
)

// FixtureData is the built-in dataset the loader falls back to when the
// remote store is unconfigured, keeping the UI navigable in degraded
// mode. IDs are stable so tests can reference them.
func FixtureData() GlobalData {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	cap12 := 12
	cap40 := 40

	agencies := []domain.Agency{
		{
			ID: "agency-andes", OwnerUserID: "user-andes", Name: "Andes Trails",
			Slug: "andes-trails", Active: true, Email: "hello@andestrails.example",
			City: "Cusco", LogoURL: "https://cdn.tripmarket.example/logos/andes.png",
			Subscription: domain.Subscription{Plan: domain.PlanPro, Status: domain.SubscriptionActive},
			CreatedAt:    day(2023, 3, 12),
		},
		{
			ID: "agency-azure", OwnerUserID: "user-azure", Name: "Azure Coast Tours",
			Slug: "azure-coast-tours", Active: true, Email: "contact@azurecoast.example",
			City: "Florianópolis", LogoURL: "https://cdn.tripmarket.example/logos/azure.png",
			Subscription: domain.Subscription{Plan: domain.PlanFree, Status: domain.SubscriptionActive},
			CreatedAt:    day(2023, 7, 2),
		},
	}

	trips := []domain.Trip{
		{
			ID: "trip-machu", AgencyID: "agency-andes",
			Title: "Machu Picchu Explorer", Slug: "machu-picchu-explorer",
			Destination: "Machu Picchu, Peru", Price: 1290,
			StartDate: day(2026, 10, 5), EndDate: day(2026, 10, 11),
			Category: domain.CategoryAdventure,
			Tags:     []string{"trekking", "ruins", "guided"},
			Itinerary: []domain.ItineraryDay{
				{Day: 1, Description: "Arrival in Cusco, acclimatization walk"},
				{Day: 2, Description: "Sacred Valley and Ollantaytambo"},
				{Day: 3, Description: "Inca Trail first leg"},
			},
			Boarding: []domain.BoardingPoint{
				{Time: "05:30", Location: "Plaza de Armas, Cusco"},
				{Time: "06:00", Location: "San Blas terminal"},
			},
			Active: true, Views: 420, Sales: 37, Capacity: &cap12,
			Coords: &domain.Coords{Lat: -13.1631, Lon: -72.545},
			Rating: 4.8, RatingCount: 21, CreatedAt: day(2025, 11, 20),
		},
		{
			ID: "trip-island", AgencyID: "agency-azure",
			Title: "Ilha do Campeche Day Trip", Slug: "ilha-do-campeche-day-trip",
			Destination: "Florianópolis, Brazil", Price: 180,
			StartDate: day(2026, 9, 14), EndDate: day(2026, 9, 14),
			Category: domain.CategoryBeach,
			Tags:     []string{"snorkeling", "boat", "family"},
			Boarding: []domain.BoardingPoint{{Time: "08:00", Location: "Armação pier"}},
			Active:   true, Views: 950, Sales: 112, Capacity: &cap40,
			Coords: &domain.Coords{Lat: -27.6946, Lon: -48.4634},
			Rating: 4.5, RatingCount: 48, CreatedAt: day(2025, 12, 1),
		},
		{
			ID: "trip-patagonia", AgencyID: "agency-andes",
			Title: "Patagonia Winter Crossing", Slug: "patagonia-winter-crossing",
			Destination: "El Chaltén, Argentina", Price: 2350,
			StartDate: day(2026, 7, 1), EndDate: day(2026, 7, 9),
			Category: domain.CategoryAdventure,
			Tags:     []string{"hiking", "glacier"},
			Active:   false, // drafted, not yet published
			Views:    12, Sales: 0,
			CreatedAt: day(2026, 2, 8),
		},
	}

	clients := []domain.Client{
		{
			ID: "client-marina", Name: "Marina Lopes", Email: "marina@example.com",
			AvatarURL: "https://cdn.tripmarket.example/avatars/marina.png",
			Status:    domain.ClientActive, Favorites: []string{"trip-machu"},
			CreatedAt: day(2024, 5, 3),
		},
		{
			ID: "client-diego", Name: "Diego Ferraz", Email: "diego@example.com",
			Status:    domain.ClientActive,
			CreatedAt: day(2024, 9, 18),
		},
	}

	resp := "Thank you, Marina! See you on the next trail."
	tripRef := "trip-machu"
	reviews := []domain.Review{
		{
			ID: "review-1", AgencyID: "agency-andes", ClientID: "client-marina",
			TripID: &tripRef, Rating: 5,
			Comment:   "Flawless organization and a wonderful guide.",
			Tags:      []string{"guide", "organization"},
			Response:  &resp,
			CreatedAt: day(2026, 1, 15),
		},
		{
			ID: "review-2", AgencyID: "agency-azure", ClientID: "client-diego",
			Rating: 4, Comment: "Great day out, boat was a bit crowded.",
			CreatedAt: day(2026, 2, 2),
		},
	}

	broadcasts := []domain.BroadcastMessage{
		{
			ID: "bcast-welcome", Title: "Welcome to the new trip search",
			Body:      "Filters now cover dates, budget and distance.",
			Roles:     nil, // all roles
			CreatedAt: day(2026, 3, 1),
		},
		{
			ID: "bcast-payouts", Title: "Payout schedule change",
			Body:      "Agency payouts now run weekly on Mondays.",
			Roles:     []domain.Role{domain.RoleAgency},
			CreatedAt: day(2026, 4, 10),
		},
	}

	activity := []domain.ActivityEntry{
		{
			ID: "act-1", ActorID: "client-marina", Action: "booking.created",
			EntityID: "trip-machu", Detail: "2 seats", CreatedAt: day(2026, 1, 10),
		},
		{
			ID: "act-2", ActorID: "client-marina", Action: "review.submitted",
			EntityID: "review-1", CreatedAt: day(2026, 1, 15),
		},
	}

	return GlobalData{
		Trips:      trips,
		Agencies:   agencies,
		Clients:    clients,
		Reviews:    reviews,
		Broadcasts: broadcasts,
		Activity:   activity,
		Settings: domain.PlatformSettings{
			ID:              domain.SettingsID,
			CommissionRate:  0.12,
			SupportEmail:    "support@tripmarket.example",
			FeaturedTripIDs: []string{"trip-machu", "trip-island"},
		},
	}
}
