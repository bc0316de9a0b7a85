package feed

// Catalog is the curated discover feed shipped with this release.
func Catalog() []Item {
	return []Item{
		{
			ID:          "1",
			Category:    "event",
			Title:       "Cars & Coffee – West Bay",
			Description: "Join fellow enthusiasts this Friday from 8–11am. Free entry, family friendly.",
			Image:       "https://images.unsplash.com/photo-1503376780353-7e6692767b70?q=80&w=1200&auto=format&fit=crop",
			Link:        "#event-1",
		},
		{
			ID:          "2",
			Category:    "offer",
			Title:       "20% off AC Service",
			Description: "Stay cool. Limited-time offer at select partner garages. Book by the end of this week.",
			Image:       "https://images.unsplash.com/photo-1542362567-b07e54358753?q=80&w=1200&auto=format&fit=crop",
			Link:        "#offer-1",
		},
		{
			ID:          "3",
			Category:    "tip",
			Title:       "Summer Heat Tip",
			Description: "Check coolant levels monthly and park in shade to reduce thermal stress on the battery.",
			Link:        "#tip-1",
		},
		{
			ID:          "4",
			Category:    "ai",
			Title:       "From QIC Daily AI",
			Description: "Based on your last service, consider an air filter inspection in ~1,200 miles.",
			Link:        "#ai-1",
		},
		{
			ID:          "5",
			Category:    "reminder",
			Title:       "Insurance Renewal",
			Description: "Your policy is up for renewal in 12 days. Review your coverage or renew now.",
			Link:        "#reminder-1",
		},
		{
			ID:          "6",
			Category:    "offer",
			Title:       "Free Tire Check",
			Description: "Stop by any partner to get a complimentary tire health check this weekend.",
			Image:       "https://images.unsplash.com/photo-1511715280715-1f2b3b749875?q=80&w=1200&auto=format&fit=crop",
			Link:        "#offer-2",
		},
	}
}
