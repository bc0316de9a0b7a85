package graph

// SeedComponents is the stock maintenance taxonomy for a typical passenger
// vehicle in a hot, dusty climate. Interval properties are miles unless
// noted.
func SeedComponents() []Component {
	return []Component{
		{ID: "engine-oil", Name: "Engine Oil", Category: "engine", Properties: map[string]string{"interval": "5000", "note": "shorter interval under sustained heat"}},
		{ID: "oil-filter", Name: "Oil Filter", Category: "filtration", Properties: map[string]string{"interval": "5000"}},
		{ID: "air-filter", Name: "Air Filter", Category: "filtration", Properties: map[string]string{"interval": "15000", "note": "halve interval in dusty regions"}},
		{ID: "cabin-filter", Name: "Cabin Air Filter", Category: "filtration", Properties: map[string]string{"interval": "15000"}},
		{ID: "intake", Name: "Air Intake", Category: "engine"},
		{ID: "battery", Name: "Battery", Category: "electrical", Properties: map[string]string{"interval_months": "36", "note": "heat shortens battery life"}},
		{ID: "alternator", Name: "Alternator", Category: "electrical"},
		{ID: "coolant", Name: "Coolant", Category: "cooling", Properties: map[string]string{"interval": "30000"}},
		{ID: "radiator", Name: "Radiator", Category: "cooling"},
		{ID: "water-pump", Name: "Water Pump", Category: "cooling"},
		{ID: "tires", Name: "Tires", Category: "tires", Properties: map[string]string{"interval_months": "60", "note": "rubber degrades faster above 45C"}},
		{ID: "brake-pads", Name: "Brake Pads", Category: "brakes", Properties: map[string]string{"interval": "30000"}},
		{ID: "brake-fluid", Name: "Brake Fluid", Category: "brakes", Properties: map[string]string{"interval_months": "24"}},
		{ID: "spark-plugs", Name: "Spark Plugs", Category: "engine", Properties: map[string]string{"interval": "60000"}},
		{ID: "transmission-fluid", Name: "Transmission Fluid", Category: "engine", Properties: map[string]string{"interval": "60000"}},
	}
}

// SeedEdges wires the taxonomy together.
func SeedEdges() []Edge {
	return []Edge{
		{ID: "e1", From: "oil-filter", To: "engine-oil", Type: "protects"},
		{ID: "e2", From: "engine-oil", To: "spark-plugs", Type: "wears_with"},
		{ID: "e3", From: "air-filter", To: "intake", Type: "protects"},
		{ID: "e4", From: "intake", To: "engine-oil", Type: "feeds"},
		{ID: "e5", From: "battery", To: "alternator", Type: "wears_with"},
		{ID: "e6", From: "coolant", To: "radiator", Type: "feeds"},
		{ID: "e7", From: "water-pump", To: "radiator", Type: "feeds"},
		{ID: "e8", From: "coolant", To: "battery", Type: "wears_with"},
		{ID: "e9", From: "brake-fluid", To: "brake-pads", Type: "feeds"},
		{ID: "e10", From: "cabin-filter", To: "air-filter", Type: "wears_with"},
		{ID: "e11", From: "transmission-fluid", To: "engine-oil", Type: "wears_with"},
	}
}
