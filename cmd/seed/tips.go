package main

import (
	"github.com/google/uuid"

	"github.com/RafiqAuto/rafiq-mvp/engine/semantic"
)

// tipID derives a stable UUID from the tip slug so re-running the seed
// overwrites instead of duplicating.
func tipID(slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("rafiq:tip:"+slug)).String()
}

func tip(slug, category, title, body string) semantic.TipRecord {
	return semantic.TipRecord{
		ID:       tipID(slug),
		Title:    title,
		Body:     body,
		Category: category,
	}
}

// tipCorpus is the maintenance knowledge base embedded into Qdrant. It is
// written for hot, dusty Gulf driving conditions.
func tipCorpus() []semantic.TipRecord {
	return []semantic.TipRecord{
		tip("oil-interval-heat", "oil",
			"Shorten oil intervals in extreme heat",
			"Sustained driving above 45C breaks down conventional oil faster. Change every 5,000 km or switch to a full synthetic rated for high ambient temperatures."),
		tip("oil-synthetic", "oil",
			"Synthetic oil for desert climates",
			"Full synthetic oils keep their viscosity in high heat and resist oxidation, which matters far more in the Gulf summer than in mild climates."),
		tip("oil-level-check", "oil",
			"Check oil level monthly",
			"Heat increases oil consumption. Check the dipstick on level ground with a cold engine once a month and top up with the same grade."),
		tip("air-filter-sandstorm", "filters",
			"Inspect air filters after sandstorms",
			"A single shamal can load an air filter with fine dust. Inspect engine and cabin filters after major sandstorm events and replace when airflow is restricted."),
		tip("cabin-filter", "filters",
			"Cabin filter affects AC performance",
			"A clogged cabin filter makes the AC work harder and cool worse. Replace it at least twice a year in dusty regions."),
		tip("battery-heat", "battery",
			"Heat kills batteries faster than cold",
			"Battery life in the Gulf averages two years versus four in temperate climates. Test the battery every six months once it is a year old."),
		tip("battery-terminals", "battery",
			"Keep battery terminals clean",
			"Corrosion builds faster in humid coastal heat. Clean terminals with a wire brush and apply terminal grease to prevent voltage drop."),
		tip("coolant-check", "cooling",
			"Watch coolant levels in summer",
			"Check the coolant reservoir weekly in summer. A dropping level with no visible leak often means a failing radiator cap or a small hose seep."),
		tip("coolant-flush", "cooling",
			"Flush coolant on schedule",
			"Old coolant loses its anti-corrosion additives. Flush and refill per the manual, and never mix coolant colors or chemistries."),
		tip("radiator-debris", "cooling",
			"Keep the radiator clear of sand",
			"Sand and debris packed between the condenser and radiator cause gradual overheating. Have the stack blown out with compressed air once a year."),
		tip("tire-pressure-heat", "tires",
			"Check tire pressure cold",
			"Pressure rises about 1 psi for every 5C of heat. Measure before driving in the morning and follow the door-jamb placard, not the tire sidewall."),
		tip("tire-age", "tires",
			"Replace tires by age, not just tread",
			"Heat ages rubber. In the Gulf, replace tires at five years from the date code even if tread remains, and check for sidewall cracking sooner."),
		tip("brake-fluid-moisture", "brakes",
			"Brake fluid absorbs moisture",
			"Humid air degrades brake fluid, lowering its boiling point. Test annually and flush every two years to keep the pedal firm."),
		tip("brake-dust-squeal", "brakes",
			"Sand causes premature brake wear",
			"Fine sand between pad and rotor accelerates wear and causes squeal. Have pads inspected whenever a new noise appears after a dusty drive."),
		tip("wiper-blades", "general",
			"Replace wiper blades yearly",
			"Sun-baked rubber hardens and cracks. Replace blades before the rainy months and use washer fluid, not a dry wipe, on dusty glass."),
		tip("parking-shade", "general",
			"Shade parking pays for itself",
			"Interior temperatures above 70C degrade dashboards, electronics, and battery life. A shaded spot or sunshade measurably slows the damage."),
		tip("fuel-quality", "general",
			"Keep the tank above a quarter",
			"Running low pulls sediment into the fuel pump and lets the pump run hot. In summer, keep at least a quarter tank to cool and submerge the pump."),
		tip("service-history", "general",
			"Keep dated service records",
			"Time-based maintenance matters as much as mileage in harsh climates. Record dates, not just odometer readings, for oil, coolant, and filters."),
	}
}
