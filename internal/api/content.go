package api

// Static marketing copy for the features, specifications and support pages

type specRow struct {
	Label string
	Value string
}

type specGroup struct {
	Title string
	Rows  []specRow
}

var specifications = []specGroup{
	{
		Title: "Design & Build",
		Rows: []specRow{
			{"Dimensions", "45 × 32 × 12 mm"},
			{"Weight", "28g"},
			{"Materials", "Aerospace aluminum, TPU"},
			{"Colors", "Midnight Black"},
			{"Water Resistance", "IP68 (up to 1.5m for 30 min)"},
			{"Strap", "Adjustable nylon, 20-60cm"},
		},
	},
	{
		Title: "Performance",
		Rows: []specRow{
			{"GPS Accuracy", "5-10m"},
			{"Update Frequency", "Every 30 seconds"},
			{"Battery Life", "Up to 30 days"},
			{"Charging Time", "2 hours (USB-C)"},
			{"Operating Temp", "-10°C to 50°C"},
			{"Connectivity", "LTE-M, NB-IoT, Bluetooth 5.0"},
		},
	},
	{
		Title: "Sensors",
		Rows: []specRow{
			{"GPS", "GPS, GLONASS, Galileo"},
			{"Accelerometer", "3-axis, 16-bit"},
			{"Gyroscope", "3-axis"},
			{"Temperature", "±0.5°C accuracy"},
		},
	},
}

type feature struct {
	Title  string
	Points []string
}

var features = []feature{
	{
		Title: "Real-Time GPS Tracking",
		Points: []string{
			"Live location updates every 30 seconds",
			"Unlimited safe zone alerts",
			"Location history for the past 90 days",
		},
	},
	{
		Title: "Health & Activity Monitoring",
		Points: []string{
			"Daily step and calorie tracking",
			"Sleep quality monitoring",
			"Behavior pattern analysis",
		},
	},
	{
		Title: "Waterproof & Durable",
		Points: []string{
			"IP68 waterproof rating",
			"Reinforced military-grade materials",
			"Up to 30 days of battery life",
		},
	},
}

type faq struct {
	Question string
	Answer   string
}

var faqs = []faq{
	{
		"How long does the battery last?",
		"The collar battery lasts up to 30 days on a single charge with normal use. Battery life may vary depending on GPS tracking frequency and usage patterns.",
	},
	{
		"Is the collar waterproof?",
		"Yes! The collar has an IP68 rating, making it fully waterproof and dustproof. Your pet can swim, play in the rain, and get dirty without any issues.",
	},
	{
		"What sizes are available?",
		"We offer three sizes: Small (for pets 5-15 lbs), Medium (15-40 lbs), and Large (40+ lbs). Each collar has an adjustable strap to ensure a perfect fit.",
	},
	{
		"Does it work internationally?",
		"Yes, the collar works in over 175 countries worldwide using global cellular networks. A subscription is required for GPS tracking services.",
	},
	{
		"What's included in the subscription?",
		"The subscription includes unlimited GPS tracking, location history, safe zone alerts, health monitoring, and 24/7 customer support. The first year is included with your purchase.",
	},
	{
		"How accurate is the GPS tracking?",
		"The collar uses multi-constellation GPS (GPS, GLONASS, Galileo) for accuracy within 5-10 meters in most conditions. Updates are provided every 30 seconds during active tracking.",
	},
}
