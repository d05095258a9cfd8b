package catalog

func amc(v int64) *int64 { return &v }

func seedProducts() []Product {
	return []Product{
		{
			ID:               "home-compact",
			Name:             "Oxygenix Home Compact",
			Slug:             "home-compact",
			Category:         CategoryHome,
			Description:      "Perfect for bedrooms and small living spaces. Combines HEPA filtration with algae-based oxygen support for healthier indoor air.",
			ShortDescription: "Ideal for bedrooms and small rooms",
			Image:            "/products/home-compact.jpg",
			Images: []string{
				"/products/home-compact.jpg",
				"/products/home-compact-2.jpg",
				"/products/home-compact-3.jpg",
				"/products/home-compact-4.jpg",
				"/products/home-compact-5.jpg",
			},
			Variants: []Variant{
				{ID: "hc-200", Name: "HC-200", Coverage: "200 sq ft", RoomSize: "Small Bedroom", Price: 24999, AMCPrice: amc(3999)},
				{ID: "hc-300", Name: "HC-300", Coverage: "300 sq ft", RoomSize: "Master Bedroom", Price: 29999, AMCPrice: amc(4499)},
			},
			Features: []string{
				"HEPA H13 filtration",
				"Algae-based oxygen generation",
				"Smart air quality monitoring",
				"Whisper-quiet operation",
				"Mobile app control",
			},
			Specifications: Specifications{
				Dimensions:               "450 × 450 × 650 mm",
				Weight:                   "8.5 kg",
				PowerConsumption:         "45W",
				NoiseLevel:               "28 dB",
				FilterLife:               "12 months",
				AlgaeMaintenanceInterval: "6 months",
			},
			MaintenanceCost: MaintenanceCost{Yearly: 4999, AMCAvailable: true},
			Rating:          4.7,
			ReviewCount:     342,
			InStock:         true,
		},
		{
			ID:               "home-pro",
			Name:             "Oxygenix Home Pro",
			Slug:             "home-pro",
			Category:         CategoryHome,
			Description:      "Designed for living rooms and open spaces. Enhanced oxygen output for larger areas with premium build quality.",
			ShortDescription: "Perfect for living rooms and halls",
			Image:            "/products/home-pro.jpg",
			Variants: []Variant{
				{ID: "hp-500", Name: "HP-500", Coverage: "500 sq ft", RoomSize: "Living Room", Price: 39999, AMCPrice: amc(5499)},
				{ID: "hp-800", Name: "HP-800", Coverage: "800 sq ft", RoomSize: "Large Hall", Price: 49999, AMCPrice: amc(6499)},
			},
			Features: []string{
				"Advanced HEPA filtration",
				"Enhanced algae oxygen system",
				"Real-time AQI display",
				"Auto mode with sensors",
				"Premium metal build",
			},
			Specifications: Specifications{
				Dimensions:               "550 × 550 × 750 mm",
				Weight:                   "12 kg",
				PowerConsumption:         "65W",
				NoiseLevel:               "32 dB",
				FilterLife:               "12 months",
				AlgaeMaintenanceInterval: "6 months",
			},
			MaintenanceCost: MaintenanceCost{Yearly: 6999, AMCAvailable: true},
			Rating:          4.8,
			ReviewCount:     287,
			InStock:         true,
		},
		{
			ID:               "corporate-office",
			Name:             "Oxygenix Corporate 1000",
			Slug:             "corporate-office",
			Category:         CategoryCorporate,
			Description:      "Engineered for office environments. Handles high occupancy with continuous oxygen support for improved productivity.",
			ShortDescription: "Ideal for offices and meeting rooms",
			Image:            "/products/corporate-office.jpg",
			Variants: []Variant{
				{ID: "co-1000", Name: "CO-1000", Coverage: "1000 sq ft", RoomSize: "Office Floor", Price: 79999, AMCPrice: amc(9999)},
				{ID: "co-1500", Name: "CO-1500", Coverage: "1500 sq ft", RoomSize: "Large Office", Price: 99999, AMCPrice: amc(12999)},
			},
			Features: []string{
				"Commercial-grade filtration",
				"High-capacity oxygen generation",
				"Centralized monitoring",
				"Low maintenance design",
				"Scalable deployment",
			},
			Specifications: Specifications{
				Dimensions:               "700 × 700 × 1000 mm",
				Weight:                   "25 kg",
				PowerConsumption:         "120W",
				NoiseLevel:               "38 dB",
				FilterLife:               "18 months",
				AlgaeMaintenanceInterval: "9 months",
			},
			MaintenanceCost: MaintenanceCost{Yearly: 12999, AMCAvailable: true},
			Rating:          4.6,
			ReviewCount:     156,
			InStock:         true,
		},
		{
			ID:               "college-classroom",
			Name:             "Oxygenix Edu 800",
			Slug:             "college-classroom",
			Category:         CategoryCollege,
			Description:      "Designed for classrooms and libraries. Creates optimal learning environments with clean, oxygen-rich air.",
			ShortDescription: "Perfect for classrooms and libraries",
			Image:            "/products/college-classroom.jpg",
			Variants: []Variant{
				{ID: "edu-800", Name: "EDU-800", Coverage: "800 sq ft", RoomSize: "Classroom", Price: 59999, AMCPrice: amc(7499)},
				{ID: "edu-1200", Name: "EDU-1200", Coverage: "1200 sq ft", RoomSize: "Large Hall", Price: 74999, AMCPrice: amc(8999)},
			},
			Features: []string{
				"Student-safe design",
				"Durable construction",
				"Energy efficient",
				"Minimal maintenance",
				"Educational AQI display",
			},
			Specifications: Specifications{
				Dimensions:               "600 × 600 × 850 mm",
				Weight:                   "18 kg",
				PowerConsumption:         "85W",
				NoiseLevel:               "35 dB",
				FilterLife:               "15 months",
				AlgaeMaintenanceInterval: "8 months",
			},
			MaintenanceCost: MaintenanceCost{Yearly: 8999, AMCAvailable: true},
			Rating:          4.9,
			ReviewCount:     203,
			InStock:         true,
		},
		{
			ID:               "hospital-care",
			Name:             "Oxygenix MedCare 600",
			Slug:             "hospital-care",
			Category:         CategoryHospital,
			Description:      "Medical-grade air quality for healthcare settings. Supports patient recovery with clean, oxygen-enriched environments.",
			ShortDescription: "Medical-grade for healthcare",
			Image:            "/products/hospital-care.jpg",
			Variants: []Variant{
				{ID: "mc-600", Name: "MC-600", Coverage: "600 sq ft", RoomSize: "Patient Room", Price: 89999, AMCPrice: amc(11999)},
				{ID: "mc-1000", Name: "MC-1000", Coverage: "1000 sq ft", RoomSize: "Ward", Price: 119999, AMCPrice: amc(14999)},
			},
			Features: []string{
				"Medical-grade HEPA",
				"Sterile oxygen generation",
				"Hospital-safe materials",
				"Silent operation",
				"Compliance certified",
			},
			Specifications: Specifications{
				Dimensions:               "650 × 650 × 900 mm",
				Weight:                   "22 kg",
				PowerConsumption:         "95W",
				NoiseLevel:               "30 dB",
				FilterLife:               "12 months",
				AlgaeMaintenanceInterval: "6 months",
			},
			MaintenanceCost: MaintenanceCost{Yearly: 14999, AMCAvailable: true},
			Rating:          4.9,
			ReviewCount:     98,
			InStock:         true,
		},
	}
}
