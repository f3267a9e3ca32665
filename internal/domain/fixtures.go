package domain

// DefaultCatalog returns the seed catalog served before the first successful
// remote ingestion. Returned slices are fresh copies; callers may slice and
// filter them freely.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:            "p1",
			Name:          "Ultratech Cement (OPC 43)",
			CategoryKey:   "cement",
			Price:         410,
			OriginalPrice: 450,
			Unit:          "50kg Bag",
			Brand:         "Ultratech",
			ImageURL:      "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?q=80&w=300&auto=format&fit=crop",
		},
		{
			ID:            "p2",
			Name:          "Havells 1.5 Sq mm FR Wire",
			CategoryKey:   "electrical",
			Price:         1540,
			OriginalPrice: 1800,
			Unit:          "90m Coil",
			Brand:         "Havells",
			ImageURL:      "https://images.unsplash.com/photo-1621905251189-08b45d6a269e?q=80&w=300&auto=format&fit=crop",
		},
		{
			ID:            "pd1",
			Name:          "Berger Bison Emulsion Paint - White",
			CategoryKey:   "painting",
			Price:         120,
			OriginalPrice: 240,
			Unit:          "1 Litre",
			Brand:         "Berger",
			ImageURL:      "https://images.unsplash.com/photo-1589939705384-5185137a7f0f?q=80&w=300&auto=format&fit=crop",
			Rating:        floatPtr(4.8),
			RatingCount:   intPtr(5620),
			DeliveryTime:  "25 MINS",
			Discount:      "50% OFF",
		},
		{
			ID:            "pd2",
			Name:          "Godrej Ultra Lock (Rim)",
			CategoryKey:   "locks",
			Price:         890,
			OriginalPrice: 1200,
			Unit:          "1 Unit",
			Brand:         "Godrej",
			ImageURL:      "https://images.unsplash.com/photo-1510816159960-63fb58b4ddbb?q=80&w=300&auto=format&fit=crop",
			Rating:        floatPtr(4.5),
			RatingCount:   intPtr(17551),
			DeliveryTime:  "45 MINS",
			Discount:      "25% OFF",
		},
		{
			ID:            "pd3",
			Name:          "Bosch Professional Drill Machine",
			CategoryKey:   "hardware",
			Price:         2499,
			OriginalPrice: 4500,
			Unit:          "Box Kit",
			Brand:         "Bosch",
			ImageURL:      "https://images.unsplash.com/photo-1581244277943-fe4a9c777189?q=80&w=300&auto=format&fit=crop",
			Rating:        floatPtr(4.7),
			RatingCount:   intPtr(9581),
			DeliveryTime:  "60 MINS",
			Discount:      "44% OFF",
		},
	}
}

// DefaultCategoryGroups returns the grouped browse taxonomy.
func DefaultCategoryGroups() []CategoryGroup {
	return []CategoryGroup{
		{
			Title: "Civil & Interiors",
			Categories: []Category{
				{ID: "cement", Name: "Cement", ImageURL: "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?q=80&w=200&auto=format&fit=crop"},
				{ID: "tiling", Name: "Tiling", ImageURL: "https://images.unsplash.com/photo-1584622650111-993a426fbf0a?q=80&w=200&auto=format&fit=crop"},
				{ID: "painting", Name: "Painting", ImageURL: "https://images.unsplash.com/photo-1589939705384-5185137a7f0f?q=80&w=200&auto=format&fit=crop"},
				{ID: "waterproofing", Name: "Water Proofing", ImageURL: "https://images.unsplash.com/photo-1504307651254-35680f356dfd?q=80&w=200&auto=format&fit=crop"},
				{ID: "plywood", Name: "Plywood, MDF & HDHMR", ImageURL: "https://images.unsplash.com/photo-1628744448839-2462bc28b77d?q=80&w=200&auto=format&fit=crop"},
				{ID: "fevicol", Name: "Fevicol", ImageURL: "https://images.unsplash.com/photo-1581092160607-ee22621dd758?q=80&w=200&auto=format&fit=crop"},
				{ID: "hardware", Name: "General Hardware & Tools", ImageURL: "https://images.unsplash.com/photo-1581244277943-fe4a9c777189?q=80&w=200&auto=format&fit=crop"},
				{ID: "appliances", Name: "Kitchen & Home Appliances", ImageURL: "https://images.unsplash.com/photo-1556910103-1c02745aae4d?q=80&w=200&auto=format&fit=crop"},
			},
		},
		{
			Title: "Furniture & Architectural Hardware",
			Categories: []Category{
				{ID: "hinges", Name: "Hinges, Channels & Handles", ImageURL: "https://images.unsplash.com/photo-1508614589041-895b88991e3e?q=80&w=200&auto=format&fit=crop"},
				{ID: "kitchen-sys", Name: "Kitchen Systems & Accessories", ImageURL: "https://images.unsplash.com/photo-1600585154526-990dcea46c99?q=80&w=200&auto=format&fit=crop"},
				{ID: "wardrobe", Name: "Wardrobe & Bed Fittings", ImageURL: "https://images.unsplash.com/photo-1595428774223-ef52624120d2?q=80&w=200&auto=format&fit=crop"},
				{ID: "locks", Name: "Door Locks & Hardware", ImageURL: "https://images.unsplash.com/photo-1510816159960-63fb58b4ddbb?q=80&w=200&auto=format&fit=crop"},
			},
		},
		{
			Title: "Electrical",
			Categories: []Category{
				{ID: "conduits", Name: "Conduits & GI Boxes", ImageURL: "https://images.unsplash.com/photo-1558402529-d26c897104b9?q=80&w=200&auto=format&fit=crop"},
				{ID: "wires", Name: "Wires", ImageURL: "https://images.unsplash.com/photo-1621905251189-08b45d6a269e?q=80&w=200&auto=format&fit=crop"},
				{ID: "switches", Name: "Switches & Sockets", ImageURL: "https://images.unsplash.com/photo-1614859324967-bdf471b0724e?q=80&w=200&auto=format&fit=crop"},
				{ID: "lighting", Name: "Lighting", ImageURL: "https://images.unsplash.com/photo-1550684848-fac1c5b4e853?q=80&w=200&auto=format&fit=crop"},
			},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
