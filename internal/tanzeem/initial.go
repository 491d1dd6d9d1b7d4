package tanzeem

// DefaultStorageKey names the slot record the app state is persisted under.
const DefaultStorageKey = "tanzeem-storage"

func initialZones() []Zone {
	return []Zone{
		{ID: "zone-a", Name: "Zone A", Distance: "1.2 km", Capacity: 120, Remaining: 12},
		{ID: "zone-b", Name: "Zone B", Distance: "0.8 km", Capacity: 120, Remaining: 31},
		{ID: "zone-c", Name: "Zone C", Distance: "1.5 km", Capacity: 120, Remaining: 0},
	}
}

func initialCarpoolFamilies() []CarpoolFamily {
	return []CarpoolFamily{
		{ID: "family-1", Name: "Ahmed Family", Neighbourhood: "Al Barsha 2", ChildName: "Omar", MatchScore: 95},
		{ID: "family-2", Name: "Khan Family", Neighbourhood: "Al Barsha 2", ChildName: "Fatima", MatchScore: 88},
		{ID: "family-3", Name: "Smith Family", Neighbourhood: "Al Barsha 3", ChildName: "Liam", MatchScore: 72},
	}
}

// InitialState returns the demo snapshot a session starts from and resets to.
// Each call builds fresh slices.
func InitialState() AppState {
	return AppState{
		ParentName:      "Sara's Mum",
		ChildName:       "Sara",
		SchoolName:      "Millennium School",
		PickupTime:      "2:00 PM",
		CurrentMode:     ModeOnsite,
		PickupStatus:    StatusPending,
		OverrunHistory:  []OverrunRecord{},
		TimelineEvents:  []TimelineEvent{},
		CarpoolRequests: []string{},
		Zones:           initialZones(),
		CarpoolFamilies: initialCarpoolFamilies(),
	}
}
