package catalog

// Default returns the built-in department directory. The data is fixed at
// startup; a real clinic integration would replace this with an EMR feed.
func Default() *Catalog {
	return New([]Department{
		{
			ID:          "cardiology",
			Name:        "Cardiology",
			Description: "Heart and cardiovascular health",
			Doctors: []Doctor{
				{
					ID:             "dr-smith",
					Name:           "Dr. Sarah Smith",
					Specialization: "Cardiologist",
					Rating:         4.8,
					Experience:     "15 years",
					AvailableSlots: []string{"09:00 AM", "10:30 AM", "02:00 PM", "03:30 PM"},
				},
				{
					ID:             "dr-johnson",
					Name:           "Dr. Michael Johnson",
					Specialization: "Interventional Cardiologist",
					Rating:         4.9,
					Experience:     "12 years",
					AvailableSlots: []string{"11:00 AM", "01:00 PM", "04:00 PM", "05:30 PM"},
				},
			},
		},
		{
			ID:          "neurology",
			Name:        "Neurology",
			Description: "Brain and nervous system disorders",
			Doctors: []Doctor{
				{
					ID:             "dr-williams",
					Name:           "Dr. Emily Williams",
					Specialization: "Neurologist",
					Rating:         4.7,
					Experience:     "18 years",
					AvailableSlots: []string{"08:30 AM", "10:00 AM", "01:30 PM", "03:00 PM"},
				},
			},
		},
		{
			ID:          "orthopedics",
			Name:        "Orthopedics",
			Description: "Bones, joints, and musculoskeletal system",
			Doctors: []Doctor{
				{
					ID:             "dr-brown",
					Name:           "Dr. David Brown",
					Specialization: "Orthopedic Surgeon",
					Rating:         4.6,
					Experience:     "20 years",
					AvailableSlots: []string{"09:30 AM", "11:30 AM", "02:30 PM", "04:30 PM"},
				},
			},
		},
		{
			ID:          "dermatology",
			Name:        "Dermatology",
			Description: "Skin, hair, and nail conditions",
			Doctors: []Doctor{
				{
					ID:             "dr-davis",
					Name:           "Dr. Lisa Davis",
					Specialization: "Dermatologist",
					Rating:         4.8,
					Experience:     "14 years",
					AvailableSlots: []string{"08:00 AM", "10:30 AM", "01:00 PM", "03:30 PM"},
				},
			},
		},
	})
}
