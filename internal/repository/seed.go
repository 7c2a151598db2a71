package repository

import "github.com/uma-arai/sbcntr-stay/internal/model"

// サンプルユーザーのパスワードは全て"password123"です
const samplePasswordHash = "$2a$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewdBPj6ukx.LrUPW"

var sampleImages = []string{
	"/placeholder.svg?height=400&width=600",
	"/placeholder.svg?height=300&width=400",
}

var sampleUsers = []model.User{
	{FirstName: "John", LastName: "Doe", Email: "john@example.com", PasswordHash: samplePasswordHash},
	{FirstName: "Sarah", LastName: "Johnson", Email: "sarah@example.com", PasswordHash: samplePasswordHash, IsHost: true, IsSuperhost: true},
	{FirstName: "Mike", LastName: "Wilson", Email: "mike@example.com", PasswordHash: samplePasswordHash, IsHost: true},
	{FirstName: "Emma", LastName: "Davis", Email: "emma@example.com", PasswordHash: samplePasswordHash},
}

type sampleListing struct {
	hostEmail string
	input     model.CreateListingInput
}

var sampleListings = []sampleListing{
	{
		hostEmail: "sarah@example.com",
		input: model.CreateListingInput{
			Title:         "Cozy Mountain Cabin with Stunning Views",
			Description:   "Escape to this charming mountain cabin nestled in the heart of Aspen. Perfect for a romantic getaway or small family vacation, this cozy retreat offers breathtaking mountain views and easy access to hiking trails.",
			Location:      "Aspen, Colorado, United States",
			PricePerNight: 180,
			Guests:        4,
			Bedrooms:      2,
			Bathrooms:     1,
			PropertyType:  "Cabin",
			Amenities:     []string{"Wifi", "Kitchen", "Parking", "Hot Tub", "Fireplace"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 3:00 PM - 10:00 PM", "Checkout: 11:00 AM", "No smoking", "No pets allowed"},
		},
	},
	{
		hostEmail: "mike@example.com",
		input: model.CreateListingInput{
			Title:         "Modern Beach House",
			Description:   "Wake up to ocean views in this stunning modern beach house. Features include a private pool, direct beach access, and spacious outdoor deck perfect for entertaining.",
			Location:      "Malibu, California, United States",
			PricePerNight: 350,
			Guests:        8,
			Bedrooms:      4,
			Bathrooms:     3,
			PropertyType:  "House",
			Amenities:     []string{"Wifi", "Pool", "Beach Access", "Kitchen", "Parking", "Air Conditioning"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 4:00 PM - 9:00 PM", "Checkout: 11:00 AM", "No smoking", "No parties"},
		},
	},
	{
		hostEmail: "sarah@example.com",
		input: model.CreateListingInput{
			Title:         "Downtown Loft",
			Description:   "Stylish loft in the heart of the city. Walking distance to restaurants, shops, and attractions. Perfect for business travelers or couples exploring the city.",
			Location:      "New York, NY, United States",
			PricePerNight: 120,
			Guests:        2,
			Bedrooms:      1,
			Bathrooms:     1,
			PropertyType:  "Loft",
			Amenities:     []string{"Wifi", "Kitchen", "Gym Access", "Rooftop Terrace"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 3:00 PM - 11:00 PM", "Checkout: 11:00 AM", "No smoking"},
		},
	},
	{
		hostEmail: "mike@example.com",
		input: model.CreateListingInput{
			Title:         "Lakefront Cottage",
			Description:   "Peaceful lakefront cottage surrounded by nature. Perfect for fishing, kayaking, and relaxing by the water. The cottage features a private dock and outdoor fire pit.",
			Location:      "Lake Tahoe, California, United States",
			PricePerNight: 220,
			Guests:        6,
			Bedrooms:      3,
			Bathrooms:     2,
			PropertyType:  "Cottage",
			Amenities:     []string{"Wifi", "Kitchen", "Fireplace", "Dock", "Kayaks", "Fire Pit"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 3:00 PM - 8:00 PM", "Checkout: 11:00 AM", "No smoking", "No loud music after 10 PM"},
		},
	},
	{
		hostEmail: "sarah@example.com",
		input: model.CreateListingInput{
			Title:         "Urban Studio Apartment",
			Description:   "Modern studio apartment in the trendy downtown district. Perfect for solo travelers or couples. Features a murphy bed and full kitchen.",
			Location:      "Seattle, Washington, United States",
			PricePerNight: 95,
			Guests:        2,
			Bedrooms:      1,
			Bathrooms:     1,
			PropertyType:  "Apartment",
			Amenities:     []string{"Wifi", "Kitchen", "Gym Access", "Rooftop Access", "Laundry"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 3:00 PM - 10:00 PM", "Checkout: 11:00 AM", "No smoking", "Quiet hours after 10 PM"},
		},
	},
	{
		hostEmail: "mike@example.com",
		input: model.CreateListingInput{
			Title:         "Desert Villa with Pool",
			Description:   "Luxurious desert villa with private pool and spa. Stunning mountain views and modern architecture. Perfect for groups looking for a high-end desert experience.",
			Location:      "Scottsdale, Arizona, United States",
			PricePerNight: 450,
			Guests:        10,
			Bedrooms:      5,
			Bathrooms:     4,
			PropertyType:  "Villa",
			Amenities:     []string{"Wifi", "Pool", "Spa", "Kitchen", "Parking", "Air Conditioning", "BBQ Grill"},
			Images:        sampleImages,
			HouseRules:    []string{"Check-in: 4:00 PM - 8:00 PM", "Checkout: 11:00 AM", "No smoking", "No parties without permission"},
		},
	},
}

type sampleReview struct {
	reviewerEmail string
	listingIndex  int // sampleListingsのインデックス
	rating        int
	comment       string
}

var sampleReviews = []sampleReview{
	{"john@example.com", 0, 5, "Amazing cabin with incredible views! Sarah was a wonderful host and the place was exactly as described."},
	{"john@example.com", 2, 4, "Great location in downtown. The loft was clean and well-equipped. Would stay again!"},
	{"emma@example.com", 1, 5, "Perfect beach house for our family vacation. The pool and beach access were fantastic!"},
	{"emma@example.com", 3, 5, "Beautiful lakefront cottage. We loved the kayaks and the peaceful setting."},
}
