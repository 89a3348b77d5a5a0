package application

import "github.com/taivex/taivex/internal/domain/entity"

// SystemCategories returns the shared garment defaults seeded on first boot.
func SystemCategories() []entity.Category {
	return []entity.Category{
		{Name: "Shirt", Gender: "male", Fields: []string{"Length", "Chest", "Shoulder", "Sleeve", "Collar", "Cuff"}},
		{Name: "Pant", Gender: "male", Fields: []string{"Length", "Waist", "Seat", "Thigh", "Knee", "Bottom"}},
		{Name: "Kurta", Gender: "male", Fields: []string{"Length", "Chest", "Shoulder", "Sleeve"}},
		{Name: "Blouse", Gender: "female", Fields: []string{"Length", "Chest", "Waist", "Shoulder", "Sleeve", "Front Depth", "Back Depth"}},
		{Name: "Kurti", Gender: "female", Fields: []string{"Length", "Chest", "Waist", "Hip", "Shoulder"}},
		{Name: "Salwar", Gender: "female", Fields: []string{"Length", "Waist", "Hip", "Bottom"}},
	}
}
